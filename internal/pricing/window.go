package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// HistoryWindow is the number of trailing points kept for history views.
const HistoryWindow = 30

// Stats holds the extremes of a history window.
type Stats struct {
	Max decimal.Decimal `json:"max"`
	Min decimal.Decimal `json:"min"`
}

// ReduceStats returns the max and min over series plus today. Non-positive
// values are ignored; with nothing left both extremes equal today.
func ReduceStats(series []DatedPricePoint, today decimal.Decimal) Stats {
	candidates := make([]decimal.Decimal, 0, len(series)+1)
	for _, p := range series {
		if p.Price.Sign() > 0 {
			candidates = append(candidates, p.Price)
		}
	}
	if today.Sign() > 0 {
		candidates = append(candidates, today)
	}
	if len(candidates) == 0 {
		return Stats{Max: today, Min: today}
	}
	return Stats{
		Max: decimal.Max(candidates[0], candidates[1:]...),
		Min: decimal.Min(candidates[0], candidates[1:]...),
	}
}

// TrailingWindow orders points by ascending date, keeps the last point seen
// for each date and returns the most recent n.
func TrailingWindow(points []DatedPricePoint, n int) []DatedPricePoint {
	byDate := make(map[string]int, len(points))
	out := make([]DatedPricePoint, 0, len(points))
	for _, p := range points {
		if idx, ok := byDate[p.Date]; ok {
			out[idx] = p
			continue
		}
		byDate[p.Date] = len(out)
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// ParseHistory maps backend history rows to points. The price comes from
// the first non-zero of price, val or 22k; rows without a date are dropped.
func ParseHistory(rows []RawQuoteRow) []DatedPricePoint {
	points := make([]DatedPricePoint, 0, len(rows))
	for _, row := range rows {
		date := strings.TrimSpace(cast.ToString(row["date"]))
		if date == "" {
			continue
		}
		price := 0.0
		for _, key := range []string{"price", "val", "22k"} {
			if price = Coerce(row[key]); price != 0 {
				break
			}
		}
		points = append(points, DatedPricePoint{Date: date, Price: decimal.NewFromFloat(price)})
	}
	return points
}
