package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// DefaultCurrency is used when a row carries no currency symbol.
const DefaultCurrency = "₹"

// Normalize turns a backend row into a MultiKaratQuote for city. It never
// fails; unusable fields degrade to zero.
func Normalize(row RawQuoteRow, city string) MultiKaratQuote {
	currency := strings.TrimSpace(cast.ToString(row["currency"]))
	if currency == "" {
		currency = DefaultCurrency
	}

	quote := MultiKaratQuote{
		Date:     cast.ToString(row["date"]),
		City:     city,
		Currency: currency,
		Purities: make([]PurityQuote, 0, len(Purities)),
	}

	for _, p := range Purities {
		today := CoerceDecimal(row[column(p, "today")])
		yesterday := CoerceDecimal(row[column(p, "yesterday")])
		token := cast.ToString(row[column(p, "direction")])

		quote.Purities = append(quote.Purities, PurityQuote{
			Purity:    p,
			Today:     today,
			Yesterday: yesterday,
			Change:    ResolveChange(CoerceDecimal(row[column(p, "change")]), today, yesterday),
			Direction: ResolveDirection(token, today, yesterday),
		})
	}
	return quote
}

func column(p Purity, suffix string) string {
	return fmt.Sprintf("%s_1g_%s", p, suffix)
}

// ResolveChange prefers the source magnitude and falls back to
// |today - yesterday| when the source value is missing.
func ResolveChange(source, today, yesterday decimal.Decimal) decimal.Decimal {
	if !source.IsZero() {
		return source.Abs()
	}
	return today.Sub(yesterday).Abs()
}

// ResolveDirection reconciles the source's direction token with the numeric
// comparison. A usable token is kept unless both prices are known and
// disagree with it.
func ResolveDirection(token string, today, yesterday decimal.Decimal) Direction {
	numeric := CompareDirection(today, yesterday)
	tokenDir, usable := ParseDirectionToken(token)
	if !usable {
		return numeric
	}
	if today.Sign() > 0 && yesterday.Sign() > 0 && tokenDir != numeric {
		return numeric
	}
	return tokenDir
}

// CompareDirection classifies today against yesterday.
func CompareDirection(today, yesterday decimal.Decimal) Direction {
	switch today.Cmp(yesterday) {
	case 1:
		return DirectionUp
	case -1:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// ParseDirectionToken maps a source token to a direction. The second result
// is false for empty or unrecognised tokens.
func ParseDirectionToken(token string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "+", "up", "▲", "increase", "rise":
		return DirectionUp, true
	case "-", "down", "▼", "decrease", "fall":
		return DirectionDown, true
	case "=", "0", "flat", "unchanged", "nochange":
		return DirectionFlat, true
	default:
		return "", false
	}
}
