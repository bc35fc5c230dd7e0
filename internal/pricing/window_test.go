package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReduceStats(t *testing.T) {
	series := []DatedPricePoint{{Date: "2026-01-01", Price: dec(100)}, {Date: "2026-01-02", Price: dec(120)}}
	stats := ReduceStats(series, dec(110))
	if !stats.Max.Equal(dec(120)) || !stats.Min.Equal(dec(100)) {
		t.Fatalf("stats = %+v, want max 120 min 100", stats)
	}

	stats = ReduceStats(nil, dec(50))
	if !stats.Max.Equal(dec(50)) || !stats.Min.Equal(dec(50)) {
		t.Fatalf("empty series stats = %+v, want 50/50", stats)
	}
}

func TestReduceStatsIncludesToday(t *testing.T) {
	series := []DatedPricePoint{{Price: dec(100)}, {Price: dec(120)}}
	stats := ReduceStats(series, dec(130))
	if !stats.Max.Equal(dec(130)) {
		t.Fatalf("today should extend the max, got %s", stats.Max)
	}
}

func TestReduceStatsSkipsNonPositive(t *testing.T) {
	series := []DatedPricePoint{{Price: decimal.Zero}, {Price: dec(-5)}, {Price: dec(80)}}
	stats := ReduceStats(series, decimal.Zero)
	if !stats.Max.Equal(dec(80)) || !stats.Min.Equal(dec(80)) {
		t.Fatalf("stats = %+v, want 80/80", stats)
	}

	stats = ReduceStats([]DatedPricePoint{{Price: decimal.Zero}}, decimal.Zero)
	if !stats.Max.IsZero() || !stats.Min.IsZero() {
		t.Fatalf("all-zero input should fall back to today, got %+v", stats)
	}
}

func TestTrailingWindow(t *testing.T) {
	points := []DatedPricePoint{
		{Date: "2026-01-03", Price: dec(3)},
		{Date: "2026-01-01", Price: dec(1)},
		{Date: "2026-01-02", Price: dec(2)},
		{Date: "2026-01-03", Price: dec(33)},
	}
	got := TrailingWindow(points, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Date != "2026-01-02" || got[1].Date != "2026-01-03" {
		t.Fatalf("window not ascending/trailing: %+v", got)
	}
	if !got[1].Price.Equal(dec(33)) {
		t.Fatalf("duplicate date should keep last value, got %s", got[1].Price)
	}
}

func TestParseHistory(t *testing.T) {
	rows := []RawQuoteRow{
		{"date": "2026-01-01", "price": "117,760"},
		{"date": "2026-01-02", "val": 118000},
		{"date": "2026-01-03", "22k": "118400"},
		{"price": 5},
		{"date": "2026-01-04"},
	}
	points := ParseHistory(rows)
	if len(points) != 4 {
		t.Fatalf("len = %d, want 4", len(points))
	}
	if !points[0].Price.Equal(dec(117760)) || !points[1].Price.Equal(dec(118000)) || !points[2].Price.Equal(dec(118400)) {
		t.Fatalf("unexpected prices: %+v", points)
	}
	if !points[3].Price.IsZero() {
		t.Fatalf("missing price should be zero, got %s", points[3].Price)
	}
}
