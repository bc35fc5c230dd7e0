package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCoerce(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 16058.0, 16058},
		{"int", 42, 42},
		{"numeric string", "15196", 15196},
		{"grouped string", "1,23,456.5", 123456.5},
		{"currency string", "₹ 7,050", 7050},
		{"garbage", "n/a", 0},
		{"empty", "", 0},
		{"json number", json.Number("862"), 862},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"map", map[string]any{"x": 1}, 0},
		{"true", true, 0},
		{"false", false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Coerce(tc.in); got != tc.want {
				t.Fatalf("Coerce(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeFullRow(t *testing.T) {
	row := RawQuoteRow{
		"date":             "2026-01-31",
		"currency":         "₹",
		"24K_1g_today":     16058,
		"24K_1g_yesterday": 15196,
		"24K_1g_change":    862,
		"24K_1g_direction": "-",
		"22K_1g_today":     "14720",
		"22K_1g_yesterday": "13930",
		"22K_1g_change":    nil,
		"18K_1g_today":     "12040",
		"18K_1g_yesterday": "12040",
		"18K_1g_direction": "garbled",
	}

	q := Normalize(row, "kerala")
	if q.City != "kerala" || q.Date != "2026-01-31" || q.Currency != "₹" {
		t.Fatalf("unexpected header fields: %+v", q)
	}
	if len(q.Purities) != 3 || q.Purities[0].Purity != Purity24K || q.Purities[2].Purity != Purity18K {
		t.Fatalf("purities out of order: %+v", q.Purities)
	}

	p24, _ := q.Purity(Purity24K)
	if !p24.Change.Equal(dec(862)) {
		t.Fatalf("24K change should come from source, got %s", p24.Change)
	}
	if p24.Direction != DirectionUp {
		t.Fatalf("'-' token contradicting a rise should resolve up, got %s", p24.Direction)
	}

	p22, _ := q.Purity(Purity22K)
	if !p22.Change.Equal(dec(790)) {
		t.Fatalf("22K change should be derived, got %s", p22.Change)
	}
	if p22.Direction != DirectionUp {
		t.Fatalf("22K direction = %s", p22.Direction)
	}

	p18, _ := q.Purity(Purity18K)
	if p18.Direction != DirectionFlat || !p18.Change.IsZero() {
		t.Fatalf("18K should be flat with zero change: %+v", p18)
	}
}

func TestNormalizeMalformedRow(t *testing.T) {
	row := RawQuoteRow{
		"24K_1g_today":     "abc",
		"24K_1g_yesterday": map[string]any{},
		"22K_1g_today":     []int{1},
	}
	q := Normalize(row, "kochi")
	if q.Currency != DefaultCurrency {
		t.Fatalf("missing currency should default, got %q", q.Currency)
	}
	for _, pq := range q.Purities {
		if !pq.Today.IsZero() || !pq.Yesterday.IsZero() || !pq.Change.IsZero() {
			t.Fatalf("malformed fields should coerce to zero: %+v", pq)
		}
		if pq.Direction != DirectionFlat {
			t.Fatalf("zero prices should be flat, got %s", pq.Direction)
		}
	}
}

func TestResolveChangeUsesMagnitude(t *testing.T) {
	if got := ResolveChange(dec(-120), dec(100), dec(220)); !got.Equal(dec(120)) {
		t.Fatalf("negative source change should be made absolute, got %s", got)
	}
	if got := ResolveChange(decimal.Zero, dec(90), dec(100)); !got.Equal(dec(10)) {
		t.Fatalf("derived change = %s, want 10", got)
	}
}

func TestResolveDirection(t *testing.T) {
	cases := []struct {
		name             string
		token            string
		today, yesterday int64
		want             Direction
	}{
		{"numeric up", "", 100, 90, DirectionUp},
		{"numeric down", "", 90, 100, DirectionDown},
		{"numeric flat", "", 100, 100, DirectionFlat},
		{"token agrees", "+", 100, 90, DirectionUp},
		{"token contradicted", "+", 90, 100, DirectionDown},
		{"placeholder dash on flat day", "-", 100, 100, DirectionFlat},
		{"token without yesterday", "-", 100, 0, DirectionDown},
		{"token without prices", "up", 0, 0, DirectionUp},
		{"unknown token", "?", 90, 100, DirectionDown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveDirection(tc.token, dec(tc.today), dec(tc.yesterday))
			if got != tc.want {
				t.Fatalf("ResolveDirection(%q, %d, %d) = %s, want %s", tc.token, tc.today, tc.yesterday, got, tc.want)
			}
		})
	}
}

func TestPercentChangeSigned(t *testing.T) {
	pq := PurityQuote{Today: dec(90), Yesterday: dec(100), Change: dec(10), Direction: DirectionDown}
	if got := pq.PercentChange(); !got.Equal(dec(-10)) {
		t.Fatalf("percent change = %s, want -10", got)
	}
	if got := pq.SignedChange(); !got.Equal(dec(-10)) {
		t.Fatalf("signed change = %s, want -10", got)
	}
	if got := (PurityQuote{Change: dec(5)}).PercentChange(); !got.IsZero() {
		t.Fatalf("unknown yesterday should yield 0, got %s", got)
	}
}
