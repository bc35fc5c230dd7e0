package pricing

import "github.com/shopspring/decimal"

// Direction classifies a price move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Purity is a gold fineness grade.
type Purity string

const (
	Purity24K Purity = "24K"
	Purity22K Purity = "22K"
	Purity18K Purity = "18K"
)

// Purities lists every quoted grade in display order.
var Purities = []Purity{Purity24K, Purity22K, Purity18K}

// Category groups ticker quotes into display sections.
type Category string

const (
	CategoryGold      Category = "gold"
	CategoryIndex     Category = "index"
	CategoryCommodity Category = "commodity"
	CategoryCrypto    Category = "crypto"
	CategoryCurrency  Category = "currency"
	CategoryFuel      Category = "fuel"
)

// RawQuoteRow is an untyped backend row keyed by column name.
type RawQuoteRow map[string]any

// PriceQuote is a single ticker entry.
type PriceQuote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percentChange"`
	Direction     Direction `json:"direction"`
	Category      Category  `json:"category"`
}

// DatedPricePoint is one entry of a historical series.
type DatedPricePoint struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// PurityQuote holds today's and yesterday's price for one grade.
type PurityQuote struct {
	Purity    Purity          `json:"purity"`
	Today     decimal.Decimal `json:"today"`
	Yesterday decimal.Decimal `json:"yesterday"`
	Change    decimal.Decimal `json:"change"`
	Direction Direction       `json:"direction"`
}

// MultiKaratQuote is the normalized daily quote for a city.
type MultiKaratQuote struct {
	Date     string        `json:"date"`
	City     string        `json:"city"`
	Currency string        `json:"currency"`
	Purities []PurityQuote `json:"purities"`
}

// Purity returns the quote for grade p.
func (q MultiKaratQuote) Purity(p Purity) (PurityQuote, bool) {
	for _, pq := range q.Purities {
		if pq.Purity == p {
			return pq, true
		}
	}
	return PurityQuote{}, false
}

// PercentChange returns the signed move relative to yesterday, in percent.
// It is zero when yesterday is unknown.
func (pq PurityQuote) PercentChange() decimal.Decimal {
	if pq.Yesterday.Sign() <= 0 {
		return decimal.Zero
	}
	pct := pq.Change.Div(pq.Yesterday).Mul(decimal.NewFromInt(100))
	if pq.Direction == DirectionDown {
		return pct.Neg()
	}
	return pct
}

// SignedChange returns the change carrying the sign of the direction.
func (pq PurityQuote) SignedChange() decimal.Decimal {
	if pq.Direction == DirectionDown {
		return pq.Change.Abs().Neg()
	}
	return pq.Change.Abs()
}
