package pricing

import "github.com/shopspring/decimal"

var (
	// PerGramThreshold is the magnitude above which a quote is assumed to
	// be for 10 grams. It is a heuristic; the backend does not tag units.
	PerGramThreshold = decimal.NewFromInt(20000)

	gramsPerPavan = decimal.NewFromInt(8)
	ten           = decimal.NewFromInt(10)
)

// PerGram converts a quoted price to a one-gram basis.
func PerGram(price decimal.Decimal) decimal.Decimal {
	if price.GreaterThan(PerGramThreshold) {
		return price.Div(ten)
	}
	return price
}

// Pavan returns the 8-gram price for a one-gram price.
func Pavan(perGram decimal.Decimal) decimal.Decimal {
	return perGram.Mul(gramsPerPavan)
}

// RateCard is the display denomination of one grade.
type RateCard struct {
	Purity  Purity          `json:"purity"`
	PerGram decimal.Decimal `json:"perGram"`
	Pavan   decimal.Decimal `json:"pavan"`
}

// RateCards derives per-gram and pavan prices for every grade in q.
func RateCards(q MultiKaratQuote) []RateCard {
	cards := make([]RateCard, 0, len(q.Purities))
	for _, pq := range q.Purities {
		gram := PerGram(pq.Today)
		cards = append(cards, RateCard{Purity: pq.Purity, PerGram: gram, Pavan: Pavan(gram)})
	}
	return cards
}

// PerGramQuote rescales a purity quote to a one-gram basis, detecting the
// unit from today's price.
func PerGramQuote(pq PurityQuote) PurityQuote {
	if !pq.Today.GreaterThan(PerGramThreshold) {
		return pq
	}
	pq.Today = pq.Today.Div(ten)
	pq.Yesterday = pq.Yesterday.Div(ten)
	pq.Change = pq.Change.Div(ten)
	return pq
}
