package market

import (
	"context"
	"errors"
	"fmt"

	"goldrates/internal/fetcher"
	"goldrates/internal/pricing"
	"goldrates/internal/scraper"
)

// Source is one independent ticker provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]pricing.PriceQuote, error)
}

var errEmpty = errors.New("source returned no data")

// GoldQuoter supplies the internal gold quote.
type GoldQuoter interface {
	GetTodayPrice(ctx context.Context, region string) (pricing.MultiKaratQuote, bool)
}

// GoldSource turns the internal multi-karat quote into per-gram ticker entries.
type GoldSource struct {
	Quoter   GoldQuoter
	Region   string
	Purities []pricing.Purity
}

// NewGoldSource builds a gold source for region quoting 22K and 24K.
func NewGoldSource(q GoldQuoter, region string) *GoldSource {
	return &GoldSource{Quoter: q, Region: region, Purities: []pricing.Purity{pricing.Purity22K, pricing.Purity24K}}
}

func (s *GoldSource) Name() string { return "gold" }

// Fetch implements Source. Direction keeps the gold provider's three-valued
// classification.
func (s *GoldSource) Fetch(ctx context.Context) ([]pricing.PriceQuote, error) {
	quote, ok := s.Quoter.GetTodayPrice(ctx, s.Region)
	if !ok {
		return nil, errEmpty
	}

	out := make([]pricing.PriceQuote, 0, len(s.Purities))
	for _, p := range s.Purities {
		pq, ok := quote.Purity(p)
		if !ok || pq.Today.Sign() <= 0 {
			continue
		}
		pq = pricing.PerGramQuote(pq)
		out = append(out, pricing.PriceQuote{
			Symbol:        fmt.Sprintf("GOLD %s (1g)", p),
			Price:         pq.Today.InexactFloat64(),
			Change:        pq.SignedChange().InexactFloat64(),
			PercentChange: pq.PercentChange().Round(2).InexactFloat64(),
			Direction:     pq.Direction,
			Category:      pricing.CategoryGold,
		})
	}
	return out, nil
}

// QuoteSource fetches the configured ticker list in one batch.
type QuoteSource struct {
	Quoter  fetcher.SymbolQuoter
	Symbols []string
}

func (s *QuoteSource) Name() string { return "quotes" }

// Fetch implements Source. Results follow the configured symbol order.
func (s *QuoteSource) Fetch(ctx context.Context) ([]pricing.PriceQuote, error) {
	if len(s.Symbols) == 0 {
		return nil, nil
	}
	quotes, err := s.Quoter.FetchQuotes(ctx, s.Symbols)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]fetcher.SymbolQuote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}

	out := make([]pricing.PriceQuote, 0, len(quotes))
	for _, sym := range s.Symbols {
		q, ok := bySymbol[sym]
		if !ok {
			continue
		}
		out = append(out, pricing.PriceQuote{
			Symbol:        DisplayName(sym),
			Price:         q.Price,
			Change:        q.Change,
			PercentChange: q.PercentChange,
			Direction:     DirectionFromChange(q.Change),
			Category:      CategoryOf(sym),
		})
	}
	return out, nil
}

// DirectionFromChange is the two-valued classification used for external
// quotes: a non-negative change is up.
func DirectionFromChange(change float64) pricing.Direction {
	if change >= 0 {
		return pricing.DirectionUp
	}
	return pricing.DirectionDown
}

// FuelScraper resolves a single fuel price.
type FuelScraper interface {
	ScrapeSinglePrice(ctx context.Context, kind scraper.Kind, city string) (pricing.PriceQuote, bool)
}

// FuelSource scrapes one fuel kind for one city.
type FuelSource struct {
	Scraper FuelScraper
	Kind    scraper.Kind
	City    string
}

func (s *FuelSource) Name() string { return fmt.Sprintf("fuel_%s_%s", s.Kind, s.City) }

// Fetch implements Source.
func (s *FuelSource) Fetch(ctx context.Context) ([]pricing.PriceQuote, error) {
	q, ok := s.Scraper.ScrapeSinglePrice(ctx, s.Kind, s.City)
	if !ok {
		return nil, errEmpty
	}
	return []pricing.PriceQuote{q}, nil
}

var (
	_ Source = (*GoldSource)(nil)
	_ Source = (*QuoteSource)(nil)
	_ Source = (*FuelSource)(nil)
)
