package fetcher

import (
	"context"
	"errors"

	"goldrates/internal/pricing"
)

// ErrNoData reports an upstream that answered successfully with nothing.
var ErrNoData = errors.New("no data")

// GoldQuoteStore reads per-region gold quotes from the backend.
type GoldQuoteStore interface {
	// LatestRow returns the newest row for region by backend date ordering.
	LatestRow(ctx context.Context, region string) (pricing.RawQuoteRow, error)
	// HistoryRows returns up to limit of the newest history rows for region.
	HistoryRows(ctx context.Context, region string, limit int) ([]pricing.RawQuoteRow, error)
}

// SymbolQuote is a quote-by-symbol result.
type SymbolQuote struct {
	Symbol        string
	Price         float64
	Change        float64
	PercentChange float64
}

// SymbolQuoter retrieves current quotes for a batch of ticker symbols.
type SymbolQuoter interface {
	FetchQuotes(ctx context.Context, symbols []string) ([]SymbolQuote, error)
}
