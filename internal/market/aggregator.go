// Package market merges independent price providers into one ticker.
package market

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"goldrates/internal/metrics"
	"goldrates/internal/pricing"
)

// Aggregator fans out to its sources and merges their quotes in fixed
// section order. It holds no state between calls.
type Aggregator struct {
	sources []Source
	logger  zerolog.Logger
}

// NewAggregator builds an aggregator. Registration order breaks ties within
// a section.
func NewAggregator(logger zerolog.Logger, sources ...Source) *Aggregator {
	return &Aggregator{
		sources: sources,
		logger:  logger.With().Str("component", "market_aggregator").Logger(),
	}
}

// Aggregate queries every source once, concurrently. A failing source
// contributes nothing; Aggregate itself never fails.
func (a *Aggregator) Aggregate(ctx context.Context) []pricing.PriceQuote {
	results := make([][]pricing.PriceQuote, len(a.sources))

	var wg conc.WaitGroup
	for i, src := range a.sources {
		i, src := i, src
		wg.Go(func() {
			results[i] = a.run(ctx, src)
		})
	}
	wg.Wait()

	merged := make([]pricing.PriceQuote, 0)
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return sectionRank(merged[i].Category) < sectionRank(merged[j].Category)
	})
	return merged
}

func (a *Aggregator) run(ctx context.Context, src Source) []pricing.PriceQuote {
	start := time.Now()
	log := a.logger.With().Str("source", src.Name()).Logger()

	var (
		quotes []pricing.PriceQuote
		err    error
		pc     panics.Catcher
	)
	pc.Try(func() { quotes, err = src.Fetch(ctx) })
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, errEmpty):
		metrics.ObserveSource(src.Name(), metrics.OutcomeEmpty, elapsed)
		log.Warn().Dur("elapsed", elapsed).Msg("source returned no data")
		return nil
	case err != nil:
		metrics.ObserveSource(src.Name(), metrics.OutcomeError, elapsed)
		log.Warn().Err(err).Dur("elapsed", elapsed).Msg("source failed")
		return nil
	}

	metrics.ObserveSource(src.Name(), metrics.OutcomeOK, elapsed)
	log.Debug().Int("quotes", len(quotes)).Dur("elapsed", elapsed).Msg("source fetched")
	return quotes
}
