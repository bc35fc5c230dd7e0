// Package service exposes the price domain to the HTTP and CLI layers:
// today's quote, the history window, the market ticker and the move watcher.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"

	"goldrates/internal/cache"
	"goldrates/internal/fetcher"
	"goldrates/internal/pricing"
)

// History units.
const (
	UnitGram  = "gram"
	UnitPavan = "pavan"
)

// Options configure Prices.
type Options struct {
	DefaultRegion string
	HistoryUnit   string
	TodayTTL      time.Duration
	HistoryTTL    time.Duration
	TickerTTL     time.Duration
}

// Ticker produces the merged market ticker.
type Ticker interface {
	Aggregate(ctx context.Context) []pricing.PriceQuote
}

// Prices serves normalized gold quotes, history windows and the ticker,
// revalidating each through the cache on its own window.
type Prices struct {
	store  fetcher.GoldQuoteStore
	ticker Ticker
	cache  cache.Cache
	opts   Options
	logger zerolog.Logger
}

// NewPrices constructs the price service. c may be nil to disable caching.
func NewPrices(store fetcher.GoldQuoteStore, c cache.Cache, opts Options, logger zerolog.Logger) *Prices {
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = "kerala"
	}
	if opts.HistoryUnit == "" {
		opts.HistoryUnit = UnitPavan
	}
	return &Prices{
		store:  store,
		cache:  c,
		opts:   opts,
		logger: logger.With().Str("component", "prices").Logger(),
	}
}

// SetTicker attaches the market ticker. The ticker's gold source usually
// reads back through this service, so it is wired after construction.
func (p *Prices) SetTicker(t Ticker) {
	p.ticker = t
}

// Region normalizes a caller-supplied region, applying the default.
func (p *Prices) Region(region string) string {
	if r := strings.ToLower(strings.TrimSpace(region)); r != "" {
		return r
	}
	return p.opts.DefaultRegion
}

// GetTodayPrice returns the newest normalized quote for region. ok is false
// when the backend has no row or cannot be reached.
func (p *Prices) GetTodayPrice(ctx context.Context, region string) (pricing.MultiKaratQuote, bool) {
	region = p.Region(region)
	return cache.Revalidate(ctx, p.cache, p.logger, "today", "today:"+region, p.opts.TodayTTL,
		func(ctx context.Context) (pricing.MultiKaratQuote, bool) {
			return p.loadToday(ctx, region)
		})
}

func (p *Prices) loadToday(ctx context.Context, region string) (pricing.MultiKaratQuote, bool) {
	if p.store == nil {
		return pricing.MultiKaratQuote{}, false
	}
	row, err := p.store.LatestRow(ctx, region)
	switch {
	case errors.Is(err, fetcher.ErrNoData):
		p.logger.Info().Str("region", region).Msg("no quote row for region")
		return pricing.MultiKaratQuote{}, false
	case err != nil:
		p.logger.Warn().Err(err).Str("region", region).Msg("fetch today quote failed")
		return pricing.MultiKaratQuote{}, false
	}
	return pricing.Normalize(row, region), true
}

// GetHistory returns the trailing history window for region in ascending
// date order. Failures yield an empty slice.
func (p *Prices) GetHistory(ctx context.Context, region string) []pricing.DatedPricePoint {
	region = p.Region(region)
	points, ok := cache.Revalidate(ctx, p.cache, p.logger, "history", "history:"+region, p.opts.HistoryTTL,
		func(ctx context.Context) ([]pricing.DatedPricePoint, bool) {
			return p.loadHistory(ctx, region)
		})
	if !ok {
		return []pricing.DatedPricePoint{}
	}
	return points
}

func (p *Prices) loadHistory(ctx context.Context, region string) ([]pricing.DatedPricePoint, bool) {
	if p.store == nil {
		return nil, false
	}
	rows, err := p.store.HistoryRows(ctx, region, pricing.HistoryWindow)
	if err != nil {
		p.logger.Warn().Err(err).Str("region", region).Msg("fetch history failed")
		return nil, false
	}
	points := pricing.TrailingWindow(pricing.ParseHistory(rows), pricing.HistoryWindow)
	return points, len(points) > 0
}

// GetMarketTicker returns the merged market ticker, possibly empty.
func (p *Prices) GetMarketTicker(ctx context.Context) []pricing.PriceQuote {
	if p.ticker == nil {
		return []pricing.PriceQuote{}
	}
	quotes, ok := cache.Revalidate(ctx, p.cache, p.logger, "ticker", "ticker", p.opts.TickerTTL,
		func(ctx context.Context) ([]pricing.PriceQuote, bool) {
			q := p.ticker.Aggregate(ctx)
			return q, len(q) > 0
		})
	if !ok {
		return []pricing.PriceQuote{}
	}
	return quotes
}

// Overview is everything the home page shows for one region.
type Overview struct {
	Region    string                    `json:"region"`
	Today     *pricing.MultiKaratQuote  `json:"today"`
	RateCards []pricing.RateCard        `json:"rateCards"`
	History   []pricing.DatedPricePoint `json:"history"`
	Stats     pricing.Stats             `json:"stats"`
	Unit      string                    `json:"unit"`
}

// GetOverview fetches today's quote and the history window concurrently and
// derives rate cards and window extremes. Stats compare the history series
// against today's 22K price expressed in the history unit.
func (p *Prices) GetOverview(ctx context.Context, region string) Overview {
	region = p.Region(region)

	var (
		quote   pricing.MultiKaratQuote
		present bool
		history []pricing.DatedPricePoint
		wg      conc.WaitGroup
	)
	wg.Go(func() { quote, present = p.GetTodayPrice(ctx, region) })
	wg.Go(func() { history = p.GetHistory(ctx, region) })
	wg.Wait()

	ov := Overview{
		Region:    region,
		RateCards: []pricing.RateCard{},
		History:   history,
		Unit:      p.opts.HistoryUnit,
	}
	if present {
		ov.Today = &quote
		ov.RateCards = pricing.RateCards(quote)
	}
	ov.Stats = pricing.ReduceStats(history, p.referencePrice(quote, present))
	return ov
}

func (p *Prices) referencePrice(q pricing.MultiKaratQuote, present bool) decimal.Decimal {
	if !present {
		return decimal.Zero
	}
	pq, ok := q.Purity(pricing.Purity22K)
	if !ok {
		return decimal.Zero
	}
	gram := pricing.PerGram(pq.Today)
	if p.opts.HistoryUnit == UnitGram {
		return gram
	}
	return pricing.Pavan(gram)
}
