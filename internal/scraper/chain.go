package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"goldrates/internal/pricing"
)

// Kind is a scraped commodity.
type Kind string

const (
	KindPetrol Kind = "petrol"
	KindDiesel Kind = "diesel"
)

// Candidate is one source in a fallback chain. URLTemplate may contain
// {kind} and {city} placeholders.
type Candidate struct {
	Name        string
	URLTemplate string
	Extractor   Extractor
}

// Options parameterise a Chain.
type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// Chain tries ordered candidates per kind until one yields a positive price.
type Chain struct {
	candidates map[Kind][]Candidate
	client     *resty.Client
	logger     zerolog.Logger
}

// NewChain builds a chain over the given candidates.
func NewChain(candidates map[Kind][]Candidate, opts Options, logger zerolog.Logger) *Chain {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-IN,en;q=0.9")
	// Sites behind anti-bot filters reject Go's default client identity.
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}

	return &Chain{
		candidates: candidates,
		client:     client,
		logger:     logger.With().Str("component", "scraper").Logger(),
	}
}

// ScrapeSinglePrice walks the candidates for kind in order and returns the
// first positive price found. ok is false when every candidate missed.
func (c *Chain) ScrapeSinglePrice(ctx context.Context, kind Kind, city string) (pricing.PriceQuote, bool) {
	for _, cand := range c.candidates[kind] {
		if ctx.Err() != nil {
			return pricing.PriceQuote{}, false
		}

		log := c.logger.With().Str("candidate", cand.Name).Str("kind", string(kind)).Str("city", city).Logger()

		price, err := c.try(ctx, cand, kind, city)
		if err != nil {
			log.Debug().Err(err).Msg("candidate missed")
			continue
		}

		log.Debug().Float64("price", price).Msg("candidate matched")
		return pricing.PriceQuote{
			Symbol:    FuelSymbol(kind, city),
			Price:     price,
			Direction: pricing.DirectionFlat,
			Category:  pricing.CategoryFuel,
		}, true
	}

	c.logger.Warn().Str("kind", string(kind)).Str("city", city).Msg("no candidate produced a price")
	return pricing.PriceQuote{}, false
}

func (c *Chain) try(ctx context.Context, cand Candidate, kind Kind, city string) (float64, error) {
	if cand.Extractor == nil {
		return 0, fmt.Errorf("candidate has no extractor")
	}

	resp, err := c.client.R().SetContext(ctx).Get(expand(cand.URLTemplate, kind, city))
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("fetch: status %d", resp.StatusCode())
	}

	raw, ok := cand.Extractor.Extract(resp.Body())
	if !ok {
		return 0, fmt.Errorf("pattern not found")
	}
	price := pricing.Coerce(raw)
	if price <= 0 {
		return 0, fmt.Errorf("extracted %q is not a positive price", raw)
	}
	return price, nil
}

func expand(tmpl string, kind Kind, city string) string {
	return strings.NewReplacer(
		"{kind}", url.PathEscape(string(kind)),
		"{city}", url.PathEscape(strings.ToLower(city)),
	).Replace(tmpl)
}

// FuelSymbol is the ticker label for a scraped fuel price.
func FuelSymbol(kind Kind, city string) string {
	return fmt.Sprintf("%s (%s)", strings.ToUpper(string(kind)), strings.ToUpper(city))
}
