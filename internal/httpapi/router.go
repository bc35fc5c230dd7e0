// Package httpapi serves the price and content API over gin.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"goldrates/internal/config"
	"goldrates/internal/pricing"
	"goldrates/internal/service"
)

// Prices go over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceService is the price domain as seen by handlers.
type PriceService interface {
	Region(region string) string
	GetTodayPrice(ctx context.Context, region string) (pricing.MultiKaratQuote, bool)
	GetHistory(ctx context.Context, region string) []pricing.DatedPricePoint
	GetMarketTicker(ctx context.Context) []pricing.PriceQuote
	GetOverview(ctx context.Context, region string) service.Overview
}

// Options configure the router.
type Options struct {
	SiteURL        string
	AllowedOrigins []string
	RateLimit      config.RateLimitConfig
	TodayTTL       time.Duration
	HistoryTTL     time.Duration
	TickerTTL      time.Duration
	ContentTTL     time.Duration
}

// NewRouter wires middleware and routes. posts may be nil, in which case
// the content routes answer 503.
func NewRouter(opts Options, prices PriceService, posts service.PostSource, logger zerolog.Logger) *gin.Engine {
	logger = logger.With().Str("component", "http").Logger()

	r := gin.New()
	r.Use(recovery(logger), requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(opts.AllowedOrigins))
	}

	h := &handler{
		opts:   opts,
		prices: prices,
		posts:  posts,
		logger: logger,
		now:    time.Now,
	}

	r.GET("/healthz", h.health)
	r.HEAD("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := r.Group("/")
	if opts.RateLimit.Enabled {
		limited.Use(rateLimiter(opts.RateLimit, logger))
	}
	limited.GET("/sitemap.xml", h.sitemap)

	api := limited.Group("/api/v1")
	{
		gold := api.Group("/gold/:region")
		gold.GET("/today", h.today)
		gold.GET("/history", h.history)
		gold.GET("/overview", h.overview)

		api.GET("/market/ticker", h.ticker)

		api.GET("/posts", h.allPosts)
		api.GET("/posts/latest", h.latestPosts)
		api.GET("/posts/:slug", h.postBySlug)
	}

	return r
}
