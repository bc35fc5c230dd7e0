package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"goldrates/internal/alerting"
	"goldrates/internal/cache"
	"goldrates/internal/config"
	"goldrates/internal/content"
	"goldrates/internal/fetcher"
	"goldrates/internal/market"
	"goldrates/internal/scraper"
	"goldrates/internal/service"
	"goldrates/internal/storage"
	"goldrates/internal/version"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// runtime is the wired object graph shared by the commands.
type runtime struct {
	prices  *service.Prices
	posts   *service.Posts
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// build wires store, cache, price service and ticker. useCache=false gives
// commands that must see fresh backend data an uncached service.
func (a *App) build(ctx context.Context, useCache bool) (*runtime, error) {
	rt := &runtime{}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, closeStore)

	var c cache.Cache
	if useCache {
		var closeCache func()
		c, closeCache, err = a.openCache(ctx)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, closeCache)
	}

	cfg := a.Config
	rt.prices = service.NewPrices(store, c, service.Options{
		DefaultRegion: cfg.App.DefaultRegion,
		HistoryUnit:   cfg.History.Unit,
		TodayTTL:      cfg.Cache.TodayTTL,
		HistoryTTL:    cfg.Cache.HistoryTTL,
		TickerTTL:     cfg.Cache.TickerTTL,
	}, a.Logger)

	agg, err := a.newAggregator(rt.prices)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.prices.SetTicker(agg)

	if cfg.Content.GraphQLURL != "" {
		client := content.New(content.Options{
			GraphQLURL: cfg.Content.GraphQLURL,
			Timeout:    cfg.Content.RequestTimeout,
		}, a.Logger)
		rt.posts = service.NewPosts(client, c, cfg.Cache.ContentTTL, a.Logger)
	}
	return rt, nil
}

func (a *App) openStore(ctx context.Context) (fetcher.GoldQuoteStore, func(), error) {
	switch a.Config.Backend.Driver {
	case "postgres":
		pool, err := storage.NewPool(ctx, a.Config.Database)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewStore(pool)
		return store, store.Close, nil
	default:
		store := fetcher.NewPostgREST(fetcher.PostgRESTOptions{
			BaseURL: a.Config.Backend.BaseURL,
			APIKey:  a.Config.Backend.APIKey,
			Timeout: a.Config.Backend.RequestTimeout,
		}, a.Logger)
		return store, func() {}, nil
	}
}

func (a *App) openCache(ctx context.Context) (cache.Cache, func(), error) {
	if a.Config.Cache.Driver == "redis" {
		rc, err := cache.NewRedis(ctx, a.Config.Cache.RedisURL, a.Config.Cache.KeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, func() {
			if err := rc.Close(); err != nil {
				a.Logger.Warn().Err(err).Msg("close redis cache")
			}
		}, nil
	}
	return cache.NewMemory(10 * time.Minute), func() {}, nil
}

func (a *App) newAggregator(prices *service.Prices) (*market.Aggregator, error) {
	cfg := a.Config

	userAgent := cfg.Quotes.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	quotes := fetcher.NewYahoo(fetcher.YahooOptions{
		BaseURL:   cfg.Quotes.BaseURL,
		Timeout:   cfg.Quotes.RequestTimeout,
		UserAgent: userAgent,
	}, a.Logger)

	sources := []market.Source{
		market.NewGoldSource(prices, cfg.App.DefaultRegion),
		&market.QuoteSource{Quoter: quotes, Symbols: cfg.Quotes.Symbols},
	}

	candidates, err := scraper.CandidatesFromConfig(cfg.Scraper.Candidates)
	if err != nil {
		return nil, err
	}
	chain := scraper.NewChain(candidates, scraper.Options{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.Scraper.RequestTimeout,
	}, a.Logger)
	for _, kind := range cfg.Scraper.Kinds {
		for _, city := range cfg.Scraper.Cities {
			sources = append(sources, &market.FuelSource{
				Scraper: chain,
				Kind:    scraper.Kind(strings.ToLower(kind)),
				City:    city,
			})
		}
	}

	return market.NewAggregator(a.Logger, sources...), nil
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, cfg.Timeout, a.Logger)
	}
	return nil
}

// ExportOptions hold parameters for exporting the history window.
type ExportOptions struct {
	Region  string
	PNGPath string
	CSVPath string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Region string
}

// WatchOptions configure the watch command.
type WatchOptions struct {
	Regions []string
}
