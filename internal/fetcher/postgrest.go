package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"goldrates/internal/pricing"
)

const (
	todayView   = "gold_prices_api"
	historyView = "gold_prices_22k_graph"
)

// PostgRESTOptions parameterise the REST backend store.
type PostgRESTOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PostgREST reads gold quote views through a PostgREST (Supabase) endpoint.
type PostgREST struct {
	client *resty.Client
	logger zerolog.Logger
}

// NewPostgREST constructs a REST backend store.
func NewPostgREST(opts PostgRESTOptions, logger zerolog.Logger) *PostgREST {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger = logger.With().Str("component", "backend_rest").Logger()
	if opts.BaseURL == "" || opts.APIKey == "" {
		logger.Warn().Msg("backend base url or api key not configured")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")+"/rest/v1").
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"apikey":        opts.APIKey,
			"Authorization": "Bearer " + opts.APIKey,
			"Content-Type":  "application/json",
			"Accept":        "application/json",
		})

	return &PostgREST{client: client, logger: logger}
}

// LatestRow fetches the newest row of the today view for region.
func (p *PostgREST) LatestRow(ctx context.Context, region string) (pricing.RawQuoteRow, error) {
	rows, err := p.query(ctx, todayView, region, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows[0], nil
}

// HistoryRows fetches the newest limit rows of the history view.
func (p *PostgREST) HistoryRows(ctx context.Context, region string, limit int) ([]pricing.RawQuoteRow, error) {
	return p.query(ctx, historyView, region, limit)
}

func (p *PostgREST) query(ctx context.Context, view, region string, limit int) ([]pricing.RawQuoteRow, error) {
	var rows []pricing.RawQuoteRow
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"slug":  "eq." + region,
			"order": "date.desc",
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&rows).
		Get("/" + view)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", view, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("query %s: backend responded %d: %s", view, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	p.logger.Debug().Str("view", view).Str("region", region).Int("rows", len(rows)).Msg("backend query complete")
	return rows, nil
}

var _ GoldQuoteStore = (*PostgREST)(nil)
