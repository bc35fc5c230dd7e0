package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
)

const yahooChartPath = "/v8/finance/chart/{symbol}"

// YahooOptions parameterise the Yahoo Finance quote fetcher.
type YahooOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Yahoo fetches quotes from the Yahoo Finance chart endpoint, one request
// per symbol.
type Yahoo struct {
	client *resty.Client
	logger zerolog.Logger
}

// NewYahoo constructs a quote fetcher.
func NewYahoo(opts YahooOptions, logger zerolog.Logger) *Yahoo {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}

	return &Yahoo{
		client: client,
		logger: logger.With().Str("component", "yahoo_fetcher").Logger(),
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuotes retrieves quotes for symbols concurrently. A symbol whose
// request fails or carries no price is left out; an error is returned only
// when no symbol could be fetched. Results keep the order of symbols.
func (y *Yahoo) FetchQuotes(ctx context.Context, symbols []string) ([]SymbolQuote, error) {
	if len(symbols) == 0 {
		return nil, errors.New("no symbols requested")
	}

	slots := make([]*SymbolQuote, len(symbols))
	errs := make([]error, len(symbols))
	var wg conc.WaitGroup
	for i, symbol := range symbols {
		i, symbol := i, symbol
		wg.Go(func() {
			q, err := y.fetchOne(ctx, symbol)
			if err != nil {
				errs[i] = err
				y.logger.Warn().Err(err).Str("symbol", symbol).Msg("yahoo quote skipped")
				return
			}
			slots[i] = &q
		})
	}
	wg.Wait()

	quotes := make([]SymbolQuote, 0, len(symbols))
	for _, q := range slots {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("yahoo quotes: %w", errors.Join(errs...))
	}

	y.logger.Debug().Int("requested", len(symbols)).Int("returned", len(quotes)).Msg("yahoo quotes fetched")
	return quotes, nil
}

func (y *Yahoo) fetchOne(ctx context.Context, symbol string) (SymbolQuote, error) {
	var payload yahooChartResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    "1d",
		}).
		SetResult(&payload).
		Get(yahooChartPath)
	if err != nil {
		return SymbolQuote{}, fmt.Errorf("yahoo chart request %s: %w", symbol, err)
	}
	if apiErr := payload.Chart.Error; apiErr != nil {
		return SymbolQuote{}, fmt.Errorf("yahoo chart error %s: %s: %s", symbol, apiErr.Code, apiErr.Description)
	}
	if !resp.IsSuccess() {
		return SymbolQuote{}, fmt.Errorf("yahoo chart error %s (%d)", symbol, resp.StatusCode())
	}
	if len(payload.Chart.Result) == 0 {
		return SymbolQuote{}, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	meta := payload.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return SymbolQuote{}, fmt.Errorf("yahoo chart %s: no market price", symbol)
	}
	prev := meta.ChartPreviousClose
	if prev <= 0 {
		prev = meta.PreviousClose
	}

	q := SymbolQuote{Symbol: symbol, Price: meta.RegularMarketPrice}
	if prev > 0 {
		q.Change = meta.RegularMarketPrice - prev
		q.PercentChange = q.Change / prev * 100
	}
	return q, nil
}

var _ SymbolQuoter = (*Yahoo)(nil)
