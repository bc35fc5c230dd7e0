package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"goldrates/internal/pricing"
	"goldrates/internal/service"
)

// SimulateAlert pushes a synthetic 22K move through the alert path.
func (a *App) SimulateAlert(ctx context.Context, today, yesterday decimal.Decimal) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is not enabled")
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no alert channel configured")
	}

	region := a.Config.App.DefaultRegion
	now := time.Now().UTC()
	quotes := staticQuoter{quote: syntheticQuote(region, now.Format(historyDateLayout), today, yesterday)}

	watcher := service.NewWatcher(quotes, notifier, service.WatcherOptions{
		Regions:      []string{region},
		ThresholdPct: a.Config.Alerting.ThresholdPct,
	}, a.Logger)
	return watcher.ProcessTick(ctx, now)
}

func syntheticQuote(region, date string, today, yesterday decimal.Decimal) pricing.MultiKaratQuote {
	return pricing.MultiKaratQuote{
		Date:     date,
		City:     region,
		Currency: pricing.DefaultCurrency,
		Purities: []pricing.PurityQuote{{
			Purity:    pricing.Purity22K,
			Today:     today,
			Yesterday: yesterday,
			Change:    pricing.ResolveChange(decimal.Zero, today, yesterday),
			Direction: pricing.CompareDirection(today, yesterday),
		}},
	}
}

type staticQuoter struct {
	quote pricing.MultiKaratQuote
}

func (s staticQuoter) GetTodayPrice(context.Context, string) (pricing.MultiKaratQuote, bool) {
	return s.quote, true
}

var _ service.TodayQuoter = staticQuoter{}
