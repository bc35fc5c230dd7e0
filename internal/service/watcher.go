package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"goldrates/internal/alerting"
	"goldrates/internal/pricing"
	"goldrates/internal/scheduler"
)

// TodayQuoter yields today's quote for a region.
type TodayQuoter interface {
	GetTodayPrice(ctx context.Context, region string) (pricing.MultiKaratQuote, bool)
}

// WatcherOptions configure the move watcher.
type WatcherOptions struct {
	Regions      []string
	ThresholdPct float64
}

// Watcher raises a notification when a grade's day-over-day move reaches
// the threshold. Each (region, date, purity) is notified at most once.
type Watcher struct {
	quotes    TodayQuoter
	notifier  alerting.Notifier
	regions   []string
	threshold decimal.Decimal
	logger    zerolog.Logger

	mu   sync.Mutex
	sent map[string]struct{}
}

// NewWatcher constructs a watcher. notifier may be nil, in which case moves
// are only logged.
func NewWatcher(quotes TodayQuoter, notifier alerting.Notifier, opts WatcherOptions, logger zerolog.Logger) *Watcher {
	threshold := decimal.Zero
	if opts.ThresholdPct > 0 {
		threshold = decimal.NewFromFloat(opts.ThresholdPct)
	}
	return &Watcher{
		quotes:    quotes,
		notifier:  notifier,
		regions:   opts.Regions,
		threshold: threshold,
		logger:    logger.With().Str("component", "watcher").Logger(),
		sent:      make(map[string]struct{}),
	}
}

// Run drives ProcessTick from sched until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, sched *scheduler.Scheduler) error {
	if sched == nil {
		return errors.New("scheduler not configured")
	}
	return sched.Run(ctx, w.ProcessTick)
}

// ProcessTick checks every region once.
func (w *Watcher) ProcessTick(ctx context.Context, bucket time.Time) error {
	var errs []error
	for _, region := range w.regions {
		quote, ok := w.quotes.GetTodayPrice(ctx, region)
		if !ok {
			errs = append(errs, fmt.Errorf("no quote for region %s", region))
			continue
		}
		for _, pq := range quote.Purities {
			if err := w.evaluate(ctx, bucket, region, quote, pq); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (w *Watcher) evaluate(ctx context.Context, bucket time.Time, region string, quote pricing.MultiKaratQuote, pq pricing.PurityQuote) error {
	pct := pq.PercentChange()
	log := w.logger.With().Str("region", region).Str("date", quote.Date).Str("purity", string(pq.Purity)).Logger()
	log.Debug().Str("change_pct", pct.StringFixed(3)).Msg("move evaluated")

	if w.threshold.IsZero() || pct.Abs().LessThan(w.threshold) {
		return nil
	}

	key := region + "|" + quote.Date + "|" + string(pq.Purity)
	if w.alreadySent(key) {
		return nil
	}

	if w.notifier == nil {
		log.Info().Str("change_pct", pct.StringFixed(2)).Msg("move above threshold; no notifier configured")
		w.markSent(key)
		return nil
	}

	note := alerting.Notification{
		Region:        region,
		Date:          quote.Date,
		Purity:        pq.Purity,
		Currency:      quote.Currency,
		Today:         pq.Today,
		Yesterday:     pq.Yesterday,
		Change:        pq.SignedChange(),
		PercentChange: pct.Round(2),
		ThresholdPct:  w.threshold,
		Direction:     pq.Direction,
		DetectedAt:    bucket,
	}
	if err := w.notifier.Notify(ctx, note); err != nil {
		log.Error().Err(err).Msg("failed to dispatch alert")
		return fmt.Errorf("notify %s: %w", key, err)
	}
	w.markSent(key)
	return nil
}

func (w *Watcher) alreadySent(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.sent[key]
	return ok
}

func (w *Watcher) markSent(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent[key] = struct{}{}
}
