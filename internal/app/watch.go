package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"goldrates/internal/scheduler"
	"goldrates/internal/service"
)

// Watch polls today's quote on the scheduler cadence and alerts on large
// day-over-day moves.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := a.build(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	sched, err := scheduler.New(scheduler.Options{
		Interval:       a.Config.Scheduler.Interval,
		AlignToStart:   a.Config.Scheduler.AlignToBucket,
		StartupDelay:   a.Config.Scheduler.StartupDelay,
		RunImmediately: true,
	}, a.Logger)
	if err != nil {
		return err
	}

	notifier := a.newNotifier()
	if notifier == nil {
		a.Logger.Warn().Msg("no alert channel configured; moves will only be logged")
	}

	regions := opts.Regions
	if len(regions) == 0 {
		regions = []string{a.Config.App.DefaultRegion}
	}
	for i, r := range regions {
		regions[i] = a.Config.ResolveRegion(r)
	}

	threshold := 0.0
	if a.Config.Alerting.Enabled {
		threshold = a.Config.Alerting.ThresholdPct
	} else {
		a.Logger.Warn().Msg("alerting disabled; watching without thresholds")
	}

	watcher := service.NewWatcher(rt.prices, notifier, service.WatcherOptions{
		Regions:      regions,
		ThresholdPct: threshold,
	}, a.Logger)

	a.Logger.Info().Strs("regions", regions).Dur("interval", a.Config.Scheduler.Interval).Msg("starting watcher")
	err = watcher.Run(ctx, sched)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watcher terminated with error")
		return err
	}

	a.Logger.Info().Msg("watcher stopped")
	return nil
}
