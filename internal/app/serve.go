package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"goldrates/internal/httpapi"
	"goldrates/internal/service"
)

// Serve runs the HTTP API until SIGINT or SIGTERM.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := a.build(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	if a.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := a.Config
	var posts service.PostSource
	if rt.posts != nil {
		posts = rt.posts
	}
	router := httpapi.NewRouter(httpapi.Options{
		SiteURL:        cfg.App.SiteURL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
		TodayTTL:       cfg.Cache.TodayTTL,
		HistoryTTL:     cfg.Cache.HistoryTTL,
		TickerTTL:      cfg.Cache.TickerTTL,
		ContentTTL:     cfg.Cache.ContentTTL,
	}, rt.prices, posts, a.Logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error().Err(err).Msg("http server terminated with error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	a.Logger.Info().Msg("http server stopped")
	return nil
}
