// README: One worker instance; builds and owns a full pricing stack
// (pools, upstream client, orchestrator, HTTP server) on one address.
package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"dopc/internal/config"
	"dopc/internal/dispatch"
	httptransport "dopc/internal/http"
	"dopc/internal/modules/quote"
	"dopc/internal/venueapi"
)

type workerInstance struct {
	addr   string
	cfg    config.Config
	logger zerolog.Logger

	srv     *http.Server
	static  *venueapi.Pool
	dynamic *venueapi.Pool
	cancel  context.CancelFunc
}

func newWorkerFactory(cfg config.Config, logger zerolog.Logger) dispatch.Factory {
	return func(id int, addr string) dispatch.Instance {
		return &workerInstance{
			addr:   addr,
			cfg:    cfg,
			logger: logger.With().Int("worker", id).Str("addr", addr).Logger(),
		}
	}
}

// buildStack wires the per-worker components: two connection pools, the
// venue client over them, the orchestrator, and the HTTP surface.
func buildStack(cfg config.Config, logger zerolog.Logger) (http.Handler, *venueapi.Pool, *venueapi.Pool) {
	interval := time.Duration(cfg.Upstream.HealthCheckSeconds) * time.Second
	timeout := time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second

	static := venueapi.NewPool(venueapi.CategoryStatic, cfg.Upstream.PoolSize,
		venueapi.EndpointURL(cfg.Upstream.BaseURL, cfg.Upstream.ProbeVenue, venueapi.CategoryStatic),
		interval, timeout, logger)
	dynamic := venueapi.NewPool(venueapi.CategoryDynamic, cfg.Upstream.PoolSize,
		venueapi.EndpointURL(cfg.Upstream.BaseURL, cfg.Upstream.ProbeVenue, venueapi.CategoryDynamic),
		interval, timeout, logger)

	client := venueapi.NewClient(cfg.Upstream.BaseURL, static, dynamic, timeout)
	server := httptransport.NewServer(httptransport.ServerDeps{
		Quote:       quote.NewService(client, logger),
		Logger:      logger,
		MaxInFlight: cfg.Gate.MaxInFlight,
	})
	return server.Routes(), static, dynamic
}

func (w *workerInstance) Start() error {
	handler, static, dynamic := buildStack(w.cfg, w.logger)

	ln, err := net.Listen("tcp", w.addr)
	if err != nil {
		static.Close()
		dynamic.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.static = static
	w.dynamic = dynamic
	go static.Monitor(ctx)
	go dynamic.Monitor(ctx)

	w.srv = &http.Server{Handler: handler}
	go func() {
		if err := w.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			w.logger.Error().Err(err).Msg("worker server stopped")
		}
	}()

	w.logger.Info().
		Str("base_api_url", w.cfg.Upstream.BaseURL).
		Int("pool_size", w.cfg.Upstream.PoolSize).
		Int("health_check_seconds", w.cfg.Upstream.HealthCheckSeconds).
		Int64("max_in_flight", w.cfg.Gate.MaxInFlight).
		Msg("worker listening")
	return nil
}

func (w *workerInstance) Shutdown(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.static != nil {
		w.static.Close()
	}
	if w.dynamic != nil {
		w.dynamic.Close()
	}
	if w.srv == nil {
		return nil
	}
	return w.srv.Shutdown(ctx)
}
