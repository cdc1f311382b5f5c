// README: Entry point; loads config and runs either a single worker or
// the dispatcher with its supervised worker fleet.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"dopc/internal/config"
	"dopc/internal/dispatch"
	httptransport "dopc/internal/http"
	"dopc/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.New("dopc", cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Balancer.Enabled {
		err = runBalancer(ctx, cfg, logger)
	} else {
		err = runSingle(ctx, cfg, logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("service failed")
	}
}

// runSingle serves the pricing stack directly on the main address.
func runSingle(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	worker := newWorkerFactory(cfg, logger)(0, fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port))
	if err := worker.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return worker.Shutdown(shutdownCtx)
}

// runBalancer starts the worker fleet, the health loop, and the
// dispatcher front.
func runBalancer(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	supervisor := dispatch.NewSupervisor(dispatch.SupervisorConfig{
		Host:             cfg.HTTP.Host,
		BasePort:         cfg.Balancer.WorkerBasePort,
		NumWorkers:       cfg.Balancer.NumWorkers,
		Interval:         time.Duration(cfg.Balancer.HealthCheckSeconds) * time.Second,
		ProbeTimeout:     5 * time.Second,
		FailureThreshold: cfg.Balancer.FailureThreshold,
		StartupTimeout:   15 * time.Second,
	}, newWorkerFactory(cfg, logger), logger.With().Str("component", "supervisor").Logger())

	if err := supervisor.Start(ctx); err != nil {
		return err
	}
	go supervisor.HealthLoop(ctx)

	balancer := dispatch.NewBalancer(supervisor, httptransport.PriceEndpoint,
		logger.With().Str("component", "balancer").Logger())
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: balancer.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Int("workers", cfg.Balancer.NumWorkers).
			Int("worker_base_port", cfg.Balancer.WorkerBasePort).
			Msg("dispatcher listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	supervisor.Shutdown(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
