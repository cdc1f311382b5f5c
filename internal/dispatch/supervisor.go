// README: Worker supervisor; starts N independent instances, probes their
// liveness, restarts failures, and exposes the healthy routing set.
package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"dopc/internal/metrics"
)

// ErrNoHealthyWorkers means every worker is out of the routing set.
var ErrNoHealthyWorkers = errors.New("no healthy workers available")

type SupervisorConfig struct {
	Host             string
	BasePort         int
	NumWorkers       int
	Interval         time.Duration // health-check period
	ProbeTimeout     time.Duration
	FailureThreshold int // consecutive failed probes before removal + restart
	StartupTimeout   time.Duration
}

// Supervisor owns the worker table. Routing reads a consistent snapshot of
// the healthy set; the health loop is the only writer of health state.
type Supervisor struct {
	cfg     SupervisorConfig
	factory Factory
	logger  zerolog.Logger

	cursor atomic.Uint64

	mu      sync.RWMutex
	records []*Record
}

func NewSupervisor(cfg SupervisorConfig, factory Factory, logger zerolog.Logger) *Supervisor {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = 10 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	return &Supervisor{cfg: cfg, factory: factory, logger: logger}
}

// Start spawns every worker and waits for each to answer its health probe
// before admitting it to the routing set. A worker that never comes up is
// logged and left unhealthy; the supervisor keeps going with the rest.
func (s *Supervisor) Start(ctx context.Context) error {
	records := make([]*Record, 0, s.cfg.NumWorkers)

	for i := 0; i < s.cfg.NumWorkers; i++ {
		addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.BasePort+i)
		rec := &Record{
			ID:       i,
			Addr:     addr,
			instance: s.factory(i, addr),
			client:   newWorkerClient(s.cfg.ProbeTimeout),
		}
		records = append(records, rec)

		if err := rec.instance.Start(); err != nil {
			s.logger.Error().Err(err).Str("worker", addr).Msg("worker failed to start")
			continue
		}
		if s.awaitReachable(ctx, rec) {
			rec.healthy = true
			s.logger.Info().Str("worker", addr).Msg("worker admitted")
		} else {
			s.logger.Error().Str("worker", addr).Msg("worker never became reachable")
		}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	if len(s.Healthy()) == 0 {
		return errors.Wrap(ErrNoHealthyWorkers, "supervisor startup")
	}
	metrics.HealthyWorkers.Set(float64(len(s.Healthy())))
	return nil
}

func (s *Supervisor) awaitReachable(ctx context.Context, rec *Record) bool {
	deadline := time.Now().Add(s.cfg.StartupTimeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}
		if s.probe(ctx, rec) {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// HealthLoop probes every worker on the configured period until ctx is
// cancelled. FailureThreshold consecutive failures evict and restart a
// worker; the first passing probe afterwards re-admits it.
func (s *Supervisor) HealthLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("worker health loop stopped")
			return
		case <-ticker.C:
			s.CheckAll(ctx)
		}
	}
}

// CheckAll runs one probe round. Exported so startup code and tests can
// drive rounds without waiting on the ticker.
func (s *Supervisor) CheckAll(ctx context.Context) {
	s.mu.RLock()
	records := make([]*Record, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	for _, rec := range records {
		s.checkWorker(ctx, rec)
	}
	metrics.HealthyWorkers.Set(float64(len(s.Healthy())))
}

func (s *Supervisor) checkWorker(ctx context.Context, rec *Record) {
	ok := s.probe(ctx, rec)

	s.mu.Lock()
	rec.lastCheck = time.Now()
	if ok {
		if !rec.healthy {
			s.logger.Info().Str("worker", rec.Addr).Msg("worker re-admitted")
		}
		rec.healthy = true
		rec.failures = 0
		s.mu.Unlock()
		return
	}

	rec.failures++
	evict := rec.failures >= s.cfg.FailureThreshold && rec.healthy
	restart := rec.failures%s.cfg.FailureThreshold == 0
	if evict {
		rec.healthy = false
	}
	s.mu.Unlock()

	s.logger.Warn().Str("worker", rec.Addr).Int("failures", rec.failures).Msg("worker probe failed")
	if restart {
		s.restart(ctx, rec)
	}
}

// restart tears the instance down and brings up a fresh one on the same
// address. Any failure here is logged, never fatal: the dispatcher keeps
// serving through the remaining workers.
func (s *Supervisor) restart(ctx context.Context, rec *Record) {
	s.logger.Warn().Str("worker", rec.Addr).Msg("restarting worker")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rec.instance.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Str("worker", rec.Addr).Msg("worker shutdown failed")
	}

	next := s.factory(rec.ID, rec.Addr)
	if err := next.Start(); err != nil {
		s.logger.Error().Err(err).Str("worker", rec.Addr).Msg("worker restart failed")
		return
	}

	s.mu.Lock()
	rec.instance = next
	s.mu.Unlock()
	metrics.WorkerRestarts.Inc()
}

func (s *Supervisor) probe(ctx context.Context, rec *Record) bool {
	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, "http://"+rec.Addr+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := rec.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Healthy returns a consistent snapshot of the records eligible for routing.
func (s *Supervisor) Healthy() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.healthy {
			out = append(out, rec)
		}
	}
	return out
}

// Next picks the target for one request, round-robin over the healthy set.
func (s *Supervisor) Next() (*Record, error) {
	healthy := s.Healthy()
	if len(healthy) == 0 {
		return nil, ErrNoHealthyWorkers
	}
	n := s.cursor.Add(1) - 1
	return healthy[n%uint64(len(healthy))], nil
}

// Shutdown stops every worker instance.
func (s *Supervisor) Shutdown(ctx context.Context) {
	s.mu.RLock()
	records := make([]*Record, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	for _, rec := range records {
		if err := rec.instance.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Str("worker", rec.Addr).Msg("worker shutdown failed")
		}
	}
}
