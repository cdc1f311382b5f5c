// README: Fixed-size pool of persistent upstream connections with a
// background health monitor. One pool per endpoint category.
package venueapi

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"dopc/internal/metrics"
)

// slot holds one persistent connection handle plus its health metadata.
// Slots belong to exactly one pool and are never shared.
type slot struct {
	client    *http.Client
	healthy   bool
	lastCheck time.Time
}

// Pool owns a fixed set of keep-alive HTTP clients for one endpoint
// category and rotates over them. Selection never blocks on health-check
// logic: an unhealthy slot is served opportunistically and only the
// background monitor replaces it.
type Pool struct {
	category Category
	probeURL string
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	cursor atomic.Uint64

	mu    sync.RWMutex
	slots []*slot
}

// NewPool establishes size persistent connections for the category.
// probeURL is the lightweight upstream GET used by the health monitor.
func NewPool(category Category, size int, probeURL string, interval, timeout time.Duration, logger zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		category: category,
		probeURL: probeURL,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("pool", string(category)).Logger(),
	}
	p.slots = make([]*slot, size)
	for i := range p.slots {
		p.slots[i] = &slot{client: newPersistentClient(), healthy: true, lastCheck: time.Now()}
	}
	return p
}

// newPersistentClient builds a client whose transport keeps connections
// alive across requests. Deadlines come from each request's context.
func newPersistentClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Size returns the fixed slot count.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.slots)
}

// Next picks the next slot's client round-robin. The cursor update is
// atomic, so size consecutive selections visit every slot exactly once
// even under concurrent callers.
func (p *Pool) Next() *http.Client {
	n := p.cursor.Add(1) - 1
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.slots[n%uint64(len(p.slots))].client
}

// Monitor probes every slot on a fixed period and replaces the connection
// behind any slot that fails its probe. Blocks until ctx is cancelled.
func (p *Pool) Monitor(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("pool health monitor stopped")
			return
		case <-ticker.C:
			p.checkAll(ctx)
		}
	}
}

func (p *Pool) checkAll(ctx context.Context) {
	for i := 0; i < p.Size(); i++ {
		p.checkSlot(ctx, i)
	}
}

// checkSlot probes one slot. Any response below 500 counts as healthy; on
// failure the old transport's connections are torn down and a fresh client
// takes the slot before it is marked healthy again.
func (p *Pool) checkSlot(ctx context.Context, i int) {
	p.mu.RLock()
	s := p.slots[i]
	client := s.client
	p.mu.RUnlock()

	healthy := p.probe(ctx, client)
	now := time.Now()

	if healthy {
		p.mu.Lock()
		s.healthy = true
		s.lastCheck = now
		p.mu.Unlock()
		return
	}

	p.logger.Warn().Int("slot", i).Msg("replacing unhealthy upstream connection")
	client.CloseIdleConnections()

	replacement := newPersistentClient()
	replacementHealthy := p.probe(ctx, replacement)

	p.mu.Lock()
	s.client = replacement
	s.healthy = replacementHealthy
	s.lastCheck = now
	p.mu.Unlock()

	metrics.PoolReplacements.WithLabelValues(string(p.category)).Inc()
}

func (p *Pool) probe(ctx context.Context, client *http.Client) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, p.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// Close tears down the idle connections held by every slot.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.slots {
		s.client.CloseIdleConnections()
	}
}
