// README: Worker records and the instance abstraction the supervisor runs.
package dispatch

import (
	"context"
	"net/http"
	"time"
)

// Instance is one runnable worker: a full pricing stack bound to its own
// address. Start returns once the instance is listening (or failed).
type Instance interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// Factory builds a fresh worker instance for an address. Called at startup
// and again on every restart.
type Factory func(id int, addr string) Instance

// Record is the dispatcher's view of one worker. Owned exclusively by the
// supervisor; health fields change only under the supervisor's lock.
type Record struct {
	ID   int
	Addr string

	instance  Instance
	client    *http.Client // persistent connection to this worker
	healthy   bool
	failures  int // consecutive failed probes
	lastCheck time.Time
}

// newWorkerClient gives each worker its own keep-alive connection, mirroring
// the per-slot clients of the upstream pool.
func newWorkerClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
