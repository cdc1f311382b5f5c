// README: Round-robin HTTP front; proxies price requests to healthy
// workers verbatim.
package dispatch

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Balancer is the dispatcher's client-facing surface. It never alters
// pricing semantics: a worker's response, success or typed error, is
// passed back byte for byte.
type Balancer struct {
	supervisor *Supervisor
	endpoint   string
	logger     zerolog.Logger
}

func NewBalancer(supervisor *Supervisor, endpoint string, logger zerolog.Logger) *Balancer {
	return &Balancer{supervisor: supervisor, endpoint: endpoint, logger: logger}
}

// Routes assembles the dispatcher's gin engine: the proxied price
// endpoint plus its own health and metrics.
func (b *Balancer) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.GET(b.endpoint, b.Forward)
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		r.Handle(m, b.endpoint, func(c *gin.Context) {
			c.JSON(http.StatusMethodNotAllowed, gin.H{
				"success": false,
				"error":   "Method " + c.Request.Method + " not supported. Only GET requests are allowed.",
			})
		})
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "workers": len(b.supervisor.Healthy())})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// Forward routes one request to the next healthy worker over that
// worker's persistent connection.
func (b *Balancer) Forward(c *gin.Context) {
	rec, err := b.supervisor.Next()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}

	target := "http://" + rec.Addr + b.endpoint + "?" + c.Request.URL.RawQuery
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}

	resp, err := rec.client.Do(req)
	if err != nil {
		b.logger.Error().Err(err).Str("worker", rec.Addr).Msg("forward failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "worker unavailable"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.logger.Error().Err(err).Str("worker", rec.Addr).Msg("reading worker response failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "worker unavailable"})
		return
	}

	b.logger.Debug().Str("worker", rec.Addr).Int("status", resp.StatusCode).Msg("forwarded")
	c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), body)
}
