// README: Worker HTTP surface; registers the price endpoint, health and
// metrics routes, and the middleware chain.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"dopc/internal/http/middleware"
	"dopc/internal/modules/quote"
)

// PriceEndpoint is the single client-facing route.
const PriceEndpoint = "/api/v1/delivery-order-price"

type ServerDeps struct {
	Quote       *quote.Service
	Logger      zerolog.Logger
	MaxInFlight int64
}

type Server struct {
	quote  *quote.Service
	logger zerolog.Logger
	gate   gin.HandlerFunc
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		quote:  deps.Quote,
		logger: deps.Logger,
		gate:   middleware.Gate(deps.MaxInFlight),
	}
}

// Routes assembles the gin engine. Only GET is served on the price
// endpoint; other methods get the uniform 405 body.
func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(s.logger), middleware.RequestLog(s.logger))

	r.GET(PriceEndpoint, s.gate, s.HandlePrice)
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		r.Handle(m, PriceEndpoint, handleUnsupportedMethod)
	}

	r.GET("/health", func(c *gin.Context) {
		writeJSON(c, http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func handleUnsupportedMethod(c *gin.Context) {
	writeError(c, http.StatusMethodNotAllowed,
		"Method "+c.Request.Method+" not supported. Only GET requests are allowed.")
}
