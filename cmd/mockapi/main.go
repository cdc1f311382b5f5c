// README: Mock venue-data API for local runs; serves the Helsinki fixture
// on the static and dynamic endpoints and reports request stats on exit.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"dopc/internal/logging"
)

// Fixture for the home-assignment Helsinki venue: ~177m from the central
// Helsinki test coordinates, so the worked pricing example holds.
var (
	staticData = gin.H{
		"venue_raw": gin.H{
			"location": gin.H{
				"coordinates": []float64{24.92813512, 60.17012143},
			},
		},
	}
	dynamicData = gin.H{
		"venue_raw": gin.H{
			"delivery_specs": gin.H{
				"order_minimum_no_surcharge": 1000,
				"delivery_pricing": gin.H{
					"base_price": 190,
					"distance_ranges": []gin.H{
						{"min": 0, "max": 500, "a": 0, "b": 0},
						{"min": 500, "max": 1000, "a": 100, "b": 0},
						{"min": 1000, "max": 1500, "a": 200, "b": 0},
						{"min": 1500, "max": 2000, "a": 200, "b": 1},
						{"min": 2000, "max": 0, "a": 0, "b": 0},
					},
				},
			},
		},
	}
)

func main() {
	logger := logging.New("mockapi", os.Getenv("DOPC_LOG_PRETTY") == "true")
	addr := ":10000"
	if v := os.Getenv("MOCKAPI_ADDR"); v != "" {
		addr = v
	}

	var requests atomic.Int64
	start := time.Now()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/home-assignment-api/v1/venues/:venue_slug/static", func(c *gin.Context) {
		requests.Add(1)
		c.JSON(http.StatusOK, staticData)
	})
	r.GET("/home-assignment-api/v1/venues/:venue_slug/dynamic", func(c *gin.Context) {
		requests.Add(1)
		c.JSON(http.StatusOK, dynamicData)
	})

	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", addr).Msg("mock venue API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("mock API failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	elapsed := time.Since(start).Seconds()
	total := requests.Load()
	rps := 0.0
	if elapsed > 0 {
		rps = float64(total) / elapsed
	}
	logger.Info().
		Int64("requests", total).
		Float64("seconds", elapsed).
		Float64("rps", rps).
		Msg("mock API stats")
}
