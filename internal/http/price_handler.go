// README: Price endpoint handler; maps pipeline errors to status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dopc/internal/modules/pricing"
	"dopc/internal/modules/quote"
	"dopc/internal/venueapi"
)

func (s *Server) HandlePrice(c *gin.Context) {
	params := quote.Params{
		VenueSlug: c.Query("venue_slug"),
		CartValue: c.Query("cart_value"),
		UserLat:   c.Query("user_lat"),
		UserLon:   c.Query("user_lon"),
	}

	result, err := s.quote.Price(c.Request.Context(), params)
	if err != nil {
		s.writePriceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// writePriceError keeps the body shape uniform and lets the status carry
// the error category: 4xx for validation/business, 502/504 for upstream,
// 500 for invariant violations.
func (s *Server) writePriceError(c *gin.Context, err error) {
	var verr *quote.ValidationError
	var statusErr *venueapi.StatusError

	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, "Validation error: "+verr.Error())
	case errors.Is(err, pricing.ErrDistanceExceeded):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &statusErr):
		writeError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, venueapi.ErrTimeout):
		writeError(c, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, venueapi.ErrData), errors.Is(err, venueapi.ErrUnreachable):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error while pricing order")
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
