// README: Pricing orchestrator; sequences validation, the two upstream
// lookups, distance and fee computation into a price breakdown.
package quote

import (
	"context"

	"github.com/rs/zerolog"

	"dopc/internal/modules/location"
	"dopc/internal/modules/pricing"
	"dopc/internal/types"
)

// VenueDataClient is the upstream lookup surface the orchestrator needs.
type VenueDataClient interface {
	FetchLocation(ctx context.Context, slug string) (types.Point, error)
	FetchPricing(ctx context.Context, slug string) (pricing.Schedule, error)
}

// Delivery is the fee/distance part of the breakdown.
type Delivery struct {
	Fee      int `json:"fee"`
	Distance int `json:"distance"`
}

// Result is the assembled price breakdown. All amounts are minor currency
// units; distance is metres.
type Result struct {
	TotalPrice          int      `json:"total_price"`
	SmallOrderSurcharge int      `json:"small_order_surcharge"`
	CartValue           int      `json:"cart_value"`
	Delivery            Delivery `json:"delivery"`
}

type Service struct {
	venues VenueDataClient
	logger zerolog.Logger
}

func NewService(venues VenueDataClient, logger zerolog.Logger) *Service {
	return &Service{venues: venues, logger: logger}
}

// Price runs the full pipeline for one request. Each stage fails fast; no
// partial results. The static lookup runs before the dynamic one, so a
// venue that cannot be located never costs a second upstream call.
func (s *Service) Price(ctx context.Context, raw Params) (Result, error) {
	req, err := ParseRequest(raw)
	if err != nil {
		return Result{}, err
	}

	venueLoc, err := s.venues.FetchLocation(ctx, req.VenueSlug)
	if err != nil {
		s.logger.Warn().Err(err).Str("venue", req.VenueSlug).Msg("static venue lookup failed")
		return Result{}, err
	}

	distance := location.DistanceMeters(types.Point{Lat: req.UserLat, Lon: req.UserLon}, venueLoc)

	schedule, err := s.venues.FetchPricing(ctx, req.VenueSlug)
	if err != nil {
		s.logger.Warn().Err(err).Str("venue", req.VenueSlug).Msg("dynamic venue lookup failed")
		return Result{}, err
	}

	q, err := pricing.Evaluate(distance, req.CartValue, schedule)
	if err != nil {
		return Result{}, err
	}

	s.logger.Debug().
		Str("venue", req.VenueSlug).
		Int("distance_m", distance).
		Int("total", q.Total).
		Msg("priced delivery order")

	return Result{
		TotalPrice:          q.Total,
		SmallOrderSurcharge: q.Surcharge,
		CartValue:           req.CartValue,
		Delivery:            Delivery{Fee: q.Fee, Distance: distance},
	}, nil
}
