// README: Wire shapes of the upstream venue-data endpoints.
package venueapi

import "dopc/internal/modules/pricing"

// Category names one upstream endpoint family; each has its own pool.
type Category string

const (
	CategoryStatic  Category = "static"
	CategoryDynamic Category = "dynamic"
)

// staticPayload is the subset of GET /venues/{slug}/static we consume.
// Coordinates arrive as [longitude, latitude].
type staticPayload struct {
	VenueRaw *struct {
		Location *struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"location"`
	} `json:"venue_raw"`
}

// dynamicPayload is the subset of GET /venues/{slug}/dynamic we consume.
// Pointer fields distinguish absent from zero.
type dynamicPayload struct {
	VenueRaw *struct {
		DeliverySpecs *struct {
			OrderMinimumNoSurcharge *int `json:"order_minimum_no_surcharge"`
			DeliveryPricing         *struct {
				BasePrice      *int                    `json:"base_price"`
				DistanceRanges []pricing.DistanceRange `json:"distance_ranges"`
			} `json:"delivery_pricing"`
		} `json:"delivery_specs"`
	} `json:"venue_raw"`
}
