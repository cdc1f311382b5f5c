// README: Pricing schedule and quote definitions. All money is in minor
// currency units (cents, öre, yen); distances are metres.
package pricing

// DistanceRange maps a half-open interval of distances [Min, Max) to a fee
// formula. Max == 0 marks the open-ended cutoff range: no delivery is
// offered at or beyond its Min.
type DistanceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
	A   int `json:"a"`
	B   int `json:"b"`
}

// Schedule is the venue's delivery pricing, fetched per request from the
// upstream dynamic endpoint.
type Schedule struct {
	OrderMinimumNoSurcharge int
	BasePrice               int
	DistanceRanges          []DistanceRange
}

// Quote is the evaluated price breakdown for one order.
type Quote struct {
	Fee       int
	Surcharge int
	Total     int
}
