// README: Fee evaluator; maps distance + schedule + cart value to a quote.
package pricing

import (
	"errors"
	"math"
	"sort"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrDistanceExceeded means the venue does not deliver as far as the
	// user's location. Expected outcome, not a defect.
	ErrDistanceExceeded = errors.New("delivery distance exceeds the venue's service area")

	// ErrInvariant marks a computed value that violates a pricing
	// invariant (negative fee, implausible magnitude). Never clamped.
	ErrInvariant = errors.New("pricing invariant violation")
)

// Sanity caps carried over from the upstream schedule contract.
const (
	maxFee            = 1500000 // 15000 EUR
	maxDistanceMeters = 2000000 // 2000 km
)

// Evaluate computes the delivery quote for the given distance and cart
// value. The first range with Min <= distance < Max wins, scanning in
// ascending Min order; no match is a business error, not a schedule defect.
func Evaluate(distanceMeters, cartValue int, s Schedule) (Quote, error) {
	if distanceMeters < 0 || cartValue < 0 {
		return Quote{}, pkgerrors.Wrapf(ErrInvariant, "negative input: distance=%d cart=%d", distanceMeters, cartValue)
	}
	if distanceMeters > maxDistanceMeters {
		return Quote{}, pkgerrors.Wrapf(ErrDistanceExceeded, "distance %dm", distanceMeters)
	}

	r, ok := matchRange(s.DistanceRanges, distanceMeters)
	if !ok {
		return Quote{}, pkgerrors.Wrapf(ErrDistanceExceeded, "distance %dm", distanceMeters)
	}

	fee := s.BasePrice + r.A + int(math.Round(float64(r.B)*float64(distanceMeters)/10.0))
	if fee < 0 || fee > maxFee {
		return Quote{}, pkgerrors.Wrapf(ErrInvariant, "fee %d out of bounds", fee)
	}

	surcharge := s.OrderMinimumNoSurcharge - cartValue
	if surcharge < 0 {
		surcharge = 0
	}

	total := cartValue + fee + surcharge
	if total < 0 {
		return Quote{}, pkgerrors.Wrapf(ErrInvariant, "total %d is negative", total)
	}

	return Quote{Fee: fee, Surcharge: surcharge, Total: total}, nil
}

// matchRange scans ranges in ascending Min order and returns the first one
// covering the distance. The cutoff range (Max == 0) never matches; a
// distance at or past its Min is simply out of service area.
func matchRange(ranges []DistanceRange, distance int) (DistanceRange, bool) {
	sorted := make([]DistanceRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	for _, r := range sorted {
		if r.Max == 0 {
			continue
		}
		if distance >= r.Min && distance < r.Max {
			return r, true
		}
	}
	return DistanceRange{}, false
}
