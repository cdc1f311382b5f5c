// README: Inbound parameter validation; an ordered rule list evaluated
// before any upstream I/O.
package quote

import (
	"math"
	"strconv"
)

// Params carries the four raw wire values exactly as received.
type Params struct {
	VenueSlug string
	CartValue string
	UserLat   string
	UserLon   string
}

// Request is the validated, immutable order request.
type Request struct {
	VenueSlug string
	CartValue int
	UserLat   float64
	UserLon   float64
}

// ValidationError names the offending field and the violated constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// rule checks one field, filling its slot in the request on success and
// returning the violated constraint otherwise.
type rule struct {
	field string
	check func(raw Params, req *Request) string
}

var requestRules = []rule{
	{field: "venue_slug", check: func(raw Params, req *Request) string {
		if raw.VenueSlug == "" {
			return "must be a non-empty string"
		}
		req.VenueSlug = raw.VenueSlug
		return ""
	}},
	{field: "cart_value", check: func(raw Params, req *Request) string {
		if raw.CartValue == "" {
			return "is required"
		}
		n, err := strconv.Atoi(raw.CartValue)
		if err != nil {
			return "must be an integer"
		}
		if n < 0 {
			return "must be non-negative"
		}
		req.CartValue = n
		return ""
	}},
	{field: "user_lat", check: func(raw Params, req *Request) string {
		v, reason := parseCoordinate(raw.UserLat, 90)
		if reason != "" {
			return reason
		}
		req.UserLat = v
		return ""
	}},
	{field: "user_lon", check: func(raw Params, req *Request) string {
		v, reason := parseCoordinate(raw.UserLon, 180)
		if reason != "" {
			return reason
		}
		req.UserLon = v
		return ""
	}},
}

// ParseRequest runs the rule list in order and fails on the first
// violation. No side effects beyond error construction.
func ParseRequest(raw Params) (Request, error) {
	var req Request
	for _, r := range requestRules {
		if reason := r.check(raw, &req); reason != "" {
			return Request{}, &ValidationError{Field: r.field, Reason: reason}
		}
	}
	return req, nil
}

func parseCoordinate(raw string, bound float64) (float64, string) {
	if raw == "" {
		return 0, "is required"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "must be a finite number"
	}
	if v < -bound || v > bound {
		return 0, "must be between " + strconv.FormatFloat(-bound, 'f', -1, 64) +
			" and " + strconv.FormatFloat(bound, 'f', -1, 64)
	}
	return v, ""
}
