package quote

import (
	"errors"
	"testing"
)

func validParams() Params {
	return Params{
		VenueSlug: "home-assignment-venue-helsinki",
		CartValue: "2000",
		UserLat:   "60.17094",
		UserLon:   "24.93087",
	}
}

func TestParseRequest_Valid(t *testing.T) {
	req, err := ParseRequest(validParams())
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	want := Request{
		VenueSlug: "home-assignment-venue-helsinki",
		CartValue: 2000,
		UserLat:   60.17094,
		UserLon:   24.93087,
	}
	if req != want {
		t.Errorf("ParseRequest() = %+v, want %+v", req, want)
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Params)
		wantField string
	}{
		{name: "empty venue slug", mutate: func(p *Params) { p.VenueSlug = "" }, wantField: "venue_slug"},
		{name: "missing cart value", mutate: func(p *Params) { p.CartValue = "" }, wantField: "cart_value"},
		{name: "cart value not a number", mutate: func(p *Params) { p.CartValue = "abc" }, wantField: "cart_value"},
		{name: "cart value fractional", mutate: func(p *Params) { p.CartValue = "19.99" }, wantField: "cart_value"},
		{name: "cart value negative", mutate: func(p *Params) { p.CartValue = "-1" }, wantField: "cart_value"},
		{name: "missing latitude", mutate: func(p *Params) { p.UserLat = "" }, wantField: "user_lat"},
		{name: "latitude not a number", mutate: func(p *Params) { p.UserLat = "north" }, wantField: "user_lat"},
		{name: "latitude NaN", mutate: func(p *Params) { p.UserLat = "NaN" }, wantField: "user_lat"},
		{name: "latitude infinite", mutate: func(p *Params) { p.UserLat = "+Inf" }, wantField: "user_lat"},
		{name: "latitude above range", mutate: func(p *Params) { p.UserLat = "200" }, wantField: "user_lat"},
		{name: "latitude below range", mutate: func(p *Params) { p.UserLat = "-90.1" }, wantField: "user_lat"},
		{name: "missing longitude", mutate: func(p *Params) { p.UserLon = "" }, wantField: "user_lon"},
		{name: "longitude above range", mutate: func(p *Params) { p.UserLon = "180.5" }, wantField: "user_lon"},
		{name: "longitude below range", mutate: func(p *Params) { p.UserLon = "-200" }, wantField: "user_lon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			_, err := ParseRequest(p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ParseRequest() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestParseRequest_BoundaryCoordinatesAccepted(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lon  string
	}{
		{name: "north pole", lat: "90", lon: "0"},
		{name: "south pole", lat: "-90", lon: "0"},
		{name: "antimeridian east", lat: "0", lon: "180"},
		{name: "antimeridian west", lat: "0", lon: "-180"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			p.UserLat = tt.lat
			p.UserLon = tt.lon
			if _, err := ParseRequest(p); err != nil {
				t.Errorf("ParseRequest() error = %v, want nil", err)
			}
		})
	}
}
