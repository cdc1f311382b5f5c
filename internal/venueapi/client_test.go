package venueapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const testSlug = "home-assignment-venue-helsinki"

func testPools(t *testing.T, baseURL string) (*Pool, *Pool) {
	t.Helper()
	logger := zerolog.Nop()
	static := NewPool(CategoryStatic, 2, EndpointURL(baseURL, testSlug, CategoryStatic), time.Hour, time.Second, logger)
	dynamic := NewPool(CategoryDynamic, 2, EndpointURL(baseURL, testSlug, CategoryDynamic), time.Hour, time.Second, logger)
	t.Cleanup(static.Close)
	t.Cleanup(dynamic.Close)
	return static, dynamic
}

func testClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	static, dynamic := testPools(t, baseURL)
	return NewClient(baseURL, static, dynamic, timeout)
}

func TestClient_FetchLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/venues/"+testSlug+"/static" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"venue_raw":{"location":{"coordinates":[24.92813512,60.17012143]}}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, time.Second)
	got, err := c.FetchLocation(context.Background(), testSlug)
	if err != nil {
		t.Fatalf("FetchLocation() error = %v", err)
	}
	if got.Lat != 60.17012143 || got.Lon != 24.92813512 {
		t.Errorf("FetchLocation() = %+v, want lat=60.17012143 lon=24.92813512", got)
	}
}

func TestClient_FetchPricing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"venue_raw":{"delivery_specs":{
			"order_minimum_no_surcharge":1000,
			"delivery_pricing":{"base_price":190,"distance_ranges":[
				{"min":500,"max":1000,"a":100,"b":0},
				{"min":0,"max":500,"a":0,"b":0},
				{"min":1000,"max":0,"a":0,"b":0}
			]}}}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, time.Second)
	got, err := c.FetchPricing(context.Background(), testSlug)
	if err != nil {
		t.Fatalf("FetchPricing() error = %v", err)
	}
	if got.OrderMinimumNoSurcharge != 1000 || got.BasePrice != 190 {
		t.Errorf("unexpected schedule head: %+v", got)
	}
	if len(got.DistanceRanges) != 3 {
		t.Fatalf("ranges = %d, want 3", len(got.DistanceRanges))
	}
	// Ranges come back normalized into ascending Min order.
	if got.DistanceRanges[0].Min != 0 || got.DistanceRanges[1].Min != 500 || got.DistanceRanges[2].Min != 1000 {
		t.Errorf("ranges not sorted by Min: %+v", got.DistanceRanges)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such venue", http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, time.Second)
	_, err := c.FetchLocation(context.Background(), "nowhere")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", statusErr.Code)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, 50*time.Millisecond)
	_, err := c.FetchLocation(context.Background(), testSlug)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := testClient(t, srv.URL, time.Second)
	_, err := c.FetchPricing(context.Background(), testSlug)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", err)
	}
}

func TestClient_DataErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		call string
	}{
		{name: "static not JSON", body: `{broken`, call: "static"},
		{name: "static missing venue_raw", body: `{}`, call: "static"},
		{name: "static missing location", body: `{"venue_raw":{}}`, call: "static"},
		{name: "static one coordinate", body: `{"venue_raw":{"location":{"coordinates":[24.9]}}}`, call: "static"},
		{name: "static coordinates out of range", body: `{"venue_raw":{"location":{"coordinates":[24.9,95.0]}}}`, call: "static"},
		{name: "dynamic not JSON", body: `[]`, call: "dynamic"},
		{name: "dynamic missing specs", body: `{"venue_raw":{}}`, call: "dynamic"},
		{
			name: "dynamic missing order minimum",
			body: `{"venue_raw":{"delivery_specs":{"delivery_pricing":{"base_price":190,"distance_ranges":[{"min":0,"max":500}]}}}}`,
			call: "dynamic",
		},
		{
			name: "dynamic missing base price",
			body: `{"venue_raw":{"delivery_specs":{"order_minimum_no_surcharge":1000,"delivery_pricing":{"distance_ranges":[{"min":0,"max":500}]}}}}`,
			call: "dynamic",
		},
		{
			name: "dynamic empty ranges",
			body: `{"venue_raw":{"delivery_specs":{"order_minimum_no_surcharge":1000,"delivery_pricing":{"base_price":190,"distance_ranges":[]}}}}`,
			call: "dynamic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := testClient(t, srv.URL, time.Second)
			var err error
			if tt.call == "static" {
				_, err = c.FetchLocation(context.Background(), testSlug)
			} else {
				_, err = c.FetchPricing(context.Background(), testSlug)
			}
			if !errors.Is(err, ErrData) {
				t.Errorf("error = %v, want ErrData", err)
			}
		})
	}
}
