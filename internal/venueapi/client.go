// README: Client for the upstream venue-data service; one pooled GET per
// operation, transport and payload failures mapped to typed errors.
package venueapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"

	"dopc/internal/modules/pricing"
	"dopc/internal/types"
)

// Client fetches venue data through the category pools. Stateless from the
// caller's perspective; nothing is cached across requests.
type Client struct {
	baseURL string
	static  *Pool
	dynamic *Pool
	timeout time.Duration
}

func NewClient(baseURL string, static, dynamic *Pool, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, static: static, dynamic: dynamic, timeout: timeout}
}

// EndpointURL builds the upstream URL for one venue endpoint. Exposed so
// the pools can be constructed with a matching probe URL.
func EndpointURL(baseURL, slug string, category Category) string {
	return fmt.Sprintf("%s/venues/%s/%s", baseURL, url.PathEscape(slug), category)
}

// FetchLocation returns the venue's coordinates from the static endpoint.
func (c *Client) FetchLocation(ctx context.Context, slug string) (types.Point, error) {
	body, err := c.get(ctx, c.static, EndpointURL(c.baseURL, slug, CategoryStatic))
	if err != nil {
		return types.Point{}, pkgerrors.Wrap(err, "fetch static venue data")
	}

	var payload staticPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return types.Point{}, pkgerrors.Wrap(ErrData, "static payload is not valid JSON")
	}
	if payload.VenueRaw == nil || payload.VenueRaw.Location == nil {
		return types.Point{}, pkgerrors.Wrap(ErrData, "static payload missing venue location")
	}
	coords := payload.VenueRaw.Location.Coordinates
	if len(coords) != 2 {
		return types.Point{}, pkgerrors.Wrap(ErrData, "venue coordinates must be a [lon, lat] pair")
	}

	// Upstream order is [longitude, latitude].
	p := types.Point{Lon: coords[0], Lat: coords[1]}
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return types.Point{}, pkgerrors.Wrapf(ErrData, "venue coordinates out of range: lat=%v lon=%v", p.Lat, p.Lon)
	}
	return p, nil
}

// FetchPricing returns the venue's delivery pricing schedule from the
// dynamic endpoint, with ranges normalized into ascending Min order.
func (c *Client) FetchPricing(ctx context.Context, slug string) (pricing.Schedule, error) {
	body, err := c.get(ctx, c.dynamic, EndpointURL(c.baseURL, slug, CategoryDynamic))
	if err != nil {
		return pricing.Schedule{}, pkgerrors.Wrap(err, "fetch dynamic venue data")
	}

	var payload dynamicPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return pricing.Schedule{}, pkgerrors.Wrap(ErrData, "dynamic payload is not valid JSON")
	}
	if payload.VenueRaw == nil || payload.VenueRaw.DeliverySpecs == nil {
		return pricing.Schedule{}, pkgerrors.Wrap(ErrData, "dynamic payload missing delivery specs")
	}
	specs := payload.VenueRaw.DeliverySpecs
	if specs.OrderMinimumNoSurcharge == nil {
		return pricing.Schedule{}, pkgerrors.Wrap(ErrData, "delivery specs missing order_minimum_no_surcharge")
	}
	if specs.DeliveryPricing == nil || specs.DeliveryPricing.BasePrice == nil {
		return pricing.Schedule{}, pkgerrors.Wrap(ErrData, "delivery specs missing delivery pricing")
	}
	if len(specs.DeliveryPricing.DistanceRanges) == 0 {
		return pricing.Schedule{}, pkgerrors.Wrap(ErrData, "delivery pricing has no distance ranges")
	}
	if *specs.OrderMinimumNoSurcharge < 0 || *specs.DeliveryPricing.BasePrice < 0 {
		return pricing.Schedule{}, pkgerrors.Wrap(ErrData, "delivery pricing has negative amounts")
	}

	s := pricing.Schedule{
		OrderMinimumNoSurcharge: *specs.OrderMinimumNoSurcharge,
		BasePrice:               *specs.DeliveryPricing.BasePrice,
		DistanceRanges:          specs.DeliveryPricing.DistanceRanges,
	}
	sort.SliceStable(s.DistanceRanges, func(i, j int) bool {
		return s.DistanceRanges[i].Min < s.DistanceRanges[j].Min
	})
	return s, nil
}

// get acquires the pool's next connection, performs one GET under the
// per-call deadline, and maps transport failures. The slot stays reusable;
// nothing is closed on release.
func (c *Client) get(ctx context.Context, pool *Pool, rawURL string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build upstream request")
	}

	resp, err := pool.Next().Do(req)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, pkgerrors.Wrap(ErrUnreachable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, pkgerrors.Wrap(ErrUnreachable, err.Error())
	}
	return body, nil
}
