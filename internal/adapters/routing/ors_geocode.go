package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/obs"
	"route-compare-service/internal/ports"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves addresses with OpenRouteService (/geocode/search),
// backed by an optional persistent cache.
type ORSGeocoder struct {
	client  *orsClient
	country string
	cache   ports.GeocodeCache
}

func NewORSGeocoder(apiKey, country string, cache ports.GeocodeCache) (*ORSGeocoder, error) {
	return newORSGeocoder(apiKey, country, cache, "")
}

func newORSGeocoder(apiKey, country string, cache ports.GeocodeCache, baseURL string) (*ORSGeocoder, error) {
	client, err := newORSClient(apiKey, baseURL)
	if err != nil {
		return nil, fmt.Errorf("new ORS geocoder: %w", err)
	}
	return &ORSGeocoder{client: client, country: country, cache: cache}, nil
}

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	return geocodeOne(ctx, o, address)
}

func (o *ORSGeocoder) GeocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "ors.GeocodeMany")(&err)

	out, err := geocodeCached(ctx, o.cache, addresses, o.search)
	if err != nil {
		return nil, fmt.Errorf("ORS geocode: %w", err)
	}
	return out, nil
}

func (o *ORSGeocoder) search(ctx context.Context, text string) (domain.GeoPoint, error) {
	endpoint := o.client.baseURL + "/geocode/search"

	resp, err := doWithRetry(ctx, o.client.session, o.client.backoff, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("%w: %q", domain.ErrAddressNotFound, text)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.GeoPoint{}, fmt.Errorf("invalid coordinate format for %q", text)
	}

	p, err := domain.NewGeoPoint(coords[1], coords[0])
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", text, err)
	}
	return p, nil
}
