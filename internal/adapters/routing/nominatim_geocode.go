package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/obs"
	"route-compare-service/internal/ports"
	"strconv"
	"strings"
	"time"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimConfig scopes free-text searches to one city.
// An address that does not mention City gets ", City, Region" appended.
type NominatimConfig struct {
	BaseURL     string
	City        string
	Region      string
	CountryCode string
	UserAgent   string
}

func DefaultNominatimConfig() NominatimConfig {
	return NominatimConfig{
		BaseURL:     defaultNominatimURL,
		City:        "Kinshasa",
		Region:      "RDC",
		CountryCode: "cd",
		UserAgent:   "route-compare-service/1.0",
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder resolves addresses with the OpenStreetMap Nominatim
// search API.
type NominatimGeocoder struct {
	session *http.Client
	cfg     NominatimConfig
	cache   ports.GeocodeCache
	backoff time.Duration
}

func NewNominatimGeocoder(cfg NominatimConfig, cache ports.GeocodeCache) *NominatimGeocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultNominatimURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &NominatimGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		cfg:     cfg,
		cache:   cache,
		backoff: 500 * time.Millisecond,
	}
}

func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	return geocodeOne(ctx, n, address)
}

func (n *NominatimGeocoder) GeocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "nominatim.GeocodeMany")(&err)

	out, err := geocodeCached(ctx, n.cache, addresses, n.search)
	if err != nil {
		return nil, fmt.Errorf("nominatim geocode: %w", err)
	}
	return out, nil
}

// query appends the configured city when the address does not name it.
func (n *NominatimGeocoder) query(address string) string {
	if n.cfg.City == "" || domain.MentionsPlace(address, n.cfg.City) {
		return address
	}
	parts := []string{address, n.cfg.City}
	if n.cfg.Region != "" {
		parts = append(parts, n.cfg.Region)
	}
	return strings.Join(parts, ", ")
}

func (n *NominatimGeocoder) search(ctx context.Context, address string) (domain.GeoPoint, error) {
	q := n.query(address)
	endpoint := n.cfg.BaseURL + "/search"

	resp, err := doWithRetry(ctx, n.session, n.backoff, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if n.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", n.cfg.UserAgent)
		}
		params := req.URL.Query()
		params.Set("q", q)
		params.Set("format", "json")
		params.Set("limit", "1")
		if n.cfg.CountryCode != "" {
			params.Set("countrycodes", n.cfg.CountryCode)
		}
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("decode search response: %w", err)
	}
	if len(places) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("%w: %q", domain.ErrAddressNotFound, q)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse lat for %q: %w", q, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse lon for %q: %w", q, err)
	}

	p, err := domain.NewGeoPoint(lat, lon)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", q, err)
	}
	return p, nil
}
