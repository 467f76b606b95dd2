package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"route-compare-service/internal/domain"
	"sync/atomic"
	"testing"
	"time"
)

func TestORSGeocoderUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/geocode/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("text"); got != "gare centrale" {
			t.Errorf("text = %q, want normalized address", got)
		}
		if got := r.URL.Query().Get("boundary.country"); got != "CD" {
			t.Errorf("boundary.country = %q, want CD", got)
		}
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[15.3125,-4.3217]}}]}`))
	}))
	defer srv.Close()

	cache := newMemGeocodeCache()
	g, err := newORSGeocoder("key", "CD", cache, srv.URL)
	if err != nil {
		t.Fatalf("newORSGeocoder: %v", err)
	}
	ctx := context.Background()

	p, err := g.Geocode(ctx, "  Gare   Centrale ")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	want := domain.GeoPoint{Lat: -4.3217, Lon: 15.3125}
	if p != want {
		t.Fatalf("Geocode = %v, want %v", p, want)
	}

	// Same address in another spelling is served from the cache.
	res, err := g.GeocodeMany(ctx, []string{"GARE CENTRALE"})
	if err != nil {
		t.Fatalf("GeocodeMany: %v", err)
	}
	if res["GARE CENTRALE"] != want {
		t.Fatalf("GeocodeMany = %v, want %v", res, want)
	}
	if calls.Load() != 1 {
		t.Fatalf("http calls = %d, want 1", calls.Load())
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}
}

func TestORSGeocoderNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	g, _ := newORSGeocoder("key", "", nil, srv.URL)
	if _, err := g.Geocode(context.Background(), "nowhere"); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound", err)
	}
}

func TestGeocoderRejectsEmptyAddress(t *testing.T) {
	g := NewNominatimGeocoder(DefaultNominatimConfig(), nil)
	if _, err := g.Geocode(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank address")
	}
}

func TestNominatimQuery(t *testing.T) {
	g := NewNominatimGeocoder(DefaultNominatimConfig(), nil)

	tests := []struct {
		in, want string
	}{
		{"gare centrale", "gare centrale, Kinshasa, RDC"},
		{"Gombe, KINSHASA", "Gombe, KINSHASA"},
	}
	for _, tt := range tests {
		if got := g.query(tt.in); got != tt.want {
			t.Fatalf("query(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNominatimGeocoderSearch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		q := r.URL.Query()
		if q.Get("q") != "gare centrale, Kinshasa, RDC" {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("countrycodes") != "cd" || q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("query = %v", q)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("missing User-Agent")
		}
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[{"place_id": 1, "lat": "-4.3050", "lon": "15.3120", "display_name": "Gare Centrale"}]`))
	}))
	defer srv.Close()

	cfg := DefaultNominatimConfig()
	cfg.BaseURL = srv.URL
	g := NewNominatimGeocoder(cfg, nil)
	g.backoff = time.Millisecond

	p, err := g.Geocode(context.Background(), "Gare Centrale")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if want := (domain.GeoPoint{Lat: -4.3050, Lon: 15.3120}); p != want {
		t.Fatalf("Geocode = %v, want %v", p, want)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2 after one 429", calls.Load())
	}
}

func TestNominatimGeocoderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := DefaultNominatimConfig()
	cfg.BaseURL = srv.URL
	_, err := NewNominatimGeocoder(cfg, nil).Geocode(context.Background(), "nulle part")
	if !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound", err)
	}
}
