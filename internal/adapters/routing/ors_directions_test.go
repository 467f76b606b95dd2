package routing

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"route-compare-service/internal/domain"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const directionsFixture = `{
  "type": "FeatureCollection",
  "bbox": [15.30, -4.33, 15.32, -4.32],
  "features": [
    {
      "type": "Feature",
      "bbox": [15.30, -4.33, 15.32, -4.32],
      "properties": {
        "segments": [{
          "distance": 3000, "duration": 300,
          "steps": [
            {"distance": 1000, "duration": 100, "type": 11, "instruction": "Head", "name": "Avenue de la Justice", "way_points": [0, 2]},
            {"distance": 2000, "duration": 200, "type": 1, "instruction": "Turn", "name": "-", "way_points": [2, 3]},
            {"distance": 0, "duration": 0, "type": 10, "instruction": "Arrive", "name": "-", "way_points": [3, 3]}
          ]
        }],
        "summary": {"distance": 3000, "duration": 300},
        "way_points": [0, 3]
      },
      "geometry": {"type": "LineString", "coordinates": [[15.3000, -4.3200], [15.3010, -4.3200], [15.3030, -4.3200], [15.3100, -4.3300]]}
    },
    {
      "type": "Feature",
      "properties": {
        "segments": [{"distance": 3500, "duration": 280, "steps": [
          {"distance": 3500, "duration": 280, "name": "Boulevard du 30 Juin", "way_points": [0, 1]}
        ]}],
        "summary": {"distance": 3500, "duration": 280}
      },
      "geometry": {"type": "LineString", "coordinates": [[15.3000, -4.3200], [15.3100, -4.3300]]}
    }
  ],
  "metadata": {"service": "routing"}
}`

func TestORSRouteProviderGetRoutes(t *testing.T) {
	var got directionsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v2/directions/driving-car/geojson" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(directionsFixture))
	}))
	defer srv.Close()

	p, err := newORSRouteProvider("key", "", srv.URL)
	if err != nil {
		t.Fatalf("newORSRouteProvider: %v", err)
	}

	origin := domain.GeoPoint{Lat: -4.32, Lon: 15.30}
	destination := domain.GeoPoint{Lat: -4.33, Lon: 15.31}
	alts, err := p.GetRoutes(context.Background(), origin, destination)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}

	if got.Coordinates[0] != [2]float64{15.30, -4.32} {
		t.Fatalf("request origin = %v, want lon/lat order", got.Coordinates[0])
	}
	if got.AlternativeRoutes == nil || got.AlternativeRoutes.TargetCount != 3 {
		t.Fatalf("alternative_routes = %+v, want target_count 3", got.AlternativeRoutes)
	}

	if len(alts) != 2 {
		t.Fatalf("len(alts) = %d, want 2", len(alts))
	}
	a := alts[0]
	if len(a.Waypoints) != 4 || len(a.Segments) != 3 {
		t.Fatalf("waypoints=%d segments=%d, want 4 and 3", len(a.Waypoints), len(a.Segments))
	}
	if a.TotalDistanceMeters != 3000 || a.TotalDurationSeconds != 300 {
		t.Fatalf("totals = %v/%v, want 3000/300", a.TotalDistanceMeters, a.TotalDurationSeconds)
	}

	// First step covers two segments whose lengths are roughly 1:2.
	if math.Abs(a.Segments[0].DistanceMeters+a.Segments[1].DistanceMeters-1000) > 1e-6 {
		t.Fatalf("first step spread = %v + %v, want 1000", a.Segments[0].DistanceMeters, a.Segments[1].DistanceMeters)
	}
	if a.Segments[0].DistanceMeters >= a.Segments[1].DistanceMeters {
		t.Fatalf("shorter segment got more distance: %v >= %v", a.Segments[0].DistanceMeters, a.Segments[1].DistanceMeters)
	}
	if a.Segments[0].Label != "Avenue de la Justice" || a.Segments[2].Label != "" {
		t.Fatalf("labels = %q, %q", a.Segments[0].Label, a.Segments[2].Label)
	}
	if a.Segments[2].DurationSeconds != 200 {
		t.Fatalf("segment 2 duration = %v, want 200", a.Segments[2].DurationSeconds)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("decoded alternative invalid: %v", err)
	}
}

const directionsWithBadFeature = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "segments": [{"distance": 3500, "duration": 280, "steps": [
          {"distance": 3500, "duration": 280, "name": "Boulevard du 30 Juin", "way_points": [0, 1]}
        ]}],
        "summary": {"distance": 3500, "duration": 280}
      },
      "geometry": {"type": "LineString", "coordinates": [[15.3000, -4.3200], [15.3100, -4.3300]]}
    },
    {
      "type": "Feature",
      "properties": {"segments": [], "summary": {"distance": 0, "duration": 0}},
      "geometry": {"type": "LineString", "coordinates": [[15.3000, -4.3200]]}
    }
  ]
}`

func TestORSRouteProviderKeepsMalformedAlternatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(directionsWithBadFeature))
	}))
	defer srv.Close()

	p, err := newORSRouteProvider("key", "", srv.URL)
	if err != nil {
		t.Fatalf("newORSRouteProvider: %v", err)
	}
	alts, err := p.GetRoutes(context.Background(), domain.GeoPoint{Lat: -4.32, Lon: 15.30}, domain.GeoPoint{Lat: -4.33, Lon: 15.31})
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}
	if len(alts) != 2 {
		t.Fatalf("len(alts) = %d, want 2", len(alts))
	}
	if err := alts[0].Validate(); err != nil {
		t.Fatalf("alternative 0 invalid: %v", err)
	}
	if err := alts[1].ValidateAt(1); err == nil {
		t.Fatalf("alternative 1 should fail validation")
	}
}

func TestORSRouteProviderRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(directionsFixture))
	}))
	defer srv.Close()

	p, err := newORSRouteProvider("key", "cycling-regular", srv.URL)
	if err != nil {
		t.Fatalf("newORSRouteProvider: %v", err)
	}
	p.client.backoff = time.Millisecond

	alts, err := p.GetRoutes(context.Background(), domain.GeoPoint{Lat: -4.32, Lon: 15.30}, domain.GeoPoint{Lat: -4.33, Lon: 15.31})
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}
	if len(alts) != 2 {
		t.Fatalf("len(alts) = %d, want 2", len(alts))
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestORSRouteProviderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad coordinates"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p, _ := newORSRouteProvider("key", "", srv.URL)
	p.client.backoff = time.Millisecond

	_, err := p.GetRoutes(context.Background(), domain.GeoPoint{Lat: 1, Lon: 1}, domain.GeoPoint{Lat: 2, Lon: 2})
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("err = %v, want status 400", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestNewORSRouteProviderRequiresKey(t *testing.T) {
	if _, err := NewORSRouteProvider(" ", "driving-car"); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestSpreadStepsEqualSharesOnZeroLength(t *testing.T) {
	steps := []directionsStep{{Distance: 30, Duration: 9, Name: "Rond-point", WayPoints: [2]int{0, 3}}}
	segs := spreadSteps(orbLine(domain.GeoPoint{Lat: 1, Lon: 1}, 4), steps)
	if len(segs) != 3 {
		t.Fatalf("len(segs) = %d, want 3", len(segs))
	}
	for i, s := range segs {
		if math.Abs(s.DistanceMeters-10) > 1e-9 || math.Abs(s.DurationSeconds-3) > 1e-9 || s.Label != "Rond-point" {
			t.Fatalf("segment %d = %+v, want 10 m / 3 s", i, s)
		}
	}
}
