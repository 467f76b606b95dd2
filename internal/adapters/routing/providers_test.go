package routing

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"route-compare-service/internal/domain"
	"strings"
	"testing"
)

func TestDemoRouteProvider(t *testing.T) {
	origin := domain.GeoPoint{Lat: -4.3217, Lon: 15.3125}
	destination := domain.GeoPoint{Lat: -4.4000, Lon: 15.2500}

	alts, err := NewDemoRouteProvider().GetRoutes(context.Background(), origin, destination)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}
	if len(alts) != 2 {
		t.Fatalf("len(alts) = %d, want 2", len(alts))
	}

	wantTotals := [][2]float64{{15500, 2700}, {17200, 3120}}
	for i, a := range alts {
		if len(a.Waypoints) != 20 || len(a.Segments) != 19 {
			t.Fatalf("route %d: waypoints=%d segments=%d", i, len(a.Waypoints), len(a.Segments))
		}
		if a.TotalDistanceMeters != wantTotals[i][0] || a.TotalDurationSeconds != wantTotals[i][1] {
			t.Fatalf("route %d totals = %v/%v, want %v", i, a.TotalDistanceMeters, a.TotalDurationSeconds, wantTotals[i])
		}

		var dist, dur float64
		labels := map[string]bool{}
		for _, s := range a.Segments {
			dist += s.DistanceMeters
			dur += s.DurationSeconds
			labels[s.Label] = true
		}
		if math.Abs(dist-a.TotalDistanceMeters) > 1e-6 || math.Abs(dur-a.TotalDurationSeconds) > 1e-6 {
			t.Fatalf("route %d segment sums = %v/%v", i, dist, dur)
		}
		if len(labels) != 3 {
			t.Fatalf("route %d has %d step labels, want 3", i, len(labels))
		}
	}

	// The two routes sit on opposite sides of the straight line.
	if alts[0].Waypoints[0] == alts[1].Waypoints[0] {
		t.Fatalf("routes share their first waypoint")
	}
	if d := alts[0].Waypoints[0].DistanceMeters(origin); d < 100 || d > 130 {
		t.Fatalf("first waypoint offset = %v m, want about 111 m", d)
	}
}

const routeFixture = `
metric: duration
routes:
  - label: Boulevard
    waypoints:
      - {lat: -4.3217, lon: 15.3125}
      - {lat: -4.3250, lon: 15.3100}
      - {lat: -4.3300, lon: 15.3000}
    segments:
      - {distance_meters: 500, duration_seconds: 60, label: Boulevard du 30 Juin}
      - {distance_meters: 1200, duration_seconds: 180}
  - label: Avenue
    total_distance_meters: 1500
    waypoints:
      - {lat: -4.3217, lon: 15.3125}
      - {lat: -4.3300, lon: 15.3000}
    segments:
      - {distance_meters: 1500, duration_seconds: 300}
`

func TestDecodeRouteFile(t *testing.T) {
	f, err := DecodeRouteFile(strings.NewReader(routeFixture))
	if err != nil {
		t.Fatalf("DecodeRouteFile: %v", err)
	}
	if f.Metric != "duration" {
		t.Fatalf("Metric = %q, want duration", f.Metric)
	}

	alts := f.Alternatives()
	if len(alts) != 2 {
		t.Fatalf("len(alts) = %d, want 2", len(alts))
	}
	if alts[0].TotalDistanceMeters != 1700 || alts[0].TotalDurationSeconds != 240 {
		t.Fatalf("summed totals = %v/%v, want 1700/240", alts[0].TotalDistanceMeters, alts[0].TotalDurationSeconds)
	}
	if alts[1].TotalDistanceMeters != 1500 {
		t.Fatalf("explicit total = %v, want 1500", alts[1].TotalDistanceMeters)
	}
	if alts[0].Segments[0].Label != "Boulevard du 30 Juin" {
		t.Fatalf("segment label = %q", alts[0].Segments[0].Label)
	}
	for i, a := range alts {
		if err := a.ValidateAt(i); err != nil {
			t.Fatalf("ValidateAt(%d): %v", i, err)
		}
	}
}

func TestDecodeRouteFileRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeRouteFile(strings.NewReader("routes:\n  - label: x\n    colour: red\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestFileRouteProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	if err := os.WriteFile(path, []byte(routeFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	alts, err := NewFileRouteProvider(path).GetRoutes(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}
	if len(alts) != 2 || alts[1].Label != "Avenue" {
		t.Fatalf("alts = %+v", alts)
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("routes: []\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err = NewFileRouteProvider(empty).GetRoutes(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}

	if _, err := NewFileRouteProvider(filepath.Join(dir, "missing.yaml")).GetRoutes(context.Background(), domain.GeoPoint{}, domain.GeoPoint{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
