package cache

import (
	"context"
	"database/sql"
	"route-compare-service/internal/adapters/repositories"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/db"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := repositories.InitSchema(ctx, conn); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return conn
}

func testRoutes() []domain.RouteAlternative {
	a, _ := domain.NewRouteAlternative(
		"Boulevard du 30 Juin",
		[]domain.GeoPoint{{Lat: -4.3217, Lon: 15.3125}, {Lat: -4.3250, Lon: 15.3100}, {Lat: -4.3300, Lon: 15.3000}},
		[]domain.SegmentMetrics{
			{DistanceMeters: 450.5, DurationSeconds: 60, Label: "Boulevard du 30 Juin"},
			{DistanceMeters: 1200, DurationSeconds: 180.25},
		},
		1650.5, 240.25,
	)
	b, _ := domain.NewRouteAlternative(
		"",
		[]domain.GeoPoint{{Lat: -4.3217, Lon: 15.3125}, {Lat: -4.3300, Lon: 15.3000}},
		[]domain.SegmentMetrics{{DistanceMeters: 1500, DurationSeconds: 300}},
		1500, 300,
	)
	return []domain.RouteAlternative{a, b}
}

func assertRoutesEqual(t *testing.T, got, want []domain.RouteAlternative) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Label != w.Label || g.TotalDistanceMeters != w.TotalDistanceMeters || g.TotalDurationSeconds != w.TotalDurationSeconds {
			t.Fatalf("route %d = %+v, want %+v", i, g, w)
		}
		if len(g.Waypoints) != len(w.Waypoints) || len(g.Segments) != len(w.Segments) {
			t.Fatalf("route %d shape mismatch", i)
		}
		for k := range w.Waypoints {
			if g.Waypoints[k] != w.Waypoints[k] {
				t.Fatalf("route %d waypoint %d = %v, want %v", i, k, g.Waypoints[k], w.Waypoints[k])
			}
		}
		for k := range w.Segments {
			if g.Segments[k] != w.Segments[k] {
				t.Fatalf("route %d segment %d = %+v, want %+v", i, k, g.Segments[k], w.Segments[k])
			}
		}
	}
}

func TestSqliteRouteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteRouteCache(openTestDB(t), 0)

	if _, ok, err := c.GetRoutes(ctx, "abc"); err != nil || ok {
		t.Fatalf("GetRoutes on empty cache = ok=%v err=%v, want miss", ok, err)
	}

	want := testRoutes()
	if err := c.PutRoutes(ctx, "abc", want); err != nil {
		t.Fatalf("PutRoutes: %v", err)
	}
	got, ok, err := c.GetRoutes(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("GetRoutes = ok=%v err=%v, want hit", ok, err)
	}
	assertRoutesEqual(t, got, want)

	// A second write replaces every alternative for the key.
	if err := c.PutRoutes(ctx, "abc", want[1:]); err != nil {
		t.Fatalf("PutRoutes: %v", err)
	}
	got, _, _ = c.GetRoutes(ctx, "abc")
	assertRoutesEqual(t, got, want[1:])
}

func TestSqliteRouteCacheGapIsMiss(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	c := NewSqliteRouteCache(conn, 0)

	if err := c.PutRoutes(ctx, "abc", testRoutes()); err != nil {
		t.Fatalf("PutRoutes: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM route_cache WHERE alt_index = 0;`); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	if _, ok, err := c.GetRoutes(ctx, "abc"); err != nil || ok {
		t.Fatalf("GetRoutes with gap = ok=%v err=%v, want miss", ok, err)
	}
}

func TestSqliteRouteCacheTTLAndPurge(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteRouteCache(openTestDB(t), time.Hour)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	if err := c.PutRoutes(ctx, "old", testRoutes()); err != nil {
		t.Fatalf("PutRoutes: %v", err)
	}

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := c.PutRoutes(ctx, "new", testRoutes()); err != nil {
		t.Fatalf("PutRoutes: %v", err)
	}

	if _, ok, _ := c.GetRoutes(ctx, "old"); ok {
		t.Fatalf("expired entry returned")
	}
	if _, ok, _ := c.GetRoutes(ctx, "new"); !ok {
		t.Fatalf("fresh entry missing")
	}

	n, err := c.Purge(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("Purge removed %d rows, want 2", n)
	}
}

func TestSqliteRouteCacheRejectsEmptyFingerprint(t *testing.T) {
	c := NewSqliteRouteCache(openTestDB(t), 0)
	if err := c.PutRoutes(context.Background(), " ", testRoutes()); err == nil {
		t.Fatalf("expected error for empty fingerprint")
	}
}

func TestSqliteGeocodeCache(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteGeocodeCache(openTestDB(t))

	in := map[string]domain.GeoPoint{
		"gare centrale": {Lat: -4.3050, Lon: 15.3120},
		"gombe":         {Lat: -4.3100, Lon: 15.2900},
	}
	if err := c.PutMany(ctx, in); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"gare centrale", " gombe ", "gare centrale", "", "limete"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetMany = %v, want 2 hits", got)
	}
	if got["gombe"] != in["gombe"] {
		t.Fatalf("gombe = %v, want %v", got["gombe"], in["gombe"])
	}

	if err := c.PutMany(ctx, map[string]domain.GeoPoint{"bad": {Lat: 91}}); err == nil {
		t.Fatalf("expected error for invalid coordinates")
	}
}
