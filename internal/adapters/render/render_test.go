package render

import (
	"encoding/json"
	"math"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/services"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func mustRoute(t *testing.T, label string, pts []domain.GeoPoint, dist float64) domain.RouteAlternative {
	t.Helper()
	segs := make([]domain.SegmentMetrics, len(pts)-1)
	for i := range segs {
		segs[i] = domain.SegmentMetrics{DistanceMeters: dist / float64(len(segs)), DurationSeconds: 60}
	}
	alt, err := domain.NewRouteAlternative(label, pts, segs, dist, 60*float64(len(segs)))
	if err != nil {
		t.Fatalf("NewRouteAlternative: %v", err)
	}
	return alt
}

func fixture(t *testing.T) ([]domain.RouteAlternative, *domain.RankedComparison) {
	t.Helper()
	a := domain.GeoPoint{Lat: -4.30, Lon: 15.30}
	b := domain.GeoPoint{Lat: -4.31, Lon: 15.31}
	c := domain.GeoPoint{Lat: -4.32, Lon: 15.32}
	d := domain.GeoPoint{Lat: -4.30, Lon: 15.33}
	alts := []domain.RouteAlternative{
		mustRoute(t, "A", []domain.GeoPoint{a, b, c}, 10000),
		mustRoute(t, "B", []domain.GeoPoint{a, d, c}, 8500),
		mustRoute(t, "C", []domain.GeoPoint{a, c}, 12000),
		mustRoute(t, "D", []domain.GeoPoint{a, b, d, c}, 20000),
	}
	cmp, err := services.CompareRoutes(alts, domain.MetricDistance)
	if err != nil {
		t.Fatalf("CompareRoutes: %v", err)
	}
	return alts, cmp
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "#816bff"},
		{1, "#4ecdc4"},
		{2, "#d80bf7"},
		{3, FallbackColor},
		{-1, FallbackColor},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.index); got != tt.want {
			t.Fatalf("ColorFor(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestMapFeatures(t *testing.T) {
	alts, cmp := fixture(t)
	combined, err := services.BestCombinedPath(alts, domain.MetricDistance)
	if err != nil {
		t.Fatalf("BestCombinedPath: %v", err)
	}

	fc := MapFeatures(MapInput{
		OriginLabel:      "Gombe",
		DestinationLabel: "Limete",
		Origin:           alts[0].Origin(),
		Destination:      alts[0].Destination(),
		Comparison:       cmp,
		BestPath:         &combined.Path,
	})

	// 4 routes + best path + start + end
	if len(fc.Features) != 7 {
		t.Fatalf("features = %d, want 7", len(fc.Features))
	}

	first := fc.Features[0]
	if first.Properties["label"] != "B" || first.Properties["is_best"] != true || first.Properties["rank"] != 1 {
		t.Fatalf("first feature = %v, want best route B", first.Properties)
	}
	if first.Properties["color"] != "#4ecdc4" {
		t.Fatalf("color = %v, want palette by input index", first.Properties["color"])
	}
	if fc.Features[3].Properties["color"] != FallbackColor {
		t.Fatalf("fourth route color = %v, want fallback", fc.Features[3].Properties["color"])
	}

	if fc.Features[4].Properties["kind"] != "best_path" {
		t.Fatalf("feature 4 kind = %v, want best_path", fc.Features[4].Properties["kind"])
	}
	start, end := fc.Features[5], fc.Features[6]
	if start.Properties["kind"] != "start" || start.Properties["label"] != "Gombe" {
		t.Fatalf("start marker = %v", start.Properties)
	}
	if end.Geometry.(orb.Point) != alts[0].Destination().Point() {
		t.Fatalf("end marker at %v", end.Geometry)
	}

	bound := fc.BBox.Bound()
	if math.Abs(bound.Min.Lon()-(15.30-BoundsMargin)) > 1e-9 || math.Abs(bound.Max.Lon()-(15.33+BoundsMargin)) > 1e-9 {
		t.Fatalf("bbox lon = %v..%v", bound.Min.Lon(), bound.Max.Lon())
	}
	if math.Abs(bound.Min.Lat()-(-4.32-BoundsMargin)) > 1e-9 || math.Abs(bound.Max.Lat()-(-4.30+BoundsMargin)) > 1e-9 {
		t.Fatalf("bbox lat = %v..%v", bound.Min.Lat(), bound.Max.Lat())
	}

	b, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Features) != 7 {
		t.Fatalf("round trip features = %d", len(back.Features))
	}
}

func TestMapFeaturesWithoutComparison(t *testing.T) {
	p := domain.GeoPoint{Lat: 1, Lon: 2}
	fc := MapFeatures(MapInput{Origin: p, Destination: p})
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d, want markers only", len(fc.Features))
	}
}

func TestGraphDocument(t *testing.T) {
	alts, _ := fixture(t)
	combined, err := services.BestCombinedPath(alts[:2], domain.MetricDistance)
	if err != nil {
		t.Fatalf("BestCombinedPath: %v", err)
	}
	g := combined.Graph

	doc := GraphDocument(g, &combined.Path)
	if len(doc.Nodes) != g.NodeCount() || len(doc.Links) != g.EdgeCount() {
		t.Fatalf("doc has %d nodes / %d links, want %d / %d", len(doc.Nodes), len(doc.Links), g.NodeCount(), g.EdgeCount())
	}
	if !doc.Directed || doc.Metric != domain.MetricDistance {
		t.Fatalf("doc header = %+v", doc)
	}

	onPath := 0
	for _, l := range doc.Links {
		if l.OnPath {
			onPath++
		}
	}
	if onPath != len(combined.Path.Edges) {
		t.Fatalf("links on path = %d, want %d", onPath, len(combined.Path.Edges))
	}
	if len(doc.Path) != len(combined.Path.Nodes) {
		t.Fatalf("path ids = %v", doc.Path)
	}

	empty := GraphDocument(g, nil)
	for _, l := range empty.Links {
		if l.OnPath {
			t.Fatalf("link flagged without a path")
		}
	}
}
