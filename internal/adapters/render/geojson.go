// Package render turns comparison results into documents a map or graph
// viewer can draw.
package render

import (
	"route-compare-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BoundsMargin pads the map bounds on every side, in degrees.
const BoundsMargin = 0.01

// FallbackColor is used for alternatives past the end of Palette.
const FallbackColor = "#666666"

// Palette colors alternatives by their input index.
var Palette = []string{"#816bff", "#4ecdc4", "#d80bf7"}

func ColorFor(index int) string {
	if index >= 0 && index < len(Palette) {
		return Palette[index]
	}
	return FallbackColor
}

// MapInput is what a map view needs for one comparison.
type MapInput struct {
	OriginLabel      string
	DestinationLabel string
	Origin           domain.GeoPoint
	Destination      domain.GeoPoint
	Comparison       *domain.RankedComparison
	// BestPath, when set, is drawn on top of the alternatives.
	BestPath *domain.PathResult
}

func lineString(points []domain.GeoPoint) orb.LineString {
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, p.Point())
	}
	return ls
}

// MapFeatures renders one LineString per ranked alternative (in rank order),
// the best combined path if any, and start/end markers. The collection bbox
// covers every drawn point plus BoundsMargin.
func MapFeatures(in MapInput) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	bound := orb.Bound{Min: in.Origin.Point(), Max: in.Origin.Point()}.Extend(in.Destination.Point())

	if in.Comparison != nil {
		records := in.Comparison.Records()
		for i, e := range in.Comparison.Entries {
			ls := lineString(e.Alternative.Waypoints)
			bound = bound.Union(ls.Bound())

			rec := records[i]
			f := geojson.NewFeature(ls)
			f.Properties["kind"] = "route"
			f.Properties["index"] = e.Index
			f.Properties["rank"] = e.Rank
			f.Properties["label"] = rec.Label
			f.Properties["color"] = ColorFor(e.Index)
			f.Properties["is_best"] = rec.IsBest
			f.Properties["metric"] = string(rec.Metric)
			f.Properties["weight"] = rec.Weight
			f.Properties["total_distance_meters"] = rec.TotalDistanceMeters
			f.Properties["total_duration_seconds"] = rec.TotalDurationSeconds
			f.Properties["distance_text"] = rec.DistanceText
			f.Properties["duration_text"] = rec.DurationText
			f.Properties["steps"] = rec.Steps
			fc.Append(f)
		}
	}

	if in.BestPath != nil && len(in.BestPath.Nodes) > 1 {
		ls := lineString(in.BestPath.Points())
		bound = bound.Union(ls.Bound())

		f := geojson.NewFeature(ls)
		f.Properties["kind"] = "best_path"
		f.Properties["metric"] = string(in.BestPath.Metric)
		f.Properties["weight"] = in.BestPath.TotalWeight
		f.Properties["routes"] = PathRoutes(in.BestPath.Edges)
		fc.Append(f)
	}

	start := geojson.NewFeature(in.Origin.Point())
	start.Properties["kind"] = "start"
	start.Properties["label"] = in.OriginLabel
	fc.Append(start)

	end := geojson.NewFeature(in.Destination.Point())
	end.Properties["kind"] = "end"
	end.Properties["label"] = in.DestinationLabel
	fc.Append(end)

	bound = orb.Bound{
		Min: orb.Point{bound.Min.Lon() - BoundsMargin, bound.Min.Lat() - BoundsMargin},
		Max: orb.Point{bound.Max.Lon() + BoundsMargin, bound.Max.Lat() + BoundsMargin},
	}
	fc.BBox = geojson.NewBBox(bound)

	return fc
}

// PathRoutes lists the alternatives a path borrows edges from, in order of
// first use.
func PathRoutes(edges []domain.Edge) []int {
	out := []int{}
	seen := map[int]bool{}
	for _, e := range edges {
		if !seen[e.Route] {
			seen[e.Route] = true
			out = append(out, e.Route)
		}
	}
	return out
}
