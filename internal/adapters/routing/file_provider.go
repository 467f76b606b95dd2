package routing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"route-compare-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// RouteFile is the YAML layout for fixed route sets:
//
//	metric: duration
//	routes:
//	  - label: Boulevard du 30 Juin
//	    waypoints: [{lat: -4.3217, lon: 15.3125}, {lat: -4.3300, lon: 15.3000}]
//	    segments: [{distance_meters: 1650, duration_seconds: 240, label: Boulevard du 30 Juin}]
//
// Totals default to the sum of the segment metrics.
type RouteFile struct {
	Metric string      `yaml:"metric"`
	Routes []FileRoute `yaml:"routes"`
}

type FileRoute struct {
	Label         string        `yaml:"label"`
	Waypoints     []FilePoint   `yaml:"waypoints"`
	Segments      []FileSegment `yaml:"segments"`
	TotalDistance *float64      `yaml:"total_distance_meters"`
	TotalDuration *float64      `yaml:"total_duration_seconds"`
}

type FilePoint struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

type FileSegment struct {
	Distance float64 `yaml:"distance_meters"`
	Duration float64 `yaml:"duration_seconds"`
	Label    string  `yaml:"label"`
}

// DecodeRouteFile parses a route file, rejecting unknown keys.
func DecodeRouteFile(r io.Reader) (*RouteFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f RouteFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &RouteFile{}, nil
		}
		return nil, fmt.Errorf("decode route file: %w", err)
	}
	return &f, nil
}

func LoadRouteFile(path string) (*RouteFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load route file: read %q: %w", path, err)
	}
	return DecodeRouteFile(bytes.NewReader(b))
}

// Alternatives converts the file routes as written. They are not validated
// here so that a ranking step can report which route is malformed.
func (f *RouteFile) Alternatives() []domain.RouteAlternative {
	out := make([]domain.RouteAlternative, 0, len(f.Routes))
	for _, r := range f.Routes {
		alt := domain.RouteAlternative{
			Label:     r.Label,
			Waypoints: make([]domain.GeoPoint, len(r.Waypoints)),
			Segments:  make([]domain.SegmentMetrics, len(r.Segments)),
		}
		for i, p := range r.Waypoints {
			alt.Waypoints[i] = domain.GeoPoint{Lat: p.Lat, Lon: p.Lon}
		}
		var dist, dur float64
		for i, s := range r.Segments {
			alt.Segments[i] = domain.SegmentMetrics{
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
				Label:           s.Label,
			}
			dist += s.Distance
			dur += s.Duration
		}
		alt.TotalDistanceMeters = dist
		if r.TotalDistance != nil {
			alt.TotalDistanceMeters = *r.TotalDistance
		}
		alt.TotalDurationSeconds = dur
		if r.TotalDuration != nil {
			alt.TotalDurationSeconds = *r.TotalDuration
		}
		out = append(out, alt)
	}
	return out
}

// FileRouteProvider serves the routes of a YAML file for any request.
// The file is re-read on every call.
type FileRouteProvider struct {
	Path string
}

func NewFileRouteProvider(path string) *FileRouteProvider {
	return &FileRouteProvider{Path: path}
}

func (p *FileRouteProvider) GetRoutes(
	ctx context.Context,
	origin domain.GeoPoint,
	destination domain.GeoPoint,
) ([]domain.RouteAlternative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := LoadRouteFile(p.Path)
	if err != nil {
		return nil, err
	}
	if len(f.Routes) == 0 {
		return nil, fmt.Errorf("route file %q: %w", p.Path, domain.ErrEmptyInput)
	}
	return f.Alternatives(), nil
}
