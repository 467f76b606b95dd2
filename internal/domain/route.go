package domain

import (
	"fmt"
	"math"
)

// Provider-supplied metrics for the segment between two consecutive waypoints.
// Label is the street name or step instruction, when the provider has one.
type SegmentMetrics struct {
	DistanceMeters  float64
	DurationSeconds float64
	Label           string
}

func (s SegmentMetrics) Weight(m Metric) float64 {
	if m == MetricDuration {
		return s.DurationSeconds
	}
	return s.DistanceMeters
}

// Represents one candidate route between an origin and a destination, as
// reported by a routing provider.
// Segments[i] describes the leg from Waypoints[i] to Waypoints[i+1].
type RouteAlternative struct {
	Label                string
	Waypoints            []GeoPoint
	Segments             []SegmentMetrics
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
}

// NewRouteAlternative copies its inputs and validates the result.
func NewRouteAlternative(
	label string,
	waypoints []GeoPoint,
	segments []SegmentMetrics,
	totalDistanceMeters float64,
	totalDurationSeconds float64,
) (RouteAlternative, error) {
	r := RouteAlternative{
		Label:                label,
		Waypoints:            append([]GeoPoint(nil), waypoints...),
		Segments:             append([]SegmentMetrics(nil), segments...),
		TotalDistanceMeters:  totalDistanceMeters,
		TotalDurationSeconds: totalDurationSeconds,
	}
	if err := r.Validate(); err != nil {
		return RouteAlternative{}, err
	}
	return r, nil
}

// Validate checks the alternative without knowing its position in a request.
func (r RouteAlternative) Validate() error { return r.ValidateAt(-1) }

// ValidateAt checks the alternative and reports failures against index.
func (r RouteAlternative) ValidateAt(index int) error {
	fail := func(format string, args ...any) error {
		return &InvalidRouteError{Route: index, Reason: fmt.Sprintf(format, args...)}
	}

	if len(r.Waypoints) < 2 {
		return fail("need at least 2 waypoints, got %d", len(r.Waypoints))
	}
	if len(r.Segments) != len(r.Waypoints)-1 {
		return fail("segment count %d does not match %d waypoints", len(r.Segments), len(r.Waypoints))
	}
	for i, p := range r.Waypoints {
		if !p.Valid() {
			return fail("waypoint %d has invalid coordinates lat=%v lon=%v", i, p.Lat, p.Lon)
		}
	}
	for i, s := range r.Segments {
		if !nonNegative(s.DistanceMeters) || !nonNegative(s.DurationSeconds) {
			return fail("segment %d has invalid metrics distance=%v duration=%v", i, s.DistanceMeters, s.DurationSeconds)
		}
	}
	if !nonNegative(r.TotalDistanceMeters) || !nonNegative(r.TotalDurationSeconds) {
		return fail("invalid totals distance=%v duration=%v", r.TotalDistanceMeters, r.TotalDurationSeconds)
	}

	return nil
}

// Total returns the provider total for m.
func (r RouteAlternative) Total(m Metric) float64 {
	if m == MetricDuration {
		return r.TotalDurationSeconds
	}
	return r.TotalDistanceMeters
}

func (r RouteAlternative) Origin() GeoPoint      { return r.Waypoints[0] }
func (r RouteAlternative) Destination() GeoPoint { return r.Waypoints[len(r.Waypoints)-1] }

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
