package cache

import (
	"encoding/json"
	"fmt"
	"route-compare-service/internal/domain"
	"sort"
)

// cachedRoute is the stored form of one route alternative.
// Waypoints are [lon, lat] pairs like GeoJSON.
type cachedRoute struct {
	Label     string          `json:"label"`
	Waypoints [][2]float64    `json:"waypoints"`
	Segments  []cachedSegment `json:"segments"`
	Distance  float64         `json:"total_distance_meters"`
	Duration  float64         `json:"total_duration_seconds"`
}

type cachedSegment struct {
	Distance float64 `json:"distance_meters"`
	Duration float64 `json:"duration_seconds"`
	Label    string  `json:"label,omitempty"`
}

func encodeRoute(alt domain.RouteAlternative) ([]byte, error) {
	cr := cachedRoute{
		Label:     alt.Label,
		Waypoints: make([][2]float64, len(alt.Waypoints)),
		Segments:  make([]cachedSegment, len(alt.Segments)),
		Distance:  alt.TotalDistanceMeters,
		Duration:  alt.TotalDurationSeconds,
	}
	for i, p := range alt.Waypoints {
		cr.Waypoints[i] = [2]float64{p.Lon, p.Lat}
	}
	for i, s := range alt.Segments {
		cr.Segments[i] = cachedSegment{Distance: s.DistanceMeters, Duration: s.DurationSeconds, Label: s.Label}
	}
	return json.Marshal(cr)
}

func decodeRoute(payload []byte) (domain.RouteAlternative, error) {
	var cr cachedRoute
	if err := json.Unmarshal(payload, &cr); err != nil {
		return domain.RouteAlternative{}, fmt.Errorf("decode cached route: %w", err)
	}

	wps := make([]domain.GeoPoint, len(cr.Waypoints))
	for i, c := range cr.Waypoints {
		wps[i] = domain.GeoPoint{Lat: c[1], Lon: c[0]}
	}
	segs := make([]domain.SegmentMetrics, len(cr.Segments))
	for i, s := range cr.Segments {
		segs[i] = domain.SegmentMetrics{DistanceMeters: s.Distance, DurationSeconds: s.Duration, Label: s.Label}
	}

	alt, err := domain.NewRouteAlternative(cr.Label, wps, segs, cr.Distance, cr.Duration)
	if err != nil {
		return domain.RouteAlternative{}, fmt.Errorf("decode cached route: %w", err)
	}
	return alt, nil
}

// assemble orders payloads by alternative index. A gap in the index set
// means a partial write and is reported as a miss.
func assemble(payloads map[int][]byte) ([]domain.RouteAlternative, bool, error) {
	if len(payloads) == 0 {
		return nil, false, nil
	}

	idx := make([]int, 0, len(payloads))
	for i := range payloads {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for want, got := range idx {
		if want != got {
			return nil, false, nil
		}
	}

	out := make([]domain.RouteAlternative, len(idx))
	for _, i := range idx {
		alt, err := decodeRoute(payloads[i])
		if err != nil {
			return nil, false, fmt.Errorf("alternative %d: %w", i, err)
		}
		out[i] = alt
	}
	return out, true, nil
}
