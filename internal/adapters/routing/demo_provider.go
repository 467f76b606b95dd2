package routing

import (
	"context"
	"fmt"
	"math"
	"route-compare-service/internal/domain"
)

const demoPoints = 20

type demoStep struct {
	name    string
	meters  float64
	minutes float64
}

type demoRoute struct {
	label string
	sign  float64
	steps []demoStep
}

var demoRoutes = []demoRoute{
	{
		label: "Route 1",
		sign:  1,
		steps: []demoStep{
			{"Prendre l'avenue de la Justice", 2000, 5},
			{"Tourner à gauche sur le Boulevard du 30 Juin", 8000, 25},
			{"Continuer tout droit vers la destination", 5500, 15},
		},
	},
	{
		label: "Route 2",
		sign:  -1,
		steps: []demoStep{
			{"Prendre l'avenue des Aviateurs", 3000, 8},
			{"Tourner à droite sur l'avenue de la Libération", 10000, 30},
			{"Prendre la sortie vers la destination", 4200, 14},
		},
	},
}

// DemoRouteProvider returns two synthetic alternatives between any two
// points without calling a routing service. Route 1 is 15.5 km / 45 min,
// Route 2 is 17.2 km / 52 min.
type DemoRouteProvider struct{}

func NewDemoRouteProvider() *DemoRouteProvider {
	return &DemoRouteProvider{}
}

func (DemoRouteProvider) GetRoutes(
	ctx context.Context,
	origin domain.GeoPoint,
	destination domain.GeoPoint,
) ([]domain.RouteAlternative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.RouteAlternative, 0, len(demoRoutes))
	for _, r := range demoRoutes {
		alt, err := r.build(origin, destination)
		if err != nil {
			return nil, fmt.Errorf("demo %s: %w", r.label, err)
		}
		out = append(out, alt)
	}
	return out, nil
}

// Points are linearly interpolated between the endpoints and pushed
// 0.001 degrees off the straight line along a sine/cosine wave, on opposite
// sides for the two routes.
func (r demoRoute) build(origin, destination domain.GeoPoint) (domain.RouteAlternative, error) {
	wps := make([]domain.GeoPoint, demoPoints)
	for i := range wps {
		t := float64(i) / float64(demoPoints-1)
		wave := float64(i) * 0.5
		wps[i] = domain.GeoPoint{
			Lat: origin.Lat + t*(destination.Lat-origin.Lat) + r.sign*0.001*math.Cos(wave),
			Lon: origin.Lon + t*(destination.Lon-origin.Lon) + r.sign*0.001*math.Sin(wave),
		}
	}

	var totalMeters, totalSeconds float64
	for _, s := range r.steps {
		totalMeters += s.meters
		totalSeconds += s.minutes * 60
	}

	// Steps take consecutive segment ranges sized by their share of the distance.
	n := demoPoints - 1
	segs := make([]domain.SegmentMetrics, n)
	start := 0
	var cum float64
	for k, s := range r.steps {
		cum += s.meters
		end := int(math.Round(float64(n) * cum / totalMeters))
		if k == len(r.steps)-1 {
			end = n
		}
		if end <= start {
			end = start + 1
		}
		count := float64(end - start)
		for j := start; j < end; j++ {
			segs[j] = domain.SegmentMetrics{
				DistanceMeters:  s.meters / count,
				DurationSeconds: s.minutes * 60 / count,
				Label:           s.name,
			}
		}
		start = end
	}

	return domain.NewRouteAlternative(r.label, wps, segs, totalMeters, totalSeconds)
}
