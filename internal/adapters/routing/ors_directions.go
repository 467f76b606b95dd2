package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/obs"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

type directionsRequest struct {
	Coordinates       [][2]float64       `json:"coordinates"`
	AlternativeRoutes *alternativeRoutes `json:"alternative_routes,omitempty"`
	Instructions      bool               `json:"instructions"`
	Units             string             `json:"units"`
}

type alternativeRoutes struct {
	TargetCount  int     `json:"target_count"`
	WeightFactor float64 `json:"weight_factor"`
	ShareFactor  float64 `json:"share_factor"`
}

type directionsResponse struct {
	Features []directionsFeature `json:"features"`
}

type directionsFeature struct {
	Geometry   *geojson.Geometry    `json:"geometry"`
	Properties directionsProperties `json:"properties"`
}

type directionsProperties struct {
	Summary struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"summary"`
	Segments []struct {
		Steps []directionsStep `json:"steps"`
	} `json:"segments"`
}

type directionsStep struct {
	Distance  float64 `json:"distance"`
	Duration  float64 `json:"duration"`
	Name      string  `json:"name"`
	WayPoints [2]int  `json:"way_points"`
}

// ORSRouteProvider implements RouteProvider using the OpenRouteService
// directions endpoint with alternative routes enabled.
//
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	client       *orsClient
	profile      string
	alternatives int
}

func NewORSRouteProvider(apiKey, profile string) (*ORSRouteProvider, error) {
	return newORSRouteProvider(apiKey, profile, "")
}

func newORSRouteProvider(apiKey, profile, baseURL string) (*ORSRouteProvider, error) {
	client, err := newORSClient(apiKey, baseURL)
	if err != nil {
		return nil, fmt.Errorf("new ORS route provider: %w", err)
	}
	if strings.TrimSpace(profile) == "" {
		profile = "driving-car"
	}
	return &ORSRouteProvider{client: client, profile: profile, alternatives: 3}, nil
}

// Profile is the ORS routing profile used, e.g. "driving-car".
func (o *ORSRouteProvider) Profile() string {
	return o.profile
}

// Fetch every alternative ORS offers between origin and destination.
func (o *ORSRouteProvider) GetRoutes(
	ctx context.Context,
	origin domain.GeoPoint,
	destination domain.GeoPoint,
) (_ []domain.RouteAlternative, err error) {
	defer obs.Time(ctx, "ors.GetRoutes")(&err)

	if !origin.Valid() || !destination.Valid() {
		return nil, fmt.Errorf("get ORS routes: invalid endpoints %s -> %s", origin, destination)
	}

	payload := directionsRequest{
		Coordinates: [][2]float64{
			{origin.Lon, origin.Lat},
			{destination.Lon, destination.Lat},
		},
		Instructions: true,
		Units:        "m",
	}
	if o.alternatives > 1 {
		payload.AlternativeRoutes = &alternativeRoutes{
			TargetCount:  o.alternatives,
			WeightFactor: 1.4,
			ShareFactor:  0.6,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.client.baseURL, o.profile)
	resp, err := doWithRetry(ctx, o.client.session, o.client.backoff, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	})
	if err != nil {
		return nil, fmt.Errorf("execute directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return nil, errors.New("directions response has no routes")
	}

	out := make([]domain.RouteAlternative, 0, len(decoded.Features))
	for i, f := range decoded.Features {
		alt, err := f.alternative()
		if err != nil {
			return nil, fmt.Errorf("directions route %d: %w", i, err)
		}
		out = append(out, alt)
	}

	return out, nil
}

func (f directionsFeature) alternative() (domain.RouteAlternative, error) {
	if f.Geometry == nil {
		return domain.RouteAlternative{}, errors.New("missing geometry")
	}
	line, ok := f.Geometry.Geometry().(orb.LineString)
	if !ok {
		return domain.RouteAlternative{}, fmt.Errorf("geometry type %q, want LineString", f.Geometry.Type)
	}

	wps := make([]domain.GeoPoint, len(line))
	for i, p := range line {
		wps[i] = domain.GeoPointFromOrb(p)
	}

	var steps []directionsStep
	for _, s := range f.Properties.Segments {
		steps = append(steps, s.Steps...)
	}

	// Not validated here; a malformed alternative is reported by the
	// comparison without discarding the others.
	return domain.RouteAlternative{
		Waypoints:            wps,
		Segments:             spreadSteps(line, steps),
		TotalDistanceMeters:  f.Properties.Summary.Distance,
		TotalDurationSeconds: f.Properties.Summary.Duration,
	}, nil
}

// spreadSteps assigns each step's distance and duration to the coordinate
// segments it covers, in proportion to their haversine length. Segments not
// covered by any step carry zero metrics.
func spreadSteps(line orb.LineString, steps []directionsStep) []domain.SegmentMetrics {
	if len(line) < 2 {
		return nil
	}
	segs := make([]domain.SegmentMetrics, len(line)-1)

	for _, st := range steps {
		from, to := st.WayPoints[0], st.WayPoints[1]
		if from < 0 {
			from = 0
		}
		if to > len(segs) {
			to = len(segs)
		}
		if from >= to {
			continue
		}

		lengths := make([]float64, to-from)
		var total float64
		for k := from; k < to; k++ {
			lengths[k-from] = geo.DistanceHaversine(line[k], line[k+1])
			total += lengths[k-from]
		}

		label := stepLabel(st.Name)
		for k := from; k < to; k++ {
			share := 1 / float64(to-from)
			if total > 0 {
				share = lengths[k-from] / total
			}
			segs[k].DistanceMeters += st.Distance * share
			segs[k].DurationSeconds += st.Duration * share
			if label != "" {
				segs[k].Label = label
			}
		}
	}

	return segs
}

// ORS uses "-" for unnamed roads.
func stepLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "-" {
		return ""
	}
	return name
}
