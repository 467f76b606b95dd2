package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/graph"
	"route-compare-service/internal/platform/obs"
	"route-compare-service/internal/ports"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidTrip marks trip requests that are rejected before any lookup.
var ErrInvalidTrip = errors.New("invalid trip request")

// TripRequest describes one comparison request. Each endpoint is given either
// as an address or as coordinates; coordinates win when both are set.
type TripRequest struct {
	Origin           string
	Destination      string
	OriginPoint      *domain.GeoPoint
	DestinationPoint *domain.GeoPoint
	Metric           domain.Metric
	// ToleranceMeters overrides the node deduplication radius when positive.
	ToleranceMeters float64
}

// An alternative that was left out of the ranking and why.
type SkippedAlternative struct {
	Index  int
	Label  string
	Reason string
}

// TripComparison is everything the rendering and export layers need for
// one request.
type TripComparison struct {
	ComparisonID     int64
	OriginLabel      string
	DestinationLabel string
	Origin           domain.GeoPoint
	Destination      domain.GeoPoint
	Alternatives     []domain.RouteAlternative // valid alternatives only
	Comparison       *domain.RankedComparison
	Combined         *CombinedPath
	Skipped          []SkippedAlternative
}

// Compare every route the provider offers between two places.
//
// Invalid alternatives are skipped and reported rather than aborting the
// whole comparison; the request fails only when nothing is left to rank.
// A nil repo disables persistence. Persistence failures are logged and do
// not fail the request.
func CompareTrip(
	ctx context.Context,
	req TripRequest,
	geocoder ports.Geocoder,
	provider ports.RouteProvider,
	repo ports.ComparisonRepository,
) (_ *TripComparison, err error) {
	defer obs.Time(ctx, "trip.Compare")(&err)

	if !req.Metric.Valid() {
		return nil, fmt.Errorf("compare trip: %w: unsupported metric %q", ErrInvalidTrip, req.Metric)
	}
	if provider == nil {
		return nil, errors.New("compare trip: provider must be non-nil")
	}

	origin, destination, err := resolveEndpoints(ctx, req, geocoder)
	if err != nil {
		return nil, fmt.Errorf("compare trip: %w", err)
	}

	alts, err := provider.GetRoutes(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("compare trip: get routes: %w", err)
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("compare trip: %w", domain.ErrEmptyInput)
	}

	valid := make([]domain.RouteAlternative, 0, len(alts))
	validIdx := make([]int, 0, len(alts))
	var skipped []SkippedAlternative
	var firstInvalid error
	for i, alt := range alts {
		if alt.Label == "" {
			alt.Label = fmt.Sprintf("Route %d", i+1)
		}
		if err := alt.ValidateAt(i); err != nil {
			log.Printf("skipping route alternative: index=%d label=%q err=%v", i, alt.Label, err)
			skipped = append(skipped, SkippedAlternative{Index: i, Label: alt.Label, Reason: err.Error()})
			if firstInvalid == nil {
				firstInvalid = err
			}
			continue
		}
		valid = append(valid, alt)
		validIdx = append(validIdx, i)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("compare trip: no valid alternatives: %w", firstInvalid)
	}

	comparison, err := CompareRoutes(valid, req.Metric)
	if err != nil {
		return nil, fmt.Errorf("compare trip: %w", err)
	}
	// Entries and edges report the provider's index, matching Skipped.
	for i := range comparison.Entries {
		comparison.Entries[i].Index = validIdx[comparison.Entries[i].Index]
	}

	opts := []graph.Option{graph.WithRouteIDs(validIdx)}
	if req.ToleranceMeters > 0 {
		opts = append(opts, graph.WithTolerance(req.ToleranceMeters))
	}
	combined, err := BestCombinedPath(valid, req.Metric, opts...)
	if err != nil {
		return nil, fmt.Errorf("compare trip: %w", err)
	}

	out := &TripComparison{
		OriginLabel:      endpointLabel(req.Origin, origin),
		DestinationLabel: endpointLabel(req.Destination, destination),
		Origin:           origin,
		Destination:      destination,
		Alternatives:     valid,
		Comparison:       comparison,
		Combined:         combined,
		Skipped:          skipped,
	}

	if repo != nil {
		id, err := repo.SaveComparison(ctx, domain.ComparisonSummary{
			CreatedAt:   time.Now().UTC(),
			Origin:      out.OriginLabel,
			Destination: out.DestinationLabel,
			Metric:      req.Metric,
			Records:     comparison.Records(),
		})
		if err != nil {
			log.Printf("comparison save failed: origin=%q destination=%q err=%v", out.OriginLabel, out.DestinationLabel, err)
		} else {
			out.ComparisonID = id
		}
	}

	return out, nil
}

// resolveEndpoints geocodes whatever endpoints were not given as coordinates.
func resolveEndpoints(
	ctx context.Context,
	req TripRequest,
	geocoder ports.Geocoder,
) (origin, destination domain.GeoPoint, err error) {
	originAddr := strings.TrimSpace(req.Origin)
	destinationAddr := strings.TrimSpace(req.Destination)

	if req.OriginPoint == nil && originAddr == "" {
		return origin, destination, fmt.Errorf("%w: origin is required", ErrInvalidTrip)
	}
	if req.DestinationPoint == nil && destinationAddr == "" {
		return origin, destination, fmt.Errorf("%w: destination is required", ErrInvalidTrip)
	}

	var pending []string
	if req.OriginPoint != nil {
		origin = *req.OriginPoint
	} else {
		pending = append(pending, originAddr)
	}
	if req.DestinationPoint != nil {
		destination = *req.DestinationPoint
	} else {
		pending = append(pending, destinationAddr)
	}
	if !origin.Valid() || !destination.Valid() {
		return origin, destination, fmt.Errorf("%w: coordinates out of range", ErrInvalidTrip)
	}

	if len(pending) == 0 {
		return origin, destination, nil
	}
	if geocoder == nil {
		return origin, destination, errors.New("resolve endpoints: geocoder is required for addresses")
	}

	resolved, err := geocodeAll(ctx, geocoder, pending)
	if err != nil {
		return origin, destination, fmt.Errorf("resolve endpoints: %w", err)
	}

	if req.OriginPoint == nil {
		origin = resolved[originAddr]
	}
	if req.DestinationPoint == nil {
		destination = resolved[destinationAddr]
	}
	return origin, destination, nil
}

// geocodeAll resolves addresses, preferring a single batched call when the
// geocoder supports it and otherwise running the lookups concurrently.
func geocodeAll(ctx context.Context, geocoder ports.Geocoder, addresses []string) (map[string]domain.GeoPoint, error) {
	if bg, ok := geocoder.(ports.BatchGeocoder); ok {
		out, err := bg.GeocodeMany(ctx, addresses)
		if err != nil {
			return nil, fmt.Errorf("geocode many: %w", err)
		}
		for _, a := range addresses {
			if _, ok := out[a]; !ok {
				return nil, fmt.Errorf("geocode many: missing result for %q", a)
			}
		}
		return out, nil
	}

	points := make([]domain.GeoPoint, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range addresses {
		i, a := i, a // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			p, err := geocoder.Geocode(gctx, a)
			if err != nil {
				return fmt.Errorf("geocode %q: %w", a, err)
			}
			points[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]domain.GeoPoint, len(addresses))
	for i, a := range addresses {
		out[a] = points[i]
	}
	return out, nil
}

func endpointLabel(address string, resolved domain.GeoPoint) string {
	if a := strings.TrimSpace(address); a != "" {
		return a
	}
	return resolved.String()
}
