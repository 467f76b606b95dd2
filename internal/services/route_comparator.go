package services

import (
	"cmp"
	"fmt"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/graph"
	"slices"
)

// Rank route alternatives by their shortest-path weight under metric.
//
// Each alternative is built into its own graph and solved from its first to
// its last waypoint, so an entry's weight never depends on the other
// alternatives. Entries are sorted ascending with a stable sort; weights
// chained within graph.Epsilon of each other are tied and keep their input
// order.
func CompareRoutes(alternatives []domain.RouteAlternative, metric domain.Metric) (*domain.RankedComparison, error) {
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("compare routes: %w", domain.ErrEmptyInput)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("compare routes: unsupported metric %q", metric)
	}

	entries := make([]domain.RankedEntry, 0, len(alternatives))
	for i, alt := range alternatives {
		if err := alt.ValidateAt(i); err != nil {
			return nil, fmt.Errorf("compare routes: %w", err)
		}

		path, err := solveAlternative(alt, metric)
		if err != nil {
			return nil, fmt.Errorf("compare routes: alternative %d: %w", i, err)
		}

		entries = append(entries, domain.RankedEntry{
			Index:       i,
			Alternative: alt,
			Path:        path,
		})
	}

	tier := weightTiers(entries)
	slices.SortStableFunc(entries, func(a, b domain.RankedEntry) int {
		return cmp.Compare(tier[a.Index], tier[b.Index])
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &domain.RankedComparison{Metric: metric, Entries: entries}, nil
}

func solveAlternative(alt domain.RouteAlternative, metric domain.Metric) (domain.PathResult, error) {
	g, err := graph.Build([]domain.RouteAlternative{alt}, metric)
	if err != nil {
		return domain.PathResult{}, err
	}

	origin, destination, err := g.Endpoints(0)
	if err != nil {
		return domain.PathResult{}, err
	}

	return graph.Solve(g, origin, destination)
}

// weightTiers groups entries whose weights chain together within
// graph.Epsilon: sorted by weight, a gap larger than Epsilon starts a new
// tier. Entries sharing a tier are tied. Tiers are keyed by Index.
func weightTiers(entries []domain.RankedEntry) map[int]int {
	byWeight := slices.Clone(entries)
	slices.SortFunc(byWeight, func(a, b domain.RankedEntry) int {
		if c := cmp.Compare(a.Path.TotalWeight, b.Path.TotalWeight); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	tiers := make(map[int]int, len(entries))
	tier := 0
	for i, e := range byWeight {
		if i > 0 && e.Path.TotalWeight-byWeight[i-1].Path.TotalWeight > graph.Epsilon {
			tier++
		}
		tiers[e.Index] = tier
	}
	return tiers
}

// CombinedPath is the shortest path through the graph merging all alternatives.
type CombinedPath struct {
	Graph *graph.Graph
	Path  domain.PathResult
}

// Find the cheapest way from the first alternative's origin to its
// destination when segments of all alternatives may be mixed.
//
// Alternatives share nodes where their waypoints lie within the builder's
// tolerance. The first alternative always connects its own endpoints, so the
// result is never worse than that alternative.
func BestCombinedPath(
	alternatives []domain.RouteAlternative,
	metric domain.Metric,
	opts ...graph.Option,
) (*CombinedPath, error) {
	g, err := graph.Build(alternatives, metric, opts...)
	if err != nil {
		return nil, fmt.Errorf("best combined path: %w", err)
	}

	origin, destination, err := g.Endpoints(0)
	if err != nil {
		return nil, fmt.Errorf("best combined path: %w", err)
	}

	path, err := graph.Solve(g, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("best combined path: solve: %w", err)
	}

	return &CombinedPath{Graph: g, Path: path}, nil
}
