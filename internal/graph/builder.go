package graph

import (
	"fmt"
	"math"
	"route-compare-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/quadtree"
)

// DefaultToleranceMeters is the distance below which waypoints of different
// alternatives are merged into one node.
const DefaultToleranceMeters = 5.0

var worldBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

type options struct {
	tolerance float64
	routeIDs  []int
}

type Option func(*options)

// WithTolerance sets the node deduplication radius in meters.
// Zero disables deduplication.
func WithTolerance(meters float64) Option {
	return func(o *options) { o.tolerance = meters }
}

// WithRouteIDs sets the value stored in Edge.Route for each alternative.
// ids[i] belongs to alternatives[i]; by default Edge.Route is the position.
func WithRouteIDs(ids []int) Option {
	return func(o *options) { o.routeIDs = ids }
}

// nodeRef is a quadtree entry for a node and the alternative that created it.
type nodeRef struct {
	id    domain.NodeID
	route int
	pt    orb.Point
}

func (r *nodeRef) Point() orb.Point { return r.pt }

// Build converts route alternatives into one directed graph weighted by metric.
//
// Consecutive waypoints become edges weighted with the provider's per-segment
// metric. Waypoints closer than the tolerance to a node created by another
// alternative reuse that node, so overlapping alternatives share nodes.
// Within a single alternative every waypoint gets its own node.
func Build(alternatives []domain.RouteAlternative, metric domain.Metric, opts ...Option) (*Graph, error) {
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("build graph: %w", domain.ErrEmptyInput)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("build graph: unsupported metric %q", metric)
	}

	o := options{tolerance: DefaultToleranceMeters}
	for _, opt := range opts {
		opt(&o)
	}
	if math.IsNaN(o.tolerance) || math.IsInf(o.tolerance, 0) || o.tolerance < 0 {
		return nil, fmt.Errorf("build graph: invalid tolerance %v", o.tolerance)
	}

	if o.routeIDs != nil && len(o.routeIDs) != len(alternatives) {
		return nil, fmt.Errorf("build graph: %d route ids for %d alternatives", len(o.routeIDs), len(alternatives))
	}

	// Reject the whole input before allocating anything.
	for i, alt := range alternatives {
		if err := alt.ValidateAt(i); err != nil {
			return nil, fmt.Errorf("build graph: %w", err)
		}
	}

	g := &Graph{
		metric: metric,
		routes: make([][]domain.NodeID, 0, len(alternatives)),
	}
	index := quadtree.New(worldBound)

	for route, alt := range alternatives {
		routeID := route
		if o.routeIDs != nil {
			routeID = o.routeIDs[route]
		}
		used := make(map[domain.NodeID]struct{}, len(alt.Waypoints))
		ids := make([]domain.NodeID, 0, len(alt.Waypoints))

		for _, p := range alt.Waypoints {
			id, ok := o.match(index, p, route, used)
			if !ok {
				id = g.addNode(p)
				if err := index.Add(&nodeRef{id: id, route: route, pt: p.Point()}); err != nil {
					return nil, fmt.Errorf("build graph: index node %d at %s: %w", id, p, err)
				}
			}
			used[id] = struct{}{}
			ids = append(ids, id)
		}

		for i, seg := range alt.Segments {
			g.addEdge(domain.Edge{
				From:   ids[i],
				To:     ids[i+1],
				Weight: seg.Weight(metric),
				Label:  seg.Label,
				Route:  routeID,
			})
		}
		g.routes = append(g.routes, ids)
	}

	return g, nil
}

// match finds the closest node created by another alternative within the
// tolerance that the current alternative has not used yet.
// Equal distances resolve to the lowest node ID.
func (o options) match(
	index *quadtree.Quadtree,
	p domain.GeoPoint,
	route int,
	used map[domain.NodeID]struct{},
) (domain.NodeID, bool) {
	if o.tolerance <= 0 {
		return 0, false
	}

	// Pad the search box; the exact cut is the haversine check below.
	box := geo.NewBoundAroundPoint(p.Point(), o.tolerance*1.5)
	candidates := index.InBoundMatching(nil, box, func(ptr orb.Pointer) bool {
		ref := ptr.(*nodeRef)
		if ref.route == route {
			return false
		}
		_, taken := used[ref.id]
		return !taken
	})

	var (
		best     domain.NodeID
		bestDist = math.Inf(1)
		found    bool
	)
	for _, c := range candidates {
		ref := c.(*nodeRef)
		d := geo.DistanceHaversine(p.Point(), ref.pt)
		if d >= o.tolerance {
			continue
		}
		if d < bestDist || (d == bestDist && ref.id < best) {
			best, bestDist, found = ref.id, d, true
		}
	}
	return best, found
}
