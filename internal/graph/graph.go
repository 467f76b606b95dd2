// Package graph builds directed weighted graphs from route alternatives and
// runs shortest-path queries over them.
package graph

import (
	"fmt"
	"route-compare-service/internal/domain"
	"slices"
)

// Graph is a directed multigraph of waypoints and segments.
// It is populated once by Build and is read-only afterwards; accessors
// return copies so callers cannot mutate it.
type Graph struct {
	metric domain.Metric
	nodes  []domain.Node
	edges  []domain.Edge
	out    [][]int
	routes [][]domain.NodeID
}

func (g *Graph) Metric() domain.Metric { return g.metric }
func (g *Graph) NodeCount() int        { return len(g.nodes) }
func (g *Graph) EdgeCount() int        { return len(g.edges) }
func (g *Graph) RouteCount() int       { return len(g.routes) }

// Nodes returns all nodes ordered by ID.
func (g *Graph) Nodes() []domain.Node { return slices.Clone(g.nodes) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []domain.Edge { return slices.Clone(g.edges) }

func (g *Graph) Node(id domain.NodeID) (domain.Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return domain.Node{}, false
	}
	return g.nodes[id], true
}

// OutEdges returns the edges leaving id in insertion order.
func (g *Graph) OutEdges(id domain.NodeID) []domain.Edge {
	if _, ok := g.Node(id); !ok {
		return nil
	}
	out := make([]domain.Edge, 0, len(g.out[id]))
	for _, ei := range g.out[id] {
		out = append(out, g.edges[ei])
	}
	return out
}

// RouteNodes returns the node sequence of the route-th alternative.
func (g *Graph) RouteNodes(route int) []domain.NodeID {
	if route < 0 || route >= len(g.routes) {
		return nil
	}
	return slices.Clone(g.routes[route])
}

// Endpoints returns the first and last node of the route-th alternative.
func (g *Graph) Endpoints(route int) (origin, destination domain.Node, err error) {
	if route < 0 || route >= len(g.routes) {
		return domain.Node{}, domain.Node{}, fmt.Errorf("graph endpoints: route %d out of range [0,%d)", route, len(g.routes))
	}
	ids := g.routes[route]
	return g.nodes[ids[0]], g.nodes[ids[len(ids)-1]], nil
}

func (g *Graph) contains(n domain.Node) bool {
	stored, ok := g.Node(n.ID)
	return ok && stored.Point == n.Point
}

func (g *Graph) addNode(p domain.GeoPoint) domain.NodeID {
	id := domain.NodeID(len(g.nodes))
	g.nodes = append(g.nodes, domain.Node{ID: id, Point: p})
	g.out = append(g.out, nil)
	return id
}

func (g *Graph) addEdge(e domain.Edge) {
	g.out[e.From] = append(g.out[e.From], len(g.edges))
	g.edges = append(g.edges, e)
}
