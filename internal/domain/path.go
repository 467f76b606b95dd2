package domain

// NodeID identifies a node inside one graph. IDs are assigned in insertion
// order, so identical input always produces identical IDs.
type NodeID int

// A graph node: one waypoint, possibly shared by several route alternatives.
type Node struct {
	ID    NodeID
	Point GeoPoint
}

// A directed segment between two nodes.
// Weight is measured in the graph's single metric and is never negative.
// Route is the index of the alternative that contributed the segment.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight float64
	Label  string
	Route  int
}

// The output of a shortest-path computation, ordered from origin to destination.
// Edges[i] connects Nodes[i] and Nodes[i+1].
type PathResult struct {
	Metric      Metric
	Nodes       []Node
	Edges       []Edge
	TotalWeight float64
}

// Points returns the coordinates along the path.
func (p PathResult) Points() []GeoPoint {
	out := make([]GeoPoint, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		out = append(out, n.Point)
	}
	return out
}
