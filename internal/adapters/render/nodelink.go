package render

import (
	"route-compare-service/internal/domain"
	"route-compare-service/internal/graph"
)

type NodeLinkNode struct {
	ID  domain.NodeID `json:"id"`
	Lat float64       `json:"lat"`
	Lon float64       `json:"lon"`
}

type NodeLinkLink struct {
	Source domain.NodeID `json:"source"`
	Target domain.NodeID `json:"target"`
	Weight float64       `json:"weight"`
	Label  string        `json:"label,omitempty"`
	Route  int           `json:"route"`
	OnPath bool          `json:"on_path"`
}

// NodeLink is a node-link graph document in the layout graph viewers
// (d3-force, networkx) read.
type NodeLink struct {
	Directed   bool            `json:"directed"`
	Multigraph bool            `json:"multigraph"`
	Metric     domain.Metric   `json:"metric"`
	Nodes      []NodeLinkNode  `json:"nodes"`
	Links      []NodeLinkLink  `json:"links"`
	Path       []domain.NodeID `json:"path,omitempty"`
}

// GraphDocument lists every node and edge of g. Edges that belong to path
// are flagged; path may be nil.
func GraphDocument(g *graph.Graph, path *domain.PathResult) NodeLink {
	doc := NodeLink{
		Directed:   true,
		Multigraph: true,
		Metric:     g.Metric(),
		Nodes:      make([]NodeLinkNode, 0, g.NodeCount()),
		Links:      make([]NodeLinkLink, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeLinkNode{ID: n.ID, Lat: n.Point.Lat, Lon: n.Point.Lon})
	}

	onPath := map[domain.Edge]bool{}
	if path != nil {
		for _, e := range path.Edges {
			onPath[e] = true
		}
		for _, n := range path.Nodes {
			doc.Path = append(doc.Path, n.ID)
		}
	}

	for _, e := range g.Edges() {
		doc.Links = append(doc.Links, NodeLinkLink{
			Source: e.From,
			Target: e.To,
			Weight: e.Weight,
			Label:  e.Label,
			Route:  e.Route,
			OnPath: onPath[e],
		})
	}

	return doc
}
