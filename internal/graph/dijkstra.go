package graph

import (
	"container/heap"
	"errors"
	"math"
	"route-compare-service/internal/domain"
)

// Solve returns the minimum-weight path from origin to destination.
//
// Equal frontier distances are resolved by discovery order, and a tentative
// distance only replaces the current one when it is smaller by more than
// Epsilon, so repeated runs on the same graph return the same path. Edge weights must be non-negative.
func Solve(g *Graph, origin, destination domain.Node) (domain.PathResult, error) {
	if g == nil {
		return domain.PathResult{}, errors.New("solve: graph must be non-nil")
	}
	if !g.contains(origin) {
		return domain.PathResult{}, &domain.UnknownNodeError{Node: origin.ID}
	}
	if !g.contains(destination) {
		return domain.PathResult{}, &domain.UnknownNodeError{Node: destination.ID}
	}

	n := len(g.nodes)
	dist := make([]float64, n)
	prev := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}

	seq := 0
	dist[origin.ID] = 0
	f := &frontier{}
	heap.Push(f, frontierItem{node: origin.ID, dist: 0, seq: seq})

	for f.Len() > 0 {
		cur := heap.Pop(f).(frontierItem)
		if done[cur.node] {
			continue
		}
		done[cur.node] = true
		if cur.node == destination.ID {
			break
		}

		for _, ei := range g.out[cur.node] {
			e := g.edges[ei]
			if done[e.To] {
				continue
			}
			candidate := dist[cur.node] + e.Weight
			if candidate < dist[e.To]-Epsilon {
				dist[e.To] = candidate
				prev[e.To] = ei
				seq++
				heap.Push(f, frontierItem{node: e.To, dist: candidate, seq: seq})
			}
		}
	}

	if !done[destination.ID] {
		return domain.PathResult{}, &domain.UnreachableError{From: origin.ID, To: destination.ID}
	}

	// Walk predecessor edges back from the destination.
	var edges []domain.Edge
	for at := destination.ID; at != origin.ID; {
		e := g.edges[prev[at]]
		edges = append(edges, e)
		at = e.From
	}

	nodes := make([]domain.Node, 0, len(edges)+1)
	path := make([]domain.Edge, 0, len(edges))
	nodes = append(nodes, g.nodes[origin.ID])
	for i := len(edges) - 1; i >= 0; i-- {
		path = append(path, edges[i])
		nodes = append(nodes, g.nodes[edges[i].To])
	}

	return domain.PathResult{
		Metric:      g.metric,
		Nodes:       nodes,
		Edges:       path,
		TotalWeight: dist[destination.ID],
	}, nil
}
