package graph

import (
	"route-compare-service/internal/domain"
)

// Epsilon is the tolerance used when comparing accumulated weights.
const Epsilon = 1e-6

type frontierItem struct {
	node domain.NodeID
	dist float64
	seq  int
}

// frontier is a binary min-heap ordered by exact distance, then discovery
// sequence. The ordering must stay transitive for container/heap.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
