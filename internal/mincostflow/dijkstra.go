package mincostflow

import (
	"container/heap"
	"math"
)

type pqItem struct {
	node     int
	distance float64
	index    int
}

// priorityQueue is a min-heap on distance, tie-broken by node index so
// traversal order (and therefore the augmenting path chosen) is
// deterministic across runs on the same input.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].distance != pq[j].distance {
		return pq[i].distance < pq[j].distance
	}
	return pq[i].node < pq[j].node
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// dijkstraWithPotentials finds shortest distances from source using
// reduced costs c(u,v) + potential[u] - potential[v], which Solve's caller
// guarantees are non-negative for every edge with positive residual
// capacity. Returns the reduced-cost distances (which the caller adds onto
// the potentials) and a parent-edge map for path reconstruction.
func dijkstraWithPotentials(rg *residualGraph, source int, potential []float64, epsilon float64) (dist []float64, parentEdge []*residualEdge) {
	n := rg.n
	dist = make([]float64, n)
	parentEdge = make([]*residualEdge, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0

	pq := &priorityQueue{{node: source, distance: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		top := heap.Pop(pq).(*pqItem)
		u := top.node
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, e := range rg.edgesFrom[u] {
			if e.residual() <= epsilon {
				continue
			}
			reduced := e.cost + potential[u] - potential[e.to]
			// Numerical noise can push reduced costs slightly negative;
			// clamp rather than let Dijkstra's non-negativity assumption
			// silently produce a wrong shortest path.
			if reduced < 0 {
				reduced = 0
			}
			if nd := dist[u] + reduced; nd < dist[e.to]-epsilon {
				dist[e.to] = nd
				parentEdge[e.to] = e
				heap.Push(pq, &pqItem{node: e.to, distance: nd})
			}
		}
	}

	return dist, parentEdge
}
