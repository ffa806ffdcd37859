package mincostflow

import "math"

// bellmanFord computes shortest distances from source over g's current
// residual edges (capacity-epsilon > 0), tolerating negative costs.
// Returns ok=false if a negative cycle is reachable from source, which
// should never happen for the networks built by internal/solver — a
// reachable negative cycle there would mean an accounting bug upstream.
func bellmanFord(rg *residualGraph, source int, epsilon float64) (dist []float64, ok bool) {
	n := rg.n
	dist = make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0

	for i := 0; i < n-1; i++ {
		relaxed := false
		for u := 0; u < n; u++ {
			if math.IsInf(dist[u], 1) {
				continue
			}
			for _, e := range rg.edgesFrom[u] {
				if e.residual() <= epsilon {
					continue
				}
				if nd := dist[u] + e.cost; nd < dist[e.to]-epsilon {
					dist[e.to] = nd
					relaxed = true
				}
			}
		}
		if !relaxed {
			break
		}
	}

	// One more pass: if anything still relaxes, there is a negative cycle.
	for u := 0; u < n; u++ {
		if math.IsInf(dist[u], 1) {
			continue
		}
		for _, e := range rg.edgesFrom[u] {
			if e.residual() <= epsilon {
				continue
			}
			if dist[u]+e.cost < dist[e.to]-epsilon {
				return dist, false
			}
		}
	}

	return dist, true
}
