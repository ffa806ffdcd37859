package mincostflow

import (
	"errors"
	"math"

	"github.com/katalvlaran/papermatch/internal/graph"
)

// ErrNegativeCycle is returned when the network contains a negative-cost
// cycle reachable from the source, making min-cost flow undefined. This
// should never occur for networks assembled by internal/solver.
var ErrNegativeCycle = errors.New("mincostflow: negative cost cycle")

// Result reports the outcome of a min-cost flow computation.
type Result struct {
	Flow       float64
	Cost       float64
	Iterations int
	Canceled   bool
}

// Solve computes the minimum-cost flow of at most requiredFlow units from
// source to sink in g, mutating g's edges' Flow fields in place and
// returning the realized flow/cost. Pass math.MaxFloat64 for requiredFlow
// to compute min-cost maximum flow.
func Solve(g *graph.Graph, source, sink int, requiredFlow float64, opts Options) (Result, error) {
	opts.normalize(g.N())
	rg := fromGraph(g)
	res, err := solveResidual(rg, source, sink, requiredFlow, opts)
	if err != nil {
		return res, err
	}
	writeBack(g, rg)
	return res, nil
}

// writeBack copies the realized flow on every original edge from the
// residual graph back onto the *graph.Edge it was built from.
func writeBack(g *graph.Graph, rg *residualGraph) {
	for u := 0; u < rg.n; u++ {
		for _, e := range rg.edgesFrom[u] {
			if e.orig != nil {
				e.orig.Flow = e.flow
			}
		}
	}
}

// solveResidual runs the successive-shortest-path loop against an
// already-built residual graph.
func solveResidual(rg *residualGraph, source, sink int, requiredFlow float64, opts Options) (Result, error) {
	potential := make([]float64, rg.n)
	dist, ok := bellmanFord(rg, source, opts.Epsilon)
	if !ok {
		return Result{}, ErrNegativeCycle
	}
	for v := 0; v < rg.n; v++ {
		if !math.IsInf(dist[v], 1) {
			potential[v] = dist[v]
		}
	}

	var totalFlow, totalCost float64
	iterations := 0

	for totalFlow < requiredFlow-opts.Epsilon {
		if iterations%32 == 0 {
			select {
			case <-opts.Ctx.Done():
				return Result{Flow: totalFlow, Cost: totalCost, Iterations: iterations, Canceled: true}, nil
			default:
			}
		}

		if iterations > 0 && iterations%opts.ReinitInterval == 0 {
			d, ok := bellmanFord(rg, source, opts.Epsilon)
			if !ok {
				return Result{}, ErrNegativeCycle
			}
			for v := 0; v < rg.n; v++ {
				if !math.IsInf(d[v], 1) {
					potential[v] = d[v]
				}
			}
		}

		dist, parentEdge := dijkstraWithPotentials(rg, source, potential, opts.Epsilon)
		if math.IsInf(dist[sink], 1) {
			break // no augmenting path remains: flow is maximal
		}
		for v := 0; v < rg.n; v++ {
			if !math.IsInf(dist[v], 1) {
				potential[v] += dist[v]
			}
		}

		// Reconstruct the path by walking parent edges back from sink.
		var path []*residualEdge
		for v := sink; v != source; {
			e := parentEdge[v]
			if e == nil {
				break
			}
			path = append(path, e)
			v = e.reverse.to
		}
		if len(path) == 0 {
			break
		}

		bottleneck := requiredFlow - totalFlow
		for _, e := range path {
			if r := e.residual(); r < bottleneck {
				bottleneck = r
			}
		}
		if bottleneck <= opts.Epsilon {
			break
		}

		var pathCost float64
		for _, e := range path {
			pathCost += e.cost * bottleneck
			e.push(bottleneck)
		}

		totalFlow += bottleneck
		totalCost += pathCost
		iterations++
	}

	return Result{Flow: totalFlow, Cost: totalCost, Iterations: iterations}, nil
}
