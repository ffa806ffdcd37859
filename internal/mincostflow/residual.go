package mincostflow

import "github.com/katalvlaran/papermatch/internal/graph"

// residualEdge is a forward/backward pair sharing the same *graph.Edge for
// the forward direction, and a synthetic reverse tracked alongside it. We
// keep our own light copy (rather than mutating graph.Edge directly for
// the reverse side) so callers can read the original graph's Flow values
// back out after Solve returns.
type residualEdge struct {
	to       int
	cost     float64
	capacity float64
	flow     float64
	reverse  *residualEdge
	orig     *graph.Edge // nil for synthetic reverse/auxiliary edges
}

func (e *residualEdge) residual() float64 { return e.capacity - e.flow }

func (e *residualEdge) push(amount float64) {
	e.flow += amount
	e.reverse.flow -= amount
}

// residualGraph is the working copy Solve augments paths against. It is
// built once from a *graph.Graph and discarded after Solve reconciles flow
// back onto the original edges.
type residualGraph struct {
	n         int
	edgesFrom [][]*residualEdge
}

func newResidualGraph(n int) *residualGraph {
	return &residualGraph{n: n, edgesFrom: make([][]*residualEdge, n)}
}

// addArc installs a forward capacity/cost edge and its zero-capacity,
// negative-cost reverse twin.
func (rg *residualGraph) addArc(u, v int, capacity, cost float64, orig *graph.Edge) *residualEdge {
	fwd := &residualEdge{to: v, cost: cost, capacity: capacity, orig: orig}
	bwd := &residualEdge{to: u, cost: -cost, capacity: 0}
	fwd.reverse = bwd
	bwd.reverse = fwd
	rg.edgesFrom[u] = append(rg.edgesFrom[u], fwd)
	rg.edgesFrom[v] = append(rg.edgesFrom[v], bwd)
	return fwd
}

// fromGraph builds a residualGraph mirroring g 1:1 (no auxiliary nodes),
// with zero flow on every arc: g's existing Flow values are not carried in.
func fromGraph(g *graph.Graph) *residualGraph {
	n := g.N()
	rg := newResidualGraph(n)
	for _, e := range g.Edges() {
		rg.addArc(e.From, e.To, e.Capacity, e.Cost, e)
	}
	return rg
}
