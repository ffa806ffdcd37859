// MinMax is the baseline solver: a single min-cost flow solve over the
// reviewer/paper bipartite network, in two phases so that per-reviewer
// minimum load is satisfied exactly before the remaining capacity (up to
// maximum) is opened up to reach total demand.
//
// Grounded on lvlath's flow-network construction style (internal/graph +
// internal/mincostflow built on top of it) and original_source/matcher/solvers/minmax.py,
// which runs ortools' min-cost flow once over a source/reviewer/paper/sink
// network with reviewer lower bounds; this module's two-phase approach
// (saturate minimums first, then extend to maximum) substitutes for
// ortools' native supply lower-bound support, which Go's ecosystem has no
// equivalent of.
package solver

import "github.com/katalvlaran/papermatch/internal/matrix"

type minMaxSolver struct {
	prob Problem
}

func (s *minMaxSolver) Solve() (*matrix.Assignment, error) {
	if s.prob.canceled() {
		return nil, ErrCanceled
	}
	return runMinCostFlowBounds(s.prob)
}
