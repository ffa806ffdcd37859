package solver

import (
	"fmt"

	"github.com/katalvlaran/papermatch/internal/graph"
	"github.com/katalvlaran/papermatch/internal/matrix"
	"github.com/katalvlaran/papermatch/internal/mincostflow"
)

// network is a source -> reviewer -> paper -> sink flow network built over
// a Problem, plus the bookkeeping every flow-based solver needs to apply
// locks before solving and decode assignments after.
type network struct {
	g      *graph.Graph
	source int
	sink   int

	// reviewerNode[r] / paperNode[p] map Problem indices to graph.Graph vertices.
	reviewerNode []int
	paperNode    []int

	// locked holds pairs pre-assigned outside the flow (Constraint == Forced);
	// these consume reviewer/paper capacity but never touch a reviewer->paper
	// edge, so the flow network only has to solve the remainder.
	locked *matrix.Assignment

	// remaining{Min,Max} and remainingDemand are Problem's bounds net of
	// locked assignments; the source/paper-sink edges are capacitated with
	// these, not the raw Problem values.
	remainingMin, remainingMax, remainingDemand []int
}

// buildNetwork lays out source -> reviewer (cap initialReviewerCap[r], or
// remainingMax[r] when initialReviewerCap is nil) -> paper (edge present
// unless Constraint forbids the pair) -> sink (cap remainingDemand[p]).
//
// Reviewer->paper edges for locked pairs are omitted entirely: a lock fixes
// the pair outside the flow problem, exactly as spec.md §4.3 describes
// ("a locked pair is assigned unconditionally and removed from the
// remaining capacity on both sides").
func buildNetwork(prob Problem, initialReviewerCap []int) (*network, error) {
	nr, np := prob.NumReviewers(), prob.NumPapers()
	numNodes := nr + np + 2
	source := nr + np
	sink := nr + np + 1
	g := graph.New(numNodes)

	locked, err := matrix.NewAssignment(nr, np)
	if err != nil {
		return nil, err
	}

	remainingMin := append([]int(nil), prob.Minimum...)
	remainingMax := append([]int(nil), prob.Maximum...)
	remainingDemand := append([]int(nil), prob.Demand...)

	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			if prob.Constraint.At(r, p) == matrix.Forced {
				if err := locked.Set(r, p, true); err != nil {
					return nil, err
				}
				remainingMax[r]--
				if remainingMin[r] > 0 {
					remainingMin[r]--
				}
				remainingDemand[p]--
			}
		}
	}
	for r := 0; r < nr; r++ {
		if remainingMax[r] < 0 || remainingMin[r] < 0 {
			return nil, &NoSolutionError{Reason: "reviewer lock count exceeds maximum load"}
		}
	}
	for p := 0; p < np; p++ {
		if remainingDemand[p] < 0 {
			return nil, &NoSolutionError{Reason: "paper lock count exceeds demand"}
		}
	}

	reviewerNode := make([]int, nr)
	for r := 0; r < nr; r++ {
		reviewerNode[r] = r
		sourceCap := remainingMax[r]
		if initialReviewerCap != nil {
			sourceCap = initialReviewerCap[r]
		}
		if _, err := g.AddEdge(source, r, float64(sourceCap), 0); err != nil {
			return nil, err
		}
	}

	paperNode := make([]int, np)
	for p := 0; p < np; p++ {
		paperNode[p] = nr + p
		if _, err := g.AddEdge(nr+p, sink, float64(remainingDemand[p]), 0); err != nil {
			return nil, err
		}
	}

	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			if locked.At(r, p) || prob.Constraint.At(r, p) == matrix.Forbidden {
				continue
			}
			if _, err := g.AddEdge(r, nr+p, 1, prob.Cost.At(r, p)); err != nil {
				return nil, err
			}
		}
	}

	return &network{
		g:               g,
		source:          source,
		sink:            sink,
		reviewerNode:    reviewerNode,
		paperNode:       paperNode,
		locked:          locked,
		remainingMin:    remainingMin,
		remainingMax:    remainingMax,
		remainingDemand: remainingDemand,
	}, nil
}

// extendReviewerCapacity raises every reviewer's source edge capacity from
// remainingMin[r] to remainingMax[r], preserving whatever flow phase one
// already pushed through it.
func (net *network) extendReviewerCapacity(prob Problem) error {
	for r := 0; r < prob.NumReviewers(); r++ {
		e, err := net.g.Edge(net.source, net.reviewerNode[r])
		if err != nil {
			return err
		}
		e.Capacity = float64(net.remainingMax[r])
	}
	return nil
}

// decode reads the network's realized reviewer->paper flow plus the locked
// pre-assignments into a matrix.Assignment sized to prob.
func (net *network) decode(prob Problem) (*matrix.Assignment, error) {
	nr, np := prob.NumReviewers(), prob.NumPapers()
	assignment, err := matrix.NewAssignment(nr, np)
	if err != nil {
		return nil, err
	}
	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			if net.locked.At(r, p) {
				if err := assignment.Set(r, p, true); err != nil {
					return nil, err
				}
			}
		}
	}
	for r := 0; r < nr; r++ {
		for _, e := range net.g.Neighbors(net.reviewerNode[r]) {
			if e.To == net.sink || e.To < nr || e.To >= nr+np {
				continue
			}
			p := e.To - nr
			if e.Flow > 0.5 {
				if err := assignment.Set(r, p, true); err != nil {
					return nil, err
				}
			}
		}
	}
	return assignment, nil
}

// runMinCostFlowBounds builds a network for prob and solves it in two
// phases: phase 1 saturates every reviewer's minimum exactly (the source
// edge is capacitated to remainingMin[r], so the only way to reach the
// phase-1 target flow, Σremainingmin, is to saturate every one of them);
// phase 2 extends each reviewer's source edge capacity up to
// remainingMax[r] and continues the same flow to Σremainingdemand.
//
// Shared by MinMax (as its entire solve) and FairFlow (as its initial solve
// and its validifier re-solve, over the same unscaled cost matrix).
func runMinCostFlowBounds(prob Problem) (*matrix.Assignment, error) {
	// buildNetwork's initial source-edge capacities are overridden to
	// remainingMin immediately below, once locks have netted them out.
	net, err := buildNetwork(prob, nil)
	if err != nil {
		return nil, err
	}
	return solveNetworkBounds(prob, net)
}

func solveNetworkBounds(prob Problem, net *network) (*matrix.Assignment, error) {
	opts := mincostflow.DefaultOptions()
	opts.Ctx = prob.ctx()

	phase1Target := sum(net.remainingMin)
	if phase1Target > 0 {
		for r := 0; r < prob.NumReviewers(); r++ {
			e, err := net.g.Edge(net.source, net.reviewerNode[r])
			if err != nil {
				return nil, err
			}
			e.Capacity = float64(net.remainingMin[r])
		}
		res, err := mincostflow.Solve(net.g, net.source, net.sink, float64(phase1Target), opts)
		if err != nil {
			return nil, err
		}
		if res.Canceled {
			return nil, ErrCanceled
		}
		if res.Flow+1e-6 < float64(phase1Target) {
			return nil, &NoSolutionError{Reason: fmt.Sprintf(
				"cannot satisfy every reviewer's minimum load: saturated %.0f of %d required", res.Flow, phase1Target)}
		}
	}

	if err := net.extendReviewerCapacity(prob); err != nil {
		return nil, err
	}
	phase2Target := sum(net.remainingDemand)
	res, err := mincostflow.Solve(net.g, net.source, net.sink, float64(phase2Target), opts)
	if err != nil {
		return nil, err
	}
	if res.Canceled {
		return nil, ErrCanceled
	}
	if res.Flow+1e-6 < float64(phase2Target) {
		return nil, &NoSolutionError{Reason: fmt.Sprintf(
			"cannot satisfy every paper's demand within reviewer load bounds: matched %.0f of %d required", res.Flow, phase2Target)}
	}

	return net.decode(prob)
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
