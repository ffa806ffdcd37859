// FairFlow approximates a makespan-optimal assignment: the largest feasible
// floor on any paper's total reviewer score. It binary-searches the
// makespan value, and at each candidate value repeatedly partitions papers
// into three groups by their current score relative to the candidate and
// routes reviewers from well-served papers (G1) to under-served ones (G3)
// through a small flow network, until G3 is empty or stops shrinking.
//
// Grounded on original_source/matcher/solvers/fairflow.py (Gairing et al.
// 2004/2007 adaptation). The original scales costs to integers for
// ortools' SimpleMinCostFlow (big_c/bigger_c); internal/mincostflow takes
// real-valued costs directly, so this port keeps the same preference
// ordering (reward a G3 assignment that would clear the makespan floor
// more than one that wouldn't) without the integer scaling trick.
package solver

import (
	"math"

	"github.com/katalvlaran/papermatch/internal/graph"
	"github.com/katalvlaran/papermatch/internal/matrix"
	"github.com/katalvlaran/papermatch/internal/mincostflow"
)

type fairFlowSolver struct {
	prob Problem
}

func (s *fairFlowSolver) Solve() (*matrix.Assignment, error) {
	prob := s.prob
	if prob.canceled() {
		return nil, ErrCanceled
	}

	maxAffinity := 0.0
	for r := 0; r < prob.NumReviewers(); r++ {
		for p := 0; p < prob.NumPapers(); p++ {
			if prob.Aggregate.At(r, p) > maxAffinity {
				maxAffinity = prob.Aggregate.At(r, p)
			}
		}
	}
	if maxAffinity == 0 {
		// Every affinity is zero: makespan refinement has nothing to
		// optimize over, so a plain min-cost flow is the whole answer.
		return runMinCostFlowBounds(prob)
	}

	ff := &fairFlowRun{prob: prob, maxAffinity: maxAffinity}
	makespan, err := ff.findMakespan()
	if err != nil {
		return nil, err
	}

	solution, err := runMinCostFlowBounds(prob)
	if err != nil {
		return nil, err
	}
	s1, s3, err := ff.improveToFixedPoint(solution, makespan)
	_ = s1
	if err != nil {
		return nil, err
	}
	_ = s3
	return solution, nil
}

type fairFlowRun struct {
	prob        Problem
	maxAffinity float64
}

func paperScore(prob Problem, solution *matrix.Assignment, p int) float64 {
	total := 0.0
	for r := 0; r < prob.NumReviewers(); r++ {
		if solution.At(r, p) {
			total += prob.Aggregate.At(r, p)
		}
	}
	return total
}

// groupPapers partitions papers into g1 (score >= makespan), g2 (between
// makespan and makespan-maxAffinity), g3 (below that floor).
func (ff *fairFlowRun) groupPapers(solution *matrix.Assignment, makespan float64) (g1, g2, g3 []int) {
	for p := 0; p < ff.prob.NumPapers(); p++ {
		score := paperScore(ff.prob, solution, p)
		switch {
		case score >= makespan:
			g1 = append(g1, p)
		case score >= makespan-ff.maxAffinity:
			g2 = append(g2, p)
		default:
			g3 = append(g3, p)
		}
	}
	return g1, g2, g3
}

// unassignWorstReviewer drops the lowest-affinity assigned reviewer from
// each paper in papers, mutating solution in place.
func unassignWorstReviewer(prob Problem, solution *matrix.Assignment, papers []int) error {
	for _, p := range papers {
		worst, worstScore := -1, math.Inf(1)
		for r := 0; r < prob.NumReviewers(); r++ {
			if solution.At(r, p) && prob.Aggregate.At(r, p) < worstScore {
				worst, worstScore = r, prob.Aggregate.At(r, p)
			}
		}
		if worst >= 0 {
			if err := solution.Set(worst, p, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// solveValidifier restores feasibility of a partial solution: it nets the
// solution's current loads out of the quota bounds and routes the
// remaining flow, preserving every existing assignment.
func solveValidifier(prob Problem, solution *matrix.Assignment) (*matrix.Assignment, error) {
	nr, np := prob.NumReviewers(), prob.NumPapers()
	sub := prob
	sub.Minimum = make([]int, nr)
	sub.Maximum = make([]int, nr)
	for r := 0; r < nr; r++ {
		load := solution.ReviewerLoad(r)
		sub.Minimum[r] = maxInt(prob.Minimum[r]-load, 0)
		sub.Maximum[r] = maxInt(prob.Maximum[r]-load, 0)
	}
	sub.Demand = make([]int, np)
	for p := 0; p < np; p++ {
		sub.Demand[p] = maxInt(prob.Demand[p]-solution.PaperLoad(p), 0)
	}
	// Forbid already-assigned pairs in the sub-problem (they're accounted
	// for outside the flow) by overlaying a constraint copy.
	constraint, err := matrix.NewConstraint(nr, np)
	if err != nil {
		return nil, err
	}
	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			v := prob.Constraint.At(r, p)
			if solution.At(r, p) {
				v = matrix.Forbidden
			}
			if err := constraint.Set(r, p, v); err != nil {
				return nil, err
			}
		}
	}
	sub.Constraint = constraint

	residual, err := runMinCostFlowBounds(sub)
	if err != nil {
		return nil, err
	}
	merged, err := matrix.NewAssignment(nr, np)
	if err != nil {
		return nil, err
	}
	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			if solution.At(r, p) || residual.At(r, p) {
				if err := merged.Set(r, p, true); err != nil {
					return nil, err
				}
			}
		}
	}
	return merged, nil
}

// tryImproveMakespan runs one round of the G1->G3 reassignment and returns
// the resulting |g1|, |g3| so the caller can detect convergence.
func (ff *fairFlowRun) tryImproveMakespan(solution *matrix.Assignment, makespan float64) (int, int, error) {
	prob := ff.prob
	needsValidation := false
	for p := 0; p < prob.NumPapers(); p++ {
		if solution.PaperLoad(p) != prob.Demand[p] {
			needsValidation = true
			break
		}
	}
	if needsValidation {
		merged, err := solveValidifier(prob, solution)
		if err != nil {
			return 0, 0, err
		}
		*solution = *merged
	}

	g1, g2, g3 := ff.groupPapers(solution, makespan)
	oldG3 := len(g3)
	if len(g1) == 0 || len(g3) == 0 {
		return len(g1), len(g3), nil
	}

	if err := unassignWorstReviewer(prob, solution, g3); err != nil {
		return 0, 0, err
	}

	if err := ff.runImprovementNetwork(solution, makespan, g1, g2, g3); err != nil {
		return 0, 0, err
	}

	merged, err := solveValidifier(prob, solution)
	if err != nil {
		return 0, 0, err
	}
	*solution = *merged

	_, _, newG3 := ff.groupPapers(solution, makespan)
	if len(newG3) > oldG3 {
		return 0, 0, &InternalError{Reason: "the lowest-scoring paper group grew across an improvement round"}
	}
	g1, _, g3 = ff.groupPapers(solution, makespan)
	return len(g1), len(g3), nil
}

// runImprovementNetwork builds and solves the small flow network that
// routes one reassignment from each G1 paper toward a G3 paper, possibly
// via an intermediate G2 paper whose own reviewer set must not cross the
// makespan floor in the process.
func (ff *fairFlowRun) runImprovementNetwork(solution *matrix.Assignment, makespan float64, g1, g2, g3 []int) error {
	prob := ff.prob
	nr, np := prob.NumReviewers(), prob.NumPapers()
	// node layout: [0,nr) reviewers, [nr,nr+np) papers, source=nr+np,
	// sink=nr+np+1, [nr+np+2, nr+np+2+np) per-paper G2 dummy nodes.
	source := nr + np
	sink := nr + np + 1
	dummyBase := nr + np + 2
	g := graph.New(nr + 2*np + 2)

	needsAssignment := 0
	for _, p := range g3 {
		if prob.Demand[p] > 0 {
			if _, err := g.AddEdge(nr+p, sink, 1, 0); err != nil {
				return err
			}
			needsAssignment++
		}
	}
	for _, p := range g1 {
		if _, err := g.AddEdge(source, nr+p, 1, 0); err != nil {
			return err
		}
	}
	for _, p := range g2 {
		if _, err := g.AddEdge(dummyBase+p, nr+p, 1, 0); err != nil {
			return err
		}
	}

	pScore := make([]float64, np)
	for p := 0; p < np; p++ {
		pScore[p] = paperScore(prob, solution, p)
	}

	assignmentToGive := make(map[int]bool)
	minIncoming := make(map[int]float64)
	haveMinIncoming := make(map[int]bool)
	added := make(map[int]bool)
	for _, p1 := range g1 {
		for r := 0; r < nr; r++ {
			if !solution.At(r, p1) {
				continue
			}
			if _, err := g.AddEdge(nr+p1, r, 1, 0); err != nil {
				return err
			}
			assignmentToGive[r] = true
			if added[r] {
				continue
			}
			added[r] = true
			for _, p2 := range g2 {
				if solution.At(r, p2) || prob.Constraint.At(r, p2) == matrix.Forbidden {
					continue
				}
				aff := prob.Aggregate.At(r, p2)
				if !prob.AllowZeroScore && aff == 0 {
					continue
				}
				if _, err := g.AddEdge(r, dummyBase+p2, 1, 0); err != nil {
					return err
				}
				if !haveMinIncoming[p2] || aff < minIncoming[p2] {
					minIncoming[p2] = aff
					haveMinIncoming[p2] = true
				}
			}
		}
	}
	for _, p2 := range g2 {
		minIn, seen := minIncoming[p2]
		if !seen {
			continue
		}
		for r := 0; r < nr; r++ {
			if !solution.At(r, p2) {
				continue
			}
			aff := prob.Aggregate.At(r, p2)
			lowerBound := pScore[p2] + minIn - aff
			if makespan-ff.maxAffinity <= lowerBound {
				if _, err := g.AddEdge(nr+p2, r, 1, 0); err != nil {
					return err
				}
				assignmentToGive[r] = true
			}
		}
	}
	for r := range assignmentToGive {
		for _, p3 := range g3 {
			if solution.At(r, p3) || prob.Constraint.At(r, p3) == matrix.Forbidden {
				continue
			}
			aff := prob.Aggregate.At(r, p3)
			if !prob.AllowZeroScore && aff == 0 {
				continue
			}
			cost := -aff
			if aff+pScore[p3] >= makespan-ff.maxAffinity {
				cost -= 1e6 // reward assignments that would lift the paper clear of G3
			}
			if _, err := g.AddEdge(r, nr+p3, 1, cost); err != nil {
				return err
			}
		}
	}

	flowTarget := minInt(needsAssignment, len(g1))
	if flowTarget <= 0 {
		return nil
	}
	opts := mincostflow.DefaultOptions()
	opts.Ctx = prob.ctx()
	res, err := mincostflow.Solve(g, source, sink, float64(flowTarget), opts)
	if err != nil {
		return err
	}
	if res.Canceled {
		return ErrCanceled
	}

	for _, p1 := range g1 {
		for _, e := range g.Neighbors(nr + p1) {
			if e.To < nr && e.Flow > 0.5 {
				if err := solution.Set(e.To, p1, false); err != nil {
					return err
				}
			}
		}
	}
	for r := 0; r < nr; r++ {
		for _, e := range g.Neighbors(r) {
			if e.Flow <= 0.5 {
				continue
			}
			switch {
			case e.To >= dummyBase:
				p2 := e.To - dummyBase
				if err := solution.Set(r, p2, true); err != nil {
					return err
				}
			case e.To >= nr && e.To < nr+np:
				p3 := e.To - nr
				if err := solution.Set(r, p3, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// improveToFixedPoint repeats tryImproveMakespan until G3 stops shrinking.
func (ff *fairFlowRun) improveToFixedPoint(solution *matrix.Assignment, makespan float64) (int, int, error) {
	s1, s3, err := ff.tryImproveMakespan(solution, makespan)
	if err != nil {
		return 0, 0, err
	}
	prevS1, prevS3 := -1, -1
	for s3 > 0 && (prevS1 != s1 || prevS3 != s3) {
		prevS1, prevS3 = s1, s3
		s1, s3, err = ff.tryImproveMakespan(solution, makespan)
		if err != nil {
			return 0, 0, err
		}
	}
	return s1, s3, nil
}

// findMakespan binary-searches for the largest feasible makespan floor
// over 10 iterations, returning the best value found (0 if none improved
// on the trivial floor).
func (ff *fairFlowRun) findMakespan() (float64, error) {
	prob := ff.prob
	sumDemand := sum(prob.Demand)
	lo, hi := 0.0, ff.maxAffinity*float64(sumDemand)
	ms := (hi - lo) / 2
	best := 0.0
	haveBest := false
	bestWorst := 0.0

	for i := 0; i < 10; i++ {
		if prob.canceled() {
			return 0, ErrCanceled
		}
		solution, err := runMinCostFlowBounds(prob)
		success := false
		worst := math.Inf(-1)
		if err == nil {
			_, s3, ierr := ff.improveToFixedPoint(solution, ms)
			if ierr == nil {
				worst = math.Inf(1)
				for p := 0; p < prob.NumPapers(); p++ {
					score := paperScore(prob, solution, p)
					if score < worst {
						worst = score
					}
				}
				zeroFree := true
				if !prob.AllowZeroScore {
					for r := 0; r < prob.NumReviewers(); r++ {
						for p := 0; p < prob.NumPapers(); p++ {
							if solution.At(r, p) && prob.Aggregate.At(r, p) == 0 {
								zeroFree = false
							}
						}
					}
				}
				success = s3 == 0 && (prob.AllowZeroScore || zeroFree)
			}
		}

		if success && worst >= bestWorst {
			best, bestWorst, haveBest = ms, worst, true
			lo = ms
			ms += (hi - ms) / 2
		} else {
			hi = ms
			ms -= (ms - lo) / 2
		}
	}
	if !haveBest {
		return 0, nil
	}
	return best, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
