// FairSequence builds an assignment via an envy-free picking sequence: at
// each step, the paper with the greatest remaining-demand ratio claims its
// single most-preferred unassigned, unconflicted reviewer with spare
// capacity. Ties break by paper index so runs are deterministic.
//
// Grounded on internal/mincostflow/dijkstra.go's container/heap priority
// queue idiom (max-heap of pending work, lazily skipping stale/exhausted
// entries rather than eagerly rebalancing).
//
// Reviewer minimum loads are a soft target here: the picking sequence is
// demand-driven, so a reviewer whose preferred papers fill up around them
// may finish under their minimum. MinMax and FairFlow enforce minimums
// exactly via flow capacity; FairSequence does not, matching spec.md
// §4.5's silence on the interaction (an explicit Open Question, resolved
// in DESIGN.md).
package solver

import (
	"container/heap"
	"sort"

	"github.com/katalvlaran/papermatch/internal/matrix"
)

type fairSequenceSolver struct {
	prob Problem
}

// paperQueueItem is one pending paper in the picking-sequence heap.
type paperQueueItem struct {
	paper int
	key   float64 // remaining demand / total demand; higher picks first
}

type paperHeap []paperQueueItem

func (h paperHeap) Len() int { return len(h) }
func (h paperHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key > h[j].key // max-heap
	}
	return h[i].paper < h[j].paper
}
func (h paperHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *paperHeap) Push(x any)        { *h = append(*h, x.(paperQueueItem)) }
func (h *paperHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (s *fairSequenceSolver) Solve() (*matrix.Assignment, error) {
	prob := s.prob
	if prob.canceled() {
		return nil, ErrCanceled
	}
	nr, np := prob.NumReviewers(), prob.NumPapers()

	assignment, err := matrix.NewAssignment(nr, np)
	if err != nil {
		return nil, err
	}

	reviewerRemaining := make([]int, nr)
	copy(reviewerRemaining, prob.Maximum)
	demandRemaining := make([]int, np)
	copy(demandRemaining, prob.Demand)

	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			if prob.Constraint.At(r, p) == matrix.Forced {
				if err := assignment.Set(r, p, true); err != nil {
					return nil, err
				}
				reviewerRemaining[r]--
				demandRemaining[p]--
			}
		}
	}
	for r := 0; r < nr; r++ {
		if reviewerRemaining[r] < 0 {
			return nil, &NoSolutionError{Reason: "reviewer lock count exceeds maximum load"}
		}
	}
	for p := 0; p < np; p++ {
		if demandRemaining[p] < 0 {
			return nil, &NoSolutionError{Reason: "paper lock count exceeds demand"}
		}
	}

	// candidates[p] is paper p's reviewer preference order, best affinity
	// first, excluding forbidden and already-locked pairs. cursor[p] is the
	// lazy pointer past candidates already tried and found unavailable or
	// already assigned.
	candidates := make([][]int, np)
	for p := 0; p < np; p++ {
		for r := 0; r < nr; r++ {
			if prob.Constraint.At(r, p) == matrix.Forbidden || assignment.At(r, p) {
				continue
			}
			candidates[p] = append(candidates[p], r)
		}
		sort.SliceStable(candidates[p], func(i, j int) bool {
			return prob.Aggregate.At(candidates[p][i], p) > prob.Aggregate.At(candidates[p][j], p)
		})
	}
	cursor := make([]int, np)

	pq := &paperHeap{}
	heap.Init(pq)
	for p := 0; p < np; p++ {
		if demandRemaining[p] > 0 && prob.Demand[p] > 0 {
			heap.Push(pq, paperQueueItem{paper: p, key: float64(demandRemaining[p]) / float64(prob.Demand[p])})
		}
	}

	iterations := 0
	for pq.Len() > 0 {
		iterations++
		if iterations%64 == 0 && prob.canceled() {
			return nil, ErrCanceled
		}

		item := heap.Pop(pq).(paperQueueItem)
		p := item.paper
		if demandRemaining[p] <= 0 {
			continue
		}

		picked := -1
		for cursor[p] < len(candidates[p]) {
			r := candidates[p][cursor[p]]
			cursor[p]++
			if reviewerRemaining[r] > 0 && !assignment.At(r, p) {
				picked = r
				break
			}
		}
		if picked < 0 {
			return nil, &NoSolutionError{Reason: "no eligible reviewer remains for a paper with unmet demand"}
		}

		if err := assignment.Set(picked, p, true); err != nil {
			return nil, err
		}
		reviewerRemaining[picked]--
		demandRemaining[p]--
		if demandRemaining[p] > 0 {
			heap.Push(pq, paperQueueItem{paper: p, key: float64(demandRemaining[p]) / float64(prob.Demand[p])})
		}
	}

	for p := 0; p < np; p++ {
		if demandRemaining[p] > 0 {
			return nil, &NoSolutionError{Reason: "demand could not be fully satisfied"}
		}
	}

	return assignment, nil
}
