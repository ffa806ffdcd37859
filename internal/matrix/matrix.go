// Package matrix provides the dense reviewer x paper matrices shared by the
// encoder and every solver: the real-valued cost/affinity matrix, the
// signed constraint matrix, and the binary assignment matrix.
//
// All three share one row-major backing-slice shape, grounded on
// lvlath/matrix's Dense type (flat slice storage, validated constructors,
// bounds-checked accessors) but specialized to this module's three element
// types instead of a single generic float64 Dense.
package matrix

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions indicates non-positive row/column counts were requested.
var ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

// ErrIndexOutOfBounds indicates a row or column index outside the matrix.
var ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")

func boundsErr(method string, row, col int) error {
	return fmt.Errorf("matrix.%s(%d,%d): %w", method, row, col, ErrIndexOutOfBounds)
}

// Cost is a dense reviewers x papers real matrix: Cost[r][p] is the
// negative aggregate affinity, the quantity every solver minimizes.
type Cost struct {
	rows, cols int
	data       []float64
}

// NewCost allocates a zero-valued rows x cols Cost matrix.
func NewCost(rows, cols int) (*Cost, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Cost{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// Rows reports the reviewer count.
func (m *Cost) Rows() int { return m.rows }

// Cols reports the paper count.
func (m *Cost) Cols() int { return m.cols }

func (m *Cost) offset(r, p int) (int, error) {
	if r < 0 || r >= m.rows || p < 0 || p >= m.cols {
		return 0, boundsErr("At", r, p)
	}
	return r*m.cols + p, nil
}

// At returns Cost[r][p].
func (m *Cost) At(r, p int) float64 {
	off, err := m.offset(r, p)
	if err != nil {
		return 0
	}
	return m.data[off]
}

// Set assigns Cost[r][p] = v.
func (m *Cost) Set(r, p int, v float64) error {
	off, err := m.offset(r, p)
	if err != nil {
		return err
	}
	m.data[off] = v
	return nil
}

// Add accumulates v into Cost[r][p].
func (m *Cost) Add(r, p int, v float64) error {
	off, err := m.offset(r, p)
	if err != nil {
		return err
	}
	m.data[off] += v
	return nil
}

// Constraint encodes -1 (forbidden), 0 (free) or +1 (forced) per pair.
type Constraint struct {
	rows, cols int // rows = reviewers, cols = papers
	data       []int8
}

// Value is a constraint matrix cell: veto/conflict, free, or lock.
type Value int8

const (
	Forbidden Value = -1
	Free      Value = 0
	Forced    Value = 1
)

// NewConstraint allocates a zero-valued (free) reviewers x papers Constraint matrix.
func NewConstraint(reviewers, papers int) (*Constraint, error) {
	if reviewers <= 0 || papers <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Constraint{rows: reviewers, cols: papers, data: make([]int8, reviewers*papers)}, nil
}

// Rows reports the reviewer count.
func (m *Constraint) Rows() int { return m.rows }

// Cols reports the paper count.
func (m *Constraint) Cols() int { return m.cols }

func (m *Constraint) offset(r, p int) (int, error) {
	if r < 0 || r >= m.rows || p < 0 || p >= m.cols {
		return 0, boundsErr("At", r, p)
	}
	return r*m.cols + p, nil
}

// At returns the constraint value for reviewer r, paper p.
func (m *Constraint) At(r, p int) Value {
	off, err := m.offset(r, p)
	if err != nil {
		return Free
	}
	return Value(m.data[off])
}

// Set assigns the constraint value for reviewer r, paper p.
func (m *Constraint) Set(r, p int, v Value) error {
	off, err := m.offset(r, p)
	if err != nil {
		return err
	}
	m.data[off] = int8(v)
	return nil
}

// Assignment is the binary reviewers x papers solution matrix S[r][p] in {0,1}.
type Assignment struct {
	rows, cols int
	data       []bool
}

// NewAssignment allocates an all-zero reviewers x papers Assignment matrix.
func NewAssignment(reviewers, papers int) (*Assignment, error) {
	if reviewers <= 0 || papers <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Assignment{rows: reviewers, cols: papers, data: make([]bool, reviewers*papers)}, nil
}

// Rows reports the reviewer count.
func (m *Assignment) Rows() int { return m.rows }

// Cols reports the paper count.
func (m *Assignment) Cols() int { return m.cols }

func (m *Assignment) offset(r, p int) (int, error) {
	if r < 0 || r >= m.rows || p < 0 || p >= m.cols {
		return 0, boundsErr("At", r, p)
	}
	return r*m.cols + p, nil
}

// At reports whether reviewer r is assigned to paper p.
func (m *Assignment) At(r, p int) bool {
	off, err := m.offset(r, p)
	if err != nil {
		return false
	}
	return m.data[off]
}

// Set assigns or clears reviewer r on paper p.
func (m *Assignment) Set(r, p int, v bool) error {
	off, err := m.offset(r, p)
	if err != nil {
		return err
	}
	m.data[off] = v
	return nil
}

// PaperLoad returns the number of reviewers currently assigned to paper p.
func (m *Assignment) PaperLoad(p int) int {
	n := 0
	for r := 0; r < m.rows; r++ {
		if m.At(r, p) {
			n++
		}
	}
	return n
}

// ReviewerLoad returns the number of papers currently assigned to reviewer r.
func (m *Assignment) ReviewerLoad(r int) int {
	n := 0
	for p := 0; p < m.cols; p++ {
		if m.At(r, p) {
			n++
		}
	}
	return n
}
