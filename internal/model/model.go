// Package model defines the identifiers shared across the encoder, quota
// resolver, solvers, and orchestrator: reviewers, papers, and the
// (reviewer, aggregate score) pairs that make up an assignment output.
package model

// Reviewer is one member of the match group, in stable input order.
type Reviewer struct {
	ID string
}

// Paper is one item requiring reviewers, in stable input order.
type Paper struct {
	ID string
}

// Scored pairs a reviewer with the aggregate score they'd bring to a paper.
type Scored struct {
	Reviewer string
	Score    float64
}

// PaperResult is one paper's assignment outcome: the reviewers assigned to
// it, and a ranked list of unassigned alternates.
type PaperResult struct {
	Paper       string
	Assigned    []Scored
	Alternates  []Scored
}
