// Package signal translates a single raw score edge (paper, reviewer,
// weight, optional label) into the numeric score the encoder aggregates.
//
// Grounded on original_source/matcher/utils.py's weight_scores/cost
// functions: each signal source carries a weight and optional
// label-to-number translation map, and a missing edge falls back to the
// signal's configured default rather than raising an error.
package signal

import (
	"fmt"
	"sort"
)

// ErrUnknownLabel is returned when an edge's label is not present in the
// signal's translation map.
type ErrUnknownLabel struct {
	Label   string
	Signal  string
	ValidKeys []string
}

func (e *ErrUnknownLabel) Error() string {
	return fmt.Sprintf("signal %q: unknown translation label %q (valid: %v)", e.Signal, e.Label, e.ValidKeys)
}

// ErrNonNumeric is returned when an edge carries neither a numeric weight
// nor a label resolvable through the signal's translation map.
type ErrNonNumeric struct {
	Signal string
	Value  string
}

func (e *ErrNonNumeric) Error() string {
	return fmt.Sprintf("signal %q: non-numeric edge value %q", e.Signal, e.Value)
}

// Edge is one raw (paper, reviewer) score observation for a given signal.
type Edge struct {
	Paper    string
	Reviewer string
	Weight   float64
	Label    string // optional; when set, translated through the signal's map
	HasLabel bool
}

// Spec configures one score signal source.
type Spec struct {
	Name          string
	Weight        float64
	Default       float64 // value used for pairs with no edge at all
	HasDefault    bool
	TranslateMap  map[string]float64 // optional label -> numeric value
}

// Resolve returns the numeric score an edge contributes for this signal,
// before the signal's own Weight is applied by the caller (the encoder
// multiplies by Weight itself so it can also apply it to the Default).
func (s Spec) Resolve(e Edge) (float64, error) {
	if e.HasLabel {
		if s.TranslateMap == nil {
			return 0, &ErrNonNumeric{Signal: s.Name, Value: e.Label}
		}
		v, ok := s.TranslateMap[e.Label]
		if !ok {
			keys := make([]string, 0, len(s.TranslateMap))
			for k := range s.TranslateMap {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return 0, &ErrUnknownLabel{Label: e.Label, Signal: s.Name, ValidKeys: keys}
		}
		return v, nil
	}
	return e.Weight, nil
}

// DefaultValue returns the score used for a (reviewer, paper) pair with no
// edge for this signal at all.
func (s Spec) DefaultValue() float64 {
	if s.HasDefault {
		return s.Default
	}
	return 0
}
