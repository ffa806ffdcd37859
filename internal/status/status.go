// Package status tracks the per-configuration state machine spec.md §4.7
// and §5 describe (Initialized → Running → {Complete, NoSolution, Error};
// Complete → Deploying → {Deployed, DeploymentError}), publishing
// transitions to an external collaborator and enforcing that late or
// duplicate publishes never move a configuration's state backwards.
//
// Grounded on the Hola monorepo's pkg/metrics (prometheus client_golang
// counters/histograms registered alongside a lock-guarded map) and
// original_source/matcher/match.py's status string constants
// (Status.INITIALIZED, .RUNNING, .COMPLETE, .NO_SOLUTION, .ERROR,
// .DEPLOYING, .DEPLOYED, .DEPLOYMENT_ERROR).
package status

import (
	"fmt"
	"sync"
	"time"
)

// State is one node in the configuration state machine.
type State string

const (
	Initialized     State = "Initialized"
	Running         State = "Running"
	Complete        State = "Complete"
	NoSolution      State = "NoSolution"
	Error           State = "Error"
	Deploying       State = "Deploying"
	Deployed        State = "Deployed"
	DeploymentError State = "DeploymentError"
)

// rank gives every state a position in the monotonic ordering used to
// reject backwards transitions. Complete/NoSolution/Error share a rank
// since they're mutually exclusive terminal outcomes of the solve phase,
// not a further progression among themselves; the same holds for the
// Deployed/DeploymentError pair.
var rank = map[State]int{
	Initialized:     0,
	Running:         1,
	Complete:        2,
	NoSolution:      2,
	Error:           2,
	Deploying:       3,
	Deployed:        4,
	DeploymentError: 4,
}

// transitions lists the states reachable directly from each state.
var transitions = map[State][]State{
	Initialized: {Running},
	Running:     {Complete, NoSolution, Error},
	Complete:    {Deploying},
	Deploying:   {Deployed, DeploymentError},
}

// ErrInvalidTransition reports an attempted move the state machine does
// not allow, including a backwards or repeated publish (see
// Registry.Publish).
type ErrInvalidTransition struct {
	From, To State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("status: invalid transition %s -> %s", e.From, e.To)
}

func isReachable(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Update is one state observation for a configuration.
type Update struct {
	ConfigID string
	State    State
	Reason   string // populated for NoSolution/Error/DeploymentError
	At       time.Time
}

// Sink receives every accepted (non-stale) status update. Implementations
// must not block the publisher for long; Registry calls Sink.Publish
// synchronously from whichever goroutine calls Registry.Publish.
type Sink interface {
	Publish(Update)
}

// Registry is a process-wide, mutex-guarded last-write-wins store of
// configuration state, guarding the monotonicity invariant spec.md §5
// requires: a delayed or duplicated publish must never move a
// configuration's observed state backwards. A plain map under one mutex
// is used rather than sync.Map because Publish needs an atomic
// check-current-then-set, which sync.Map's API does not offer directly.
type Registry struct {
	mu      sync.Mutex
	current map[string]Update
	sink    Sink
}

// NewRegistry builds a Registry that forwards accepted updates to sink.
// A nil sink is valid; updates are still tracked, just not forwarded.
func NewRegistry(sink Sink) *Registry {
	return &Registry{current: make(map[string]Update), sink: sink}
}

// Publish records to for configID if it represents forward progress from
// the last recorded state (or there is none yet), and forwards it to the
// configured Sink. A to that the recorded state cannot legally reach is
// rejected with ErrInvalidTransition and leaves the record unchanged; this
// covers backwards and repeated publishes too (e.g. Running after Complete,
// or Running twice), so the recorded state never moves backwards. The first
// publish for a configID must be Initialized or Running.
func (r *Registry) Publish(configID string, to State, reason string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.current[configID]
	if ok {
		if !isReachable(prev.State, to) {
			return &ErrInvalidTransition{From: prev.State, To: to}
		}
		if rank[to] <= rank[prev.State] {
			return nil
		}
	} else if to != Initialized && to != Running {
		return &ErrInvalidTransition{From: "", To: to}
	}

	update := Update{ConfigID: configID, State: to, Reason: reason, At: now}
	r.current[configID] = update
	if r.sink != nil {
		r.sink.Publish(update)
	}
	return nil
}

// Get returns the last recorded state for configID.
func (r *Registry) Get(configID string) (Update, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.current[configID]
	return u, ok
}
