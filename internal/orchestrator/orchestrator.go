// Package orchestrator drives one matching run end to end: resolve
// quotas, encode matrices, select and run a solver, decode the result,
// and publish status transitions throughout. It is the only package that
// touches internal/status and the only one with a notion of "a run."
//
// Grounded on original_source/matcher/match.py's compute_match pipeline
// (status sequencing around a try/except that this module expresses as
// Go error returns) and its get_solver dispatch (replaced by
// internal/solver's closed Variant factory). Logging follows
// sirupsen/logrus, the logging library SPEC_FULL.md's ambient stack
// section names for this module.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/papermatch/internal/encoder"
	"github.com/katalvlaran/papermatch/internal/model"
	"github.com/katalvlaran/papermatch/internal/quota"
	"github.com/katalvlaran/papermatch/internal/signal"
	"github.com/katalvlaran/papermatch/internal/solver"
	"github.com/katalvlaran/papermatch/internal/status"
)

// Config is one match run's configuration (spec.md §6's configuration
// record, the fields the core actually consumes).
type Config struct {
	ConfigID string
	Variant  solver.Variant

	Reviewers []model.Reviewer
	Papers    []model.Paper

	GlobalMinimum, GlobalMaximum, GlobalDemand int
	CustomMaximum, CustomDemand                map[int]int

	Signals    []signal.Spec
	ScoreEdges map[string][]signal.Edge

	Conflicts, Vetoes, Locks []encoder.Pair

	AllowZeroScore   bool
	AlternateCount   int
	ProbabilityLimit float64
}

// Result is the outcome of one completed run.
type Result struct {
	Papers []model.PaperResult
}

// Orchestrator runs Config values against a shared status.Registry.
type Orchestrator struct {
	Registry *status.Registry
	Logger   *logrus.Logger
}

// New builds an Orchestrator. A nil logger defaults to logrus's standard
// logger; a nil registry is replaced with a fresh, unshared one (useful
// in tests that don't care about cross-run serialization).
func New(registry *status.Registry, logger *logrus.Logger) *Orchestrator {
	if registry == nil {
		registry = status.NewRegistry(nil)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Orchestrator{Registry: registry, Logger: logger}
}

// Run executes one match to completion, publishing status transitions as
// it goes. It never returns a partial Result: on any failure the return
// error is non-nil and Result is the zero value.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (Result, error) {
	log := o.Logger.WithField("config_id", cfg.ConfigID)

	if err := o.Registry.Publish(cfg.ConfigID, status.Initialized, "", now()); err != nil {
		return Result{}, fmt.Errorf("orchestrator: publish Initialized: %w", err)
	}
	if err := o.Registry.Publish(cfg.ConfigID, status.Running, "", now()); err != nil {
		return Result{}, fmt.Errorf("orchestrator: publish Running: %w", err)
	}
	log.Info("match run started")

	if canceled(ctx) {
		return o.fail(cfg, "canceled before quota resolution")
	}

	// A supply/demand mismatch is detected before any solver runs, so
	// spec.md §4.2/§7 classify it as a configuration error (status Error),
	// not solver infeasibility (status NoSolution).
	resolved, err := quota.Resolve(len(cfg.Reviewers), len(cfg.Papers), cfg.GlobalMinimum, cfg.GlobalMaximum, cfg.GlobalDemand, cfg.CustomMaximum, cfg.CustomDemand)
	if err != nil {
		return o.fail(cfg, err.Error())
	}

	encInput := encoder.Input{
		Reviewers:      cfg.Reviewers,
		Papers:         cfg.Papers,
		Signals:        cfg.Signals,
		ScoreEdges:     cfg.ScoreEdges,
		Conflicts:      cfg.Conflicts,
		Vetoes:         cfg.Vetoes,
		Locks:          cfg.Locks,
		AllowZeroScore: cfg.AllowZeroScore,
	}
	enc, err := encoder.Encode(encInput, func(format string, args ...any) { log.Warnf(format, args...) })
	if err != nil {
		return o.fail(cfg, fmt.Sprintf("encode: %v", err))
	}

	if canceled(ctx) {
		return o.fail(cfg, "canceled after encode")
	}

	prob := solver.Problem{
		Ctx:            ctx,
		Aggregate:      enc.Aggregate,
		Cost:           enc.Cost,
		Constraint:     enc.Constraint,
		Minimum:        resolved.Minimum,
		Maximum:        resolved.Maximum,
		Demand:         resolved.Demand,
		AllowZeroScore: cfg.AllowZeroScore,
	}
	// solver.New only ever fails with a ConfigurationError (unknown variant,
	// bad probability limit, infeasible min/max bounds); that's the
	// "Configuration error" taxonomy category, surfaced as status Error.
	slv, err := solver.New(solver.Config{Variant: cfg.Variant, ProbabilityLimit: cfg.ProbabilityLimit}, prob)
	if err != nil {
		return o.fail(cfg, err.Error())
	}

	assignment, err := slv.Solve()
	if err != nil {
		switch err.(type) {
		case *solver.NoSolutionError:
			return o.noSolution(cfg, err.Error())
		case *solver.ConfigurationError:
			return o.fail(cfg, err.Error())
		default:
			if err == solver.ErrCanceled {
				return o.fail(cfg, "canceled during solve")
			}
			return o.fail(cfg, err.Error())
		}
	}

	if canceled(ctx) {
		return o.fail(cfg, "canceled before decode")
	}

	papers := encoder.Decode(enc, assignment, cfg.AlternateCount)

	if err := o.Registry.Publish(cfg.ConfigID, status.Complete, "", now()); err != nil {
		return Result{}, fmt.Errorf("orchestrator: publish Complete: %w", err)
	}
	log.Info("match run complete")

	return Result{Papers: papers}, nil
}

func (o *Orchestrator) noSolution(cfg Config, reason string) (Result, error) {
	if err := o.Registry.Publish(cfg.ConfigID, status.NoSolution, reason, now()); err != nil {
		return Result{}, fmt.Errorf("orchestrator: publish NoSolution: %w", err)
	}
	o.Logger.WithField("config_id", cfg.ConfigID).Warnf("no solution: %s", reason)
	return Result{}, fmt.Errorf("orchestrator: no solution: %s", reason)
}

func (o *Orchestrator) fail(cfg Config, reason string) (Result, error) {
	if err := o.Registry.Publish(cfg.ConfigID, status.Error, reason, now()); err != nil {
		return Result{}, fmt.Errorf("orchestrator: publish Error: %w", err)
	}
	o.Logger.WithField("config_id", cfg.ConfigID).Errorf("run failed: %s", reason)
	return Result{}, fmt.Errorf("orchestrator: %s", reason)
}

func canceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func now() time.Time { return time.Now() }
