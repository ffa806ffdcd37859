package matchctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/katalvlaran/papermatch/internal/encoder"
	"github.com/katalvlaran/papermatch/internal/model"
	"github.com/katalvlaran/papermatch/internal/orchestrator"
	"github.com/katalvlaran/papermatch/internal/signal"
	"github.com/katalvlaran/papermatch/internal/solver"
	"github.com/katalvlaran/papermatch/internal/status"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "matchctl",
	Short: "Run a reviewer-paper assignment match from a configuration file",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve quotas, encode, solve, and print the resulting assignment as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		orchCfg, err := toOrchestratorConfig(cfg)
		if err != nil {
			return fmt.Errorf("matchctl: %w", err)
		}

		registry := status.NewRegistry(status.NewPrometheusSink(prometheusRegisterer()))
		orch := orchestrator.New(registry, logger)

		result, err := orch.Run(context.Background(), orchCfg)
		if err != nil {
			return fmt.Errorf("matchctl: run failed: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Papers)
	},
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "match.yaml", "Path to the match configuration YAML file")
	rootCmd.AddCommand(runCmd)
}

func newLogger(cfg *AppConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	level := cfg.LogLevel
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("matchctl: invalid log_level %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.LogFile != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return logger, nil
}

func toOrchestratorConfig(cfg *AppConfig) (orchestrator.Config, error) {
	reviewers := make([]model.Reviewer, len(cfg.Reviewers))
	for i, id := range cfg.Reviewers {
		reviewers[i] = model.Reviewer{ID: id}
	}
	papers := make([]model.Paper, len(cfg.Papers))
	for i, id := range cfg.Papers {
		papers[i] = model.Paper{ID: id}
	}

	reviewerIndex := make(map[string]int, len(reviewers))
	for i, r := range reviewers {
		reviewerIndex[r.ID] = i
	}
	paperIndex := make(map[string]int, len(papers))
	for i, p := range papers {
		paperIndex[p.ID] = i
	}

	customMax := make(map[int]int, len(cfg.CustomMaxPapers))
	for id, v := range cfg.CustomMaxPapers {
		idx, ok := reviewerIndex[id]
		if !ok {
			return orchestrator.Config{}, fmt.Errorf("custom_max_papers references unknown reviewer %q", id)
		}
		customMax[idx] = v
	}
	customDemand := make(map[int]int, len(cfg.CustomUserDemand))
	for id, v := range cfg.CustomUserDemand {
		idx, ok := paperIndex[id]
		if !ok {
			return orchestrator.Config{}, fmt.Errorf("custom_user_demand references unknown paper %q", id)
		}
		customDemand[idx] = v
	}

	signals := make([]signal.Spec, 0, len(cfg.Scores))
	scoreEdges := make(map[string][]signal.Edge, len(cfg.Scores))
	for name, sc := range cfg.Scores {
		spec := signal.Spec{Name: name, Weight: sc.Weight, TranslateMap: sc.TranslateMap}
		if sc.Default != nil {
			spec.Default = *sc.Default
			spec.HasDefault = true
		}
		signals = append(signals, spec)

		edges := make([]signal.Edge, len(sc.Edges))
		for i, e := range sc.Edges {
			edges[i] = signal.Edge{Paper: e.Paper, Reviewer: e.Reviewer, Weight: e.Weight, Label: e.Label, HasLabel: e.Label != ""}
		}
		scoreEdges[name] = edges
	}

	toPairs := func(pcs []PairConfig) []encoder.Pair {
		out := make([]encoder.Pair, len(pcs))
		for i, pc := range pcs {
			out[i] = encoder.Pair{Paper: pc.Paper, Reviewer: pc.Reviewer}
		}
		return out
	}

	variant := solver.Variant(cfg.ObjectiveType)

	return orchestrator.Config{
		ConfigID:         cfg.MatchGroup,
		Variant:          variant,
		Reviewers:        reviewers,
		Papers:           papers,
		GlobalMinimum:    cfg.MinPapers,
		GlobalMaximum:    cfg.MaxPapers,
		GlobalDemand:     cfg.UserDemand,
		CustomMaximum:    customMax,
		CustomDemand:     customDemand,
		Signals:          signals,
		ScoreEdges:       scoreEdges,
		Conflicts:        toPairs(cfg.Conflicts),
		Vetoes:           toPairs(cfg.Vetoes),
		Locks:            toPairs(cfg.Locks),
		AllowZeroScore:   cfg.AllowZeroScore,
		AlternateCount:   cfg.Alternates,
		ProbabilityLimit: cfg.RandomizedProbabilityLimit,
	}, nil
}
