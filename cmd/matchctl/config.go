// Package matchctl is the CLI adapter around the core: it reads a match
// configuration file, builds one orchestrator.Config from it, drives a
// single run, and prints the result as JSON. The batch subcommand does the
// same for several configuration files concurrently.
//
// Grounded on the inference-sim-inference-sim cmd/ package's cobra
// layout and the Hola monorepo's koanf-based pkg/config loader (file
// provider + yaml parser, with an env provider overlay for secrets/overrides
// that shouldn't live in a committed config file).
package matchctl

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ScoreSignalConfig configures one score source.
type ScoreSignalConfig struct {
	Weight       float64            `koanf:"weight"`
	Default      *float64           `koanf:"default"`
	TranslateMap map[string]float64 `koanf:"translate_map"`
	Edges        []EdgeConfig       `koanf:"edges"`
}

// EdgeConfig is one raw (paper, reviewer) score observation (spec.md §6's
// edge record); conflict, veto and lock overrides use PairConfig instead.
type EdgeConfig struct {
	Paper    string  `koanf:"paper"`
	Reviewer string  `koanf:"reviewer"`
	Weight   float64 `koanf:"weight"`
	Label    string  `koanf:"label"`
}

// PairConfig names a (paper, reviewer) override pair.
type PairConfig struct {
	Paper    string `koanf:"paper"`
	Reviewer string `koanf:"reviewer"`
}

// AppConfig is the on-disk shape of a match run's configuration.
type AppConfig struct {
	MatchGroup     string `koanf:"match_group"`
	ObjectiveType  string `koanf:"objective_type"`
	Alternates     int    `koanf:"alternates"`
	AllowZeroScore bool   `koanf:"allow_zero_score_assignments"`

	RandomizedProbabilityLimit float64 `koanf:"randomized_probability_limits"`

	MinPapers  int `koanf:"min_papers"`
	MaxPapers  int `koanf:"max_papers"`
	UserDemand int `koanf:"user_demand"`

	Reviewers []string `koanf:"reviewers"`
	Papers    []string `koanf:"papers"`

	CustomMaxPapers   map[string]int `koanf:"custom_max_papers"`
	CustomUserDemand  map[string]int `koanf:"custom_user_demand"`

	Scores    map[string]ScoreSignalConfig `koanf:"scores_specification"`
	Conflicts []PairConfig                 `koanf:"conflicts_invitation"`
	Vetoes    []PairConfig                 `koanf:"vetoes_invitation"`
	Locks     []PairConfig                 `koanf:"assignment_invitation"`

	LogLevel string `koanf:"log_level"`
	LogFile  string `koanf:"log_file"`
}

// loadConfig reads path (YAML) and overlays PAPERMATCH_-prefixed
// environment variables (e.g. PAPERMATCH_LOG_LEVEL maps to log_level).
func loadConfig(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("matchctl: loading config %s: %w", path, err)
	}
	// Flat keys (e.g. PAPERMATCH_LOG_LEVEL -> log_level) — this config has
	// no nested sections deep enough to need "." as a real path delimiter.
	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PAPERMATCH_"))
	}
	if err := k.Load(env.Provider("PAPERMATCH_", ".", transform), nil); err != nil {
		return nil, fmt.Errorf("matchctl: loading environment overrides: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("matchctl: unmarshaling config: %w", err)
	}
	return &cfg, nil
}
