package matchctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
match_group: demo
objective_type: MinMax
alternates: 2
allow_zero_score_assignments: true
min_papers: 0
max_papers: 3
user_demand: 1
reviewers: [r0, r1, r2]
papers: [p0, p1]
custom_max_papers:
  r0: 1
custom_user_demand:
  p1: 2
scores_specification:
  bid:
    weight: 1.0
    default: 0.0
    edges:
      - {paper: p0, reviewer: r0, weight: 5}
conflicts_invitation:
  - {paper: p1, reviewer: r1}
log_level: warn
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "demo", cfg.MatchGroup)
	require.Equal(t, "MinMax", cfg.ObjectiveType)
	require.Equal(t, 2, cfg.Alternates)
	require.Equal(t, []string{"r0", "r1", "r2"}, cfg.Reviewers)
	require.Equal(t, 1, cfg.CustomMaxPapers["r0"])
	require.Equal(t, 2, cfg.CustomUserDemand["p1"])
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigEnvOverrideWins(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	t.Setenv("PAPERMATCH_LOG_LEVEL", "debug")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestToOrchestratorConfigMapsOverridesAndEdges(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	orchCfg, err := toOrchestratorConfig(cfg)
	require.NoError(t, err)

	require.Equal(t, "demo", orchCfg.ConfigID)
	require.Equal(t, 1, orchCfg.CustomMaximum[0]) // r0 -> index 0
	require.Equal(t, 2, orchCfg.CustomDemand[1])  // p1 -> index 1
	require.Len(t, orchCfg.Conflicts, 1)
	require.Equal(t, "r1", orchCfg.Conflicts[0].Reviewer)
	require.Len(t, orchCfg.ScoreEdges["bid"], 1)
	require.Equal(t, "r0", orchCfg.ScoreEdges["bid"][0].Reviewer)
}

func TestToOrchestratorConfigRejectsUnknownReviewerOverride(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	cfg.CustomMaxPapers["ghost"] = 5

	_, err = toOrchestratorConfig(cfg)
	require.Error(t, err)
}
