package matchctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/papermatch/internal/model"
	"github.com/katalvlaran/papermatch/internal/orchestrator"
	"github.com/katalvlaran/papermatch/internal/status"
)

var batchWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch [config paths...]",
	Short: "Run several match configurations concurrently, bounded by --workers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, paths []string) error {
		results := runBatch(paths, batchWorkers, prometheusRegisterer())
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "Maximum number of match configurations to run concurrently")
	rootCmd.AddCommand(batchCmd)
}

// batchResult pairs one configuration's path with its outcome, so the
// caller can tell which input produced which result even though runs
// complete out of order.
type batchResult struct {
	Path   string              `json:"path"`
	Papers []model.PaperResult `json:"papers,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// runBatch loads and runs every configuration in paths against one
// shared status.Registry, bounding concurrency to workers the way
// errgroup.SetLimit bounds a fan-out pool. One configuration's failure
// does not cancel the others: each result is collected rather than
// propagated through g.Wait, since a batch is explicitly "distinct
// configurations proceeding in parallel", not one all-or-nothing unit
// of work. The returned slice is ordered to match paths regardless of
// which run finishes first.
func runBatch(paths []string, workers int, reg prometheus.Registerer) []batchResult {
	registry := status.NewRegistry(status.NewPrometheusSink(reg))

	results := make([]batchResult, len(paths))

	g, gCtx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				results[i] = batchResult{Path: path, Error: gCtx.Err().Error()}
				return nil
			default:
			}
			results[i] = runOne(gCtx, path, registry)
			return nil
		})
	}
	// g.Wait only ever returns an error from a goroutine's own return
	// value; runOne's failures are recorded in results instead, so the
	// group itself cannot fail here.
	_ = g.Wait()

	return results
}

func runOne(ctx context.Context, path string, registry *status.Registry) batchResult {
	cfg, err := loadConfig(path)
	if err != nil {
		return batchResult{Path: path, Error: err.Error()}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return batchResult{Path: path, Error: err.Error()}
	}

	orchCfg, err := toOrchestratorConfig(cfg)
	if err != nil {
		return batchResult{Path: path, Error: err.Error()}
	}

	orch := orchestrator.New(registry, logger)
	result, err := orch.Run(ctx, orchCfg)
	if err != nil {
		return batchResult{Path: path, Error: fmt.Sprintf("run failed: %v", err)}
	}
	return batchResult{Path: path, Papers: result.Papers}
}
