package matchctl

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRunBatchRunsEachConfigIndependently(t *testing.T) {
	ok := writeConfig(t, sampleConfig)
	bad := writeConfig(t, "not: [valid")

	results := runBatch([]string{ok, bad}, 2, prometheus.NewRegistry())
	require.Len(t, results, 2)

	require.Equal(t, ok, results[0].Path)
	require.Empty(t, results[0].Error)
	require.NotEmpty(t, results[0].Papers)

	require.Equal(t, bad, results[1].Path)
	require.NotEmpty(t, results[1].Error)
	require.Empty(t, results[1].Papers)
}

func TestRunBatchPreservesOrderAcrossManyConfigs(t *testing.T) {
	paths := make([]string, 5)
	for i := range paths {
		paths[i] = writeConfig(t, sampleConfig)
	}

	results := runBatch(paths, 2, prometheus.NewRegistry())
	require.Len(t, results, len(paths))
	for i, p := range paths {
		require.Equal(t, p, results[i].Path)
		require.Empty(t, results[i].Error)
	}
}
