package status_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/status"
)

func findCounter(families []*dto.MetricFamily, name, labelValue string) *dto.Metric {
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == labelValue {
					return m
				}
			}
		}
	}
	return nil
}

func TestPrometheusSinkCountsTransitionsAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := status.NewPrometheusSink(reg)
	r := status.NewRegistry(sink)

	start := time.Unix(1000, 0)
	require.NoError(t, r.Publish("cfg-1", status.Running, "", start))
	require.NoError(t, r.Publish("cfg-1", status.Complete, "", start.Add(5*time.Second)))

	families, err := reg.Gather()
	require.NoError(t, err)

	running := findCounter(families, "papermatch_status_transitions_total", string(status.Running))
	require.NotNil(t, running)
	require.Equal(t, 1.0, running.GetCounter().GetValue())

	complete := findCounter(families, "papermatch_status_transitions_total", string(status.Complete))
	require.NotNil(t, complete)
	require.Equal(t, 1.0, complete.GetCounter().GetValue())

	duration := findCounter(families, "papermatch_solve_duration_seconds", string(status.Complete))
	require.NotNil(t, duration)
	require.Equal(t, uint64(1), duration.GetHistogram().GetSampleCount())
	require.InDelta(t, 5.0, duration.GetHistogram().GetSampleSum(), 1e-9)
}
