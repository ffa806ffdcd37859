package mincostflow

import "context"

// Options configures a Solve call.
//
//   - Ctx: checked between augmenting paths for cancellation; nil defaults
//     to context.Background().
//   - Epsilon: capacities/flows at or below Epsilon are treated as zero.
//   - ReinitInterval: how many augmentations between full Bellman-Ford
//     potential reseeds; 0 selects an adaptive default based on graph size.
type Options struct {
	Ctx            context.Context
	Epsilon        float64
	ReinitInterval int
}

// DefaultOptions returns production-safe defaults.
func DefaultOptions() Options {
	return Options{Ctx: context.Background(), Epsilon: 1e-9}
}

func (o *Options) normalize(numVertices int) {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Epsilon <= 0 {
		o.Epsilon = 1e-9
	}
	if o.ReinitInterval <= 0 {
		o.ReinitInterval = reinitInterval(numVertices)
	}
}

// reinitInterval chooses how often to reseed potentials from a full
// Bellman-Ford pass, scaled to graph size for numerical stability on long
// running solves without doing it so often that it dominates runtime.
func reinitInterval(numVertices int) int {
	switch {
	case numVertices < 50:
		return 100
	case numVertices < 500:
		return 200
	default:
		return 500
	}
}
