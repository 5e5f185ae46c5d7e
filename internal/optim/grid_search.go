// Package optim searches scene parameters for the run that minimises a
// recorded metric.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// WithLimit caps the number of scenes running at once.
func (g *GridSearch) WithLimit(n int) *GridSearch {
	g.limit = n
	return g
}

// Candidates enumerates every combination of the ranges, first parameter
// outermost.
func (g *GridSearch) Candidates() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, maps.Clone(current))
		return
	}
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, g.paramNames[depth])
}

// Search runs base with every candidate applied, all as one ensemble, and
// returns the candidate with the lowest value of metricName (one of the
// standard metrics). Ties keep the earlier candidate.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges: %w", len(g.paramNames), len(g.ranges), dynamo.ErrDimensionMismatch)
	}

	candidates := g.Candidates()
	if len(candidates) == 0 {
		return nil, 0, fmt.Errorf("empty search grid: %w", dynamo.ErrParameterBounds)
	}

	cfgs := make([]*config.Config, len(candidates))
	for i, params := range candidates {
		c := *base
		c.Name = fmt.Sprintf("%s_grid%d", base.Name, i)
		if err := c.Apply(params); err != nil {
			return nil, 0, err
		}
		cfgs[i] = &c
	}

	results, err := sim.NewEnsemble(cfgs...).
		WithLimit(g.limit).
		WithMetrics(func(s *sim.Scene) []dynamo.Metric {
			return metrics.Standard(s.Config().GravityVec(), s.Links())
		}).
		Run(ctx)
	if err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for i, r := range results {
		val, ok := r.Metrics[metricName]
		if !ok {
			return nil, 0, fmt.Errorf("metric %q not recorded", metricName)
		}
		if val < best {
			best = val
			bestParams = candidates[i]
		}
	}

	return bestParams, best, nil
}
