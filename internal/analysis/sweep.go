package analysis

import (
	"context"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

// SweepPoint is one parameter value and the measure of its run.
type SweepPoint struct {
	Param float64
	Value float64
}

// Sweep runs one scene per parameter value, concurrently, and measures each
// result. set applies a value to a copy of base.
func Sweep(
	ctx context.Context,
	base *config.Config,
	values []float64,
	set func(c *config.Config, v float64),
	measure func(r *dynamo.Result) float64,
) ([]SweepPoint, error) {
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		c := *base
		set(&c, v)
		cfgs[i] = &c
	}

	results, err := sim.NewEnsemble(cfgs...).Run(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(values))
	for i, v := range values {
		points[i] = SweepPoint{Param: v, Value: measure(results[i])}
	}
	return points, nil
}

// FinalMeanHeight is a Sweep measure: the last recorded mean cloth height.
func FinalMeanHeight(r *dynamo.Result) float64 {
	if len(r.MeanHeight) == 0 {
		return 0
	}
	return r.MeanHeight[len(r.MeanHeight)-1]
}
