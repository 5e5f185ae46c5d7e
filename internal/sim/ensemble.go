package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
)

// MetricFactory builds fresh metrics for one scene. Metrics are stateful and
// never shared between scenes.
type MetricFactory func(s *Scene) []dynamo.Metric

// Ensemble runs independent scenes concurrently, one goroutine per scene.
// Each scene keeps the single-owner contract; nothing is shared between them.
type Ensemble struct {
	configs []*config.Config
	metrics MetricFactory
	limit   int
}

func NewEnsemble(cfgs ...*config.Config) *Ensemble {
	return &Ensemble{configs: cfgs}
}

func (e *Ensemble) WithMetrics(f MetricFactory) *Ensemble {
	e.metrics = f
	return e
}

// WithLimit caps the number of scenes running at once; n <= 0 means no cap.
func (e *Ensemble) WithLimit(n int) *Ensemble {
	e.limit = n
	return e
}

// Run returns results in the order the configs were given. The first failing
// scene cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.configs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, cfg := range e.configs {
		g.Go(func() error {
			scene, err := NewDefaultScene(cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}

			runner := NewRunner()
			if e.metrics != nil {
				for _, m := range e.metrics(scene) {
					runner.AddMetric(m)
				}
			}

			res, err := runner.Run(ctx, scene, cfg.RunConfig())
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
