// Package automation runs scripted sequences of cloth scenes and randomised
// stability trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run: a preset, then duration and dt overrides,
// then named parameters (see config.ParamNames).
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps: %w", scenario.Name, dynamo.ErrParameterBounds)
	}
	return &scenario, nil
}

// Config builds and validates the scene configuration for step index i.
func (s ScenarioStep) Config(i int) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets())
		}
	}

	cfg.Name = fmt.Sprintf("step%d", i+1)
	if s.Name != "" {
		cfg.Name = s.Name
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if err := cfg.Apply(s.Params); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Saver persists a finished run and returns its id. *storage.Store
// satisfies it.
type Saver interface {
	Save(cfg *config.Config, result *dynamo.Result) (string, error)
}

type StepResult struct {
	Config *config.Config
	Result *dynamo.Result
	RunID  string
}

// RunScenario executes the steps in order. Steps marked save are persisted
// when saver is non-nil. Progress lines go to progress, which may be nil.
// On failure the steps completed so far are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, saver Saver, progress io.Writer) ([]StepResult, error) {
	if progress == nil {
		progress = io.Discard
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config(i)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(progress, "running step %d/%d: %s\n", i+1, len(scenario.Steps), cfg.Name)

		scene, err := sim.NewDefaultScene(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		runner := sim.NewRunner()
		for _, m := range metrics.Standard(cfg.GravityVec(), scene.Links()) {
			runner.AddMetric(m)
		}

		result, err := runner.Run(ctx, scene, cfg.RunConfig())
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if step.Save && saver != nil {
			if sr.RunID, err = saver.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs each named parameter of Base uniformly within
// +-Perturbation (relative to its base value) for every trial.
type MonteCarloConfig struct {
	Base         *config.Config
	Params       []string
	Perturbation float64
	NumTrials    int
	Seed         int64
	Limit        int
}

// MonteCarloResult holds one trial. A trial whose world diverged has Stable
// false and no final values. A trial whose drawn values fail validation is
// not run and carries the validation error in Invalid.
type MonteCarloResult struct {
	TrialID    int
	Values     map[string]float64
	FinalMean  float64
	MaxStretch float64
	Stable     bool
	Invalid    error
}

// RunMonteCarlo runs the trials concurrently. Trial parameters are drawn
// up front from one seeded source, so a seed reproduces the whole set.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	if mc.NumTrials < 1 {
		return nil, fmt.Errorf("trials %d must be at least 1: %w", mc.NumTrials, dynamo.ErrParameterBounds)
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cfgs := make([]*config.Config, mc.NumTrials)
	results := make([]MonteCarloResult, mc.NumTrials)
	for trial := range cfgs {
		c := *mc.Base
		c.Name = fmt.Sprintf("%s_mc%d", mc.Base.Name, trial)
		values := make(map[string]float64, len(mc.Params))
		for _, name := range mc.Params {
			base, err := c.Get(name)
			if err != nil {
				return nil, err
			}
			values[name] = base * (1 + (rng.Float64()-0.5)*2*mc.Perturbation)
		}
		if err := c.Apply(values); err != nil {
			return nil, err
		}
		results[trial] = MonteCarloResult{TrialID: trial, Values: values}
		if err := c.Validate(); err != nil {
			results[trial].Invalid = err
			continue
		}
		cfgs[trial] = &c
	}

	g, ctx := errgroup.WithContext(ctx)
	if mc.Limit > 0 {
		g.SetLimit(mc.Limit)
	}

	for trial, cfg := range cfgs {
		if cfg == nil {
			continue
		}
		g.Go(func() error {
			scene, err := sim.NewDefaultScene(cfg)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			stretch := metrics.NewStretch(scene.Links())
			runner := sim.NewRunner()
			runner.AddMetric(stretch)

			res, err := runner.Run(ctx, scene, cfg.RunConfig())
			switch {
			case errors.Is(err, dynamo.ErrUnstable), errors.Is(err, dynamo.ErrInvalidState):
				return nil
			case err != nil:
				return fmt.Errorf("trial %d: %w", trial, err)
			}

			r := &results[trial]
			r.FinalMean = res.MeanHeight[len(res.MeanHeight)-1]
			r.MaxStretch = res.Metrics[stretch.Name()]
			r.Stable = !math.IsNaN(r.FinalMean)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount, unstableCount, invalidCount int) {
	for _, r := range results {
		switch {
		case r.Invalid != nil:
			invalidCount++
		case r.Stable:
			stableCount++
		default:
			unstableCount++
		}
	}
	return
}
