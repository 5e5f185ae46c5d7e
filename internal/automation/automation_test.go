package automation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
)

const scenarioYAML = `
name: drape
description: coarse then heavy
steps:
  - preset: coarse
    duration: 0.1
    save: true
  - name: stiff
    preset: coarse
    duration: 0.05
    params:
      friction: 0.9
      iterations: 4
`

type memSaver struct {
	saved []string
}

func (m *memSaver) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	m.saved = append(m.saved, cfg.Name)
	return "id_" + cfg.Name, nil
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("ParseScenario failed: %v", err)
	}
	if sc.Name != "drape" || len(sc.Steps) != 2 {
		t.Fatalf("got %q with %d steps", sc.Name, len(sc.Steps))
	}
	if sc.Steps[1].Params["friction"] != 0.9 {
		t.Errorf("expected friction param 0.9, got %v", sc.Steps[1].Params["friction"])
	}

	if _, err := ParseScenario([]byte("name: empty\n")); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("empty scenario: expected ErrParameterBounds, got %v", err)
	}
}

func TestStepConfig(t *testing.T) {
	step := ScenarioStep{Preset: "coarse", Duration: 0.5, Params: map[string]float64{"friction": 0.9}}
	cfg, err := step.Config(2)
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	if cfg.Name != "step3" {
		t.Errorf("expected default name step3, got %s", cfg.Name)
	}
	if cfg.Cloth.Nx != 8 || cfg.Duration != 0.5 || cfg.Physics.Friction != 0.9 {
		t.Errorf("unexpected config: nx=%d duration=%v friction=%v", cfg.Cloth.Nx, cfg.Duration, cfg.Physics.Friction)
	}

	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"unknown preset", ScenarioStep{Preset: "velvet"}},
		{"unknown param", ScenarioStep{Params: map[string]float64{"stiffness": 1}}},
		{"invalid value", ScenarioStep{Params: map[string]float64{"mass": -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.step.Config(0); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	saver := &memSaver{}
	var progress strings.Builder
	results, err := RunScenario(context.Background(), sc, saver, &progress)
	if err != nil {
		t.Fatalf("RunScenario failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(results))
	}
	if results[0].Result.StepsTaken != 6 || results[1].Result.StepsTaken != 3 {
		t.Errorf("steps taken: %d and %d, want 6 and 3", results[0].Result.StepsTaken, results[1].Result.StepsTaken)
	}
	if len(saver.saved) != 1 || saver.saved[0] != "step1" {
		t.Errorf("expected only step1 saved, got %v", saver.saved)
	}
	if results[0].RunID != "id_step1" || results[1].RunID != "" {
		t.Errorf("run ids: %q, %q", results[0].RunID, results[1].RunID)
	}
	if _, ok := results[1].Result.Metrics["max_stretch"]; !ok {
		t.Error("expected standard metrics on step results")
	}
	if !strings.Contains(progress.String(), "running step 2/2: stiff") {
		t.Errorf("progress output missing step 2: %q", progress.String())
	}
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Preset: "coarse", Duration: 0.05},
		{Preset: "velvet"},
	}}

	results, err := RunScenario(context.Background(), sc, nil, nil)
	if err == nil {
		t.Fatal("expected error from unknown preset")
	}
	if len(results) != 1 {
		t.Errorf("expected the completed step back, got %d", len(results))
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("coarse")
	base.Duration = 0.1

	mc := &MonteCarloConfig{
		Base:         base,
		Params:       []string{"friction", "orbit"},
		Perturbation: 0.2,
		NumTrials:    4,
		Seed:         7,
		Limit:        2,
	}

	first, err := RunMonteCarlo(context.Background(), mc)
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	second, err := RunMonteCarlo(context.Background(), mc)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		if first[i].TrialID != i {
			t.Errorf("trial %d out of order: %d", i, first[i].TrialID)
		}
		f := first[i].Values["friction"]
		if f < 0.3*0.8 || f > 0.3*1.2 {
			t.Errorf("trial %d friction %v outside +-20%% of 0.3", i, f)
		}
		if first[i].Values["friction"] != second[i].Values["friction"] || first[i].FinalMean != second[i].FinalMean {
			t.Errorf("trial %d not reproducible with the same seed", i)
		}
	}

	stable, unstable, invalid := MonteCarloStats(first)
	if stable != 4 || unstable != 0 || invalid != 0 {
		t.Errorf("expected 4 stable trials, got %d stable %d unstable %d invalid", stable, unstable, invalid)
	}
}

func TestRunMonteCarloMarksInvalidDraws(t *testing.T) {
	base := config.GetPreset("coarse")
	base.Duration = 0.05
	base.Physics.Friction = 1

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Params:       []string{"friction"},
		Perturbation: 0.1,
		NumTrials:    8,
		Seed:         3,
	})
	if err != nil {
		t.Fatalf("out-of-range draws must not fail the batch: %v", err)
	}

	for _, r := range results {
		over := r.Values["friction"] > 1
		if over != (r.Invalid != nil) {
			t.Errorf("trial %d friction %v: Invalid = %v", r.TrialID, r.Values["friction"], r.Invalid)
		}
		if over && !errors.Is(r.Invalid, dynamo.ErrParameterBounds) {
			t.Errorf("trial %d: expected ErrParameterBounds, got %v", r.TrialID, r.Invalid)
		}
		if !over && !r.Stable {
			t.Errorf("trial %d friction %v should have run stably", r.TrialID, r.Values["friction"])
		}
	}

	stable, unstable, invalid := MonteCarloStats(results)
	if stable+unstable+invalid != 8 || unstable != 0 {
		t.Errorf("counts: %d stable %d unstable %d invalid", stable, unstable, invalid)
	}
}

func TestRunMonteCarloBadInput(t *testing.T) {
	if _, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: config.DefaultConfig()}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("zero trials: expected ErrParameterBounds, got %v", err)
	}
	mc := &MonteCarloConfig{Base: config.DefaultConfig(), Params: []string{"stiffness"}, NumTrials: 1}
	if _, err := RunMonteCarlo(context.Background(), mc); err == nil {
		t.Error("unknown param: expected error")
	}
}
