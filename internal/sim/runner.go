package sim

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Runner drives a Scene headlessly at its fixed timestep, feeding metrics,
// observers and an optional renderer once per frame.
type Runner struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	renderer  dynamo.Renderer
}

func NewRunner() *Runner {
	return &Runner{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (r *Runner) AddMetric(m dynamo.Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o dynamo.Observer)  { r.observers = append(r.observers, o) }
func (r *Runner) SetRenderer(rd dynamo.Renderer) { r.renderer = rd }

// Run steps s for cfg.Duration seconds. Frame k is taken at t = k*Dt. The
// initial state and every SampleEvery-th frame are recorded in the result.
// On cancellation or a step failure the partial result is returned with the
// error.
func (r *Runner) Run(ctx context.Context, s *Scene, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := r.validateConfig(s, cfg); err != nil {
		return nil, err
	}

	frames := cfg.Frames()
	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	samples := frames/every + 1
	result := &dynamo.Result{
		Times:      make([]float64, 0, samples),
		MeanHeight: make([]float64, 0, samples),
		Snapshots:  make([][]r3.Vec, 0, samples),
		Metrics:    make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	record(result, s)

	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if err := s.Frame(t); err != nil {
			return result, err
		}
		result.StepsTaken++

		f := s.Snapshot()
		for _, m := range r.metrics {
			m.Observe(f)
		}
		for _, obs := range r.observers {
			obs.OnFrame(f)
		}
		if r.renderer != nil {
			if err := s.Render(r.renderer); err != nil {
				return result, err
			}
		}

		if i%every == 0 {
			record(result, s)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) validateConfig(s *Scene, cfg dynamo.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrInvalidTimestep)
	}
	if cfg.Dt != s.Dt() {
		return fmt.Errorf("dt %f differs from the scene's fixed step %f: %w", cfg.Dt, s.Dt(), dynamo.ErrInvalidTimestep)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}

func record(result *dynamo.Result, s *Scene) {
	result.Times = append(result.Times, s.Time())
	result.MeanHeight = append(result.MeanHeight, s.Grid().MeanHeight())
	result.Snapshots = append(result.Snapshots, s.Buffer().Snapshot())
}
