package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
)

type frameCounter struct {
	count int
	last  float64
}

func (m *frameCounter) Name() string { return "frames" }
func (m *frameCounter) Observe(f dynamo.Frame) {
	m.count++
	m.last = f.Time
}
func (m *frameCounter) Value() float64 { return float64(m.count) }
func (m *frameCounter) Reset()         { m.count = 0 }

type timeObserver struct{ times []float64 }

func (o *timeObserver) OnFrame(f dynamo.Frame) { o.times = append(o.times, f.Time) }

func TestRunnerRun(t *testing.T) {
	cfg := smallConfig()
	s, err := NewDefaultScene(cfg)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRunner()
	metric := &frameCounter{}
	obs := &timeObserver{}
	r.AddMetric(metric)
	r.AddObserver(obs)

	result, err := r.Run(context.Background(), s, cfg.RunConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	frames := cfg.RunConfig().Frames()
	if result.StepsTaken != frames {
		t.Errorf("expected %d steps, got %d", frames, result.StepsTaken)
	}
	if len(result.Snapshots) != frames+1 || len(result.Times) != frames+1 || len(result.MeanHeight) != frames+1 {
		t.Errorf("expected %d samples, got %d snapshots, %d times, %d heights",
			frames+1, len(result.Snapshots), len(result.Times), len(result.MeanHeight))
	}
	if result.Times[0] != 0 {
		t.Errorf("first sample should be the initial state, got t=%v", result.Times[0])
	}
	if got := result.Metrics["frames"]; got != float64(frames) {
		t.Errorf("expected metric %d, got %v", frames, got)
	}
	if len(obs.times) != frames {
		t.Errorf("expected %d observations, got %d", frames, len(obs.times))
	}
	if want := float64(frames) * cfg.Dt; obs.times[len(obs.times)-1] != want {
		t.Errorf("last frame at t=%v, want %v", obs.times[len(obs.times)-1], want)
	}
}

func TestRunnerRun_SampleEvery(t *testing.T) {
	cfg := smallConfig()
	cfg.SampleEvery = 10
	s, err := NewDefaultScene(cfg)
	if err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner().Run(context.Background(), s, cfg.RunConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := cfg.RunConfig().Frames()/10 + 1
	if len(result.Snapshots) != want {
		t.Errorf("expected %d samples, got %d", want, len(result.Snapshots))
	}
}

func TestRunnerRun_InvalidConfig(t *testing.T) {
	s, err := NewDefaultScene(smallConfig())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  dynamo.Config
		want error
	}{
		{"zero dt", dynamo.Config{Dt: 0, Duration: 1}, dynamo.ErrInvalidTimestep},
		{"variable dt", dynamo.Config{Dt: 0.01, Duration: 1}, dynamo.ErrInvalidTimestep},
		{"zero duration", dynamo.Config{Dt: s.Dt(), Duration: 0}, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner().Run(context.Background(), s, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunnerRun_Canceled(t *testing.T) {
	cfg := smallConfig()
	s, err := NewDefaultScene(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewRunner().Run(ctx, s, cfg.RunConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 || len(result.Snapshots) != 1 {
		t.Errorf("expected partial result holding only the initial state")
	}
}

func TestRunnerRun_Renderer(t *testing.T) {
	cfg := smallConfig()
	s, err := NewDefaultScene(cfg)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRunner()
	rd := &countingRenderer{}
	r.SetRenderer(rd)

	if _, err := r.Run(context.Background(), s, cfg.RunConfig()); err != nil {
		t.Fatal(err)
	}
	if len(rd.frames) != cfg.RunConfig().Frames() {
		t.Errorf("expected %d rendered frames, got %d", cfg.RunConfig().Frames(), len(rd.frames))
	}
}

func TestRunnerRun_Deterministic(t *testing.T) {
	run := func() *dynamo.Result {
		cfg := smallConfig()
		cfg.Duration = 3
		s, err := NewDefaultScene(cfg)
		if err != nil {
			t.Fatal(err)
		}
		res, err := NewRunner().Run(context.Background(), s, cfg.RunConfig())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := run(), run()
	d, err := MaxDeviation(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Errorf("repeated runs differ by %g", d)
	}
	if !Equal(a, b, 0) {
		t.Error("Equal(a, b, 0) = false for identical runs")
	}
}
