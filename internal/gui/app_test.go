package gui

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
)

func TestAdvance(t *testing.T) {
	cfg := config.GetPreset("coarse")
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		a.advance(1.0 / 60)
	}

	if a.Done() {
		t.Fatalf("unexpected failure: %v", a.Err())
	}
	if got := a.scene.FrameCount(); got != 3 {
		t.Errorf("frames = %d, want 3", got)
	}
	if len(a.telemetry) != 3 {
		t.Errorf("telemetry samples = %d, want 3", len(a.telemetry))
	}
}

func TestAdvanceStopsOnFailure(t *testing.T) {
	cfg := config.GetPreset("coarse")
	cfg.Physics.Gravity[1] = math.NaN()
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	a.advance(1.0 / 60)

	if !a.Done() {
		t.Fatal("expected the run to end after a diverged step")
	}
	if !errors.Is(a.Err(), dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", a.Err())
	}
	if a.running {
		t.Error("expected stepping to stop")
	}

	a.advance(1.0 / 60)
	if got := a.scene.FrameCount(); got != 0 {
		t.Errorf("stepped after failure: frames = %d, want 0", got)
	}
}
