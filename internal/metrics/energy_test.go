package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

var gravity = r3.Vec{Y: -9.81}

func frameOf(bodies ...*dynamo.Body) dynamo.Frame {
	f := dynamo.Frame{Bodies: bodies}
	for _, b := range bodies {
		f.Vertices = append(f.Vertices, b.Position)
	}
	return f
}

func TestEnergy(t *testing.T) {
	m := NewEnergy(gravity)

	b := dynamo.NewBody(r3.Vec{Y: 1}, r3.Vec{X: 1}, 2)
	expected := 0.5*2*1 + 2*9.81*1

	m.Observe(frameOf(b))
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Observe(frameOf(b))
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("mean of equal samples should be %f, got %f", expected, m.Value())
	}
}

func TestEnergy_IgnoresMassless(t *testing.T) {
	m := NewEnergy(gravity)
	m.Observe(frameOf(dynamo.NewBody(r3.Vec{Y: 5}, r3.Vec{X: 3}, 0)))
	if m.Value() != 0 {
		t.Errorf("expected zero energy for a static body, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(gravity)

	m.Observe(frameOf(dynamo.NewBody(r3.Vec{Y: 1}, r3.Vec{X: 1}, 1)))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(gravity)
	b := dynamo.NewBody(r3.Vec{Y: 1}, r3.Vec{}, 1)

	m.Observe(frameOf(b))
	if m.Value() != 0 {
		t.Fatalf("drift after one sample should be 0, got %f", m.Value())
	}

	b.Position.Y = 0.5
	m.Observe(frameOf(b))
	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("expected drift 0.5, got %f", m.Value())
	}

	b.Position.Y = 0.9
	m.Observe(frameOf(b))
	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("drift should keep its maximum, got %f", m.Value())
	}
}

func TestStretch(t *testing.T) {
	a := dynamo.NewBody(r3.Vec{}, r3.Vec{}, 1)
	b := dynamo.NewBody(r3.Vec{X: 1.2}, r3.Vec{}, 1)
	c := dynamo.NewBody(r3.Vec{X: 1.2, Y: 0.9}, r3.Vec{}, 1)
	m := NewStretch([]*dynamo.DistanceConstraint{
		{A: a, B: b, Distance: 1},
		{A: b, B: c, Distance: 1},
	})

	m.Observe(frameOf(a, b, c))
	if math.Abs(m.Value()-0.2) > 1e-9 {
		t.Errorf("expected stretch 0.2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero stretch after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	if m.Value() != 1 {
		t.Errorf("stability with no samples should be 1, got %f", m.Value())
	}

	m.Observe(dynamo.Frame{Vertices: []r3.Vec{{X: 1}, {Y: -2}}})
	m.Observe(dynamo.Frame{Vertices: []r3.Vec{{X: 1}, {Z: 11}}})
	m.Observe(dynamo.Frame{Vertices: []r3.Vec{{X: math.NaN()}}})
	m.Observe(dynamo.Frame{Vertices: []r3.Vec{{}}})

	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestMinHeight(t *testing.T) {
	m := NewMinHeight()
	if m.Value() != 0 {
		t.Errorf("expected 0 before any sample, got %f", m.Value())
	}

	m.Observe(dynamo.Frame{Vertices: []r3.Vec{{Y: 0.3}, {Y: -0.1}}})
	m.Observe(dynamo.Frame{Vertices: []r3.Vec{{Y: 0.2}}})
	if m.Value() != -0.1 {
		t.Errorf("expected -0.1, got %f", m.Value())
	}
}

func TestStandard(t *testing.T) {
	ms := Standard(gravity, nil)
	seen := map[string]bool{}
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(ms) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(ms))
	}
}
