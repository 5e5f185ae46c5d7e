package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// MinHeight is the lowest vertex y seen over the run.
type MinHeight struct {
	name    string
	minimum float64
	samples int
}

func NewMinHeight() *MinHeight {
	return &MinHeight{
		name:    "min_height",
		minimum: math.Inf(1),
	}
}

func (m *MinHeight) Name() string {
	return m.name
}

func (m *MinHeight) Observe(f dynamo.Frame) {
	for _, p := range f.Vertices {
		m.minimum = math.Min(m.minimum, p.Y)
	}
	m.samples++
}

func (m *MinHeight) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.minimum
}

func (m *MinHeight) Reset() {
	m.minimum = math.Inf(1)
	m.samples = 0
}

// Standard returns the metrics recorded for every persisted run.
func Standard(gravity r3.Vec, links []*dynamo.DistanceConstraint) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(gravity),
		NewEnergyDrift(gravity),
		NewStretch(links),
		NewStability(100),
		NewMinHeight(),
	}
}
