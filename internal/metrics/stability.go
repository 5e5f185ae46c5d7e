package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Stability is the fraction of frames in which every vertex is finite and
// within threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Frame) {
	s.samples++
	for _, p := range f.Vertices {
		if !dynamo.IsFinite(p) || math.Abs(p.X) > s.threshold || math.Abs(p.Y) > s.threshold || math.Abs(p.Z) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
