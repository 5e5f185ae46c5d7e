package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Stretch reports the worst relative strain |len-rest|/rest seen on any link.
type Stretch struct {
	name    string
	links   []*dynamo.DistanceConstraint
	maximum float64
}

func NewStretch(links []*dynamo.DistanceConstraint) *Stretch {
	return &Stretch{
		name:  "max_stretch",
		links: links,
	}
}

func (s *Stretch) Name() string { return s.name }

func (s *Stretch) Observe(f dynamo.Frame) {
	for _, c := range s.links {
		if c.Distance <= 0 {
			continue
		}
		l := r3.Norm(r3.Sub(c.B.Position, c.A.Position))
		s.maximum = math.Max(s.maximum, math.Abs(l-c.Distance)/c.Distance)
	}
}

func (s *Stretch) Value() float64 { return s.maximum }

func (s *Stretch) Reset() { s.maximum = 0 }
