package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

type Options struct {
	Gravity r3.Vec
	// Iterations is the number of constraint/contact projection passes per step.
	Iterations int
	// Damping is the fraction of velocity lost per second.
	Damping float64
	// Friction scales down tangential velocity at contacts, in [0, 1].
	Friction      float64
	ValidateState bool
}

func DefaultOptions() Options {
	return Options{
		Gravity:       r3.Vec{Y: -9.81},
		Iterations:    10,
		Damping:       0.01,
		Friction:      0.3,
		ValidateState: true,
	}
}

type contact struct {
	normal r3.Vec
	hit    bool
}

// World is a position-based solver for point masses, distance constraints and
// static colliders. It is not safe for concurrent use.
type World struct {
	opts        Options
	bodies      []*dynamo.Body
	constraints []*dynamo.DistanceConstraint
	statics     []*dynamo.StaticBody

	prev     []r3.Vec
	contacts []contact
	steps    int
	time     float64
}

func NewWorld(opts Options) *World {
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}
	return &World{opts: opts}
}

func (w *World) AddBody(b *dynamo.Body) {
	w.bodies = append(w.bodies, b)
	w.prev = append(w.prev, b.Position)
	w.contacts = append(w.contacts, contact{})
}

func (w *World) AddConstraint(c *dynamo.DistanceConstraint) {
	w.constraints = append(w.constraints, c)
}

func (w *World) AddStaticBody(s dynamo.Shape, pose dynamo.Pose) *dynamo.StaticBody {
	sb := &dynamo.StaticBody{Shape: s, Pose: pose}
	w.statics = append(w.statics, sb)
	return sb
}

func (w *World) Bodies() []*dynamo.Body                    { return w.bodies }
func (w *World) Constraints() []*dynamo.DistanceConstraint { return w.constraints }
func (w *World) Options() Options                          { return w.opts }
func (w *World) Steps() int                                { return w.steps }
func (w *World) Time() float64                             { return w.time }

// Step advances every body by dt seconds.
func (w *World) Step(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("step %v: %w", dt, dynamo.ErrInvalidTimestep)
	}

	damp := math.Pow(1-w.opts.Damping, dt)
	for k, b := range w.bodies {
		w.prev[k] = b.Position
		w.contacts[k] = contact{}
		if b.InvMass() == 0 {
			continue
		}
		b.Velocity = r3.Scale(damp, r3.Add(b.Velocity, r3.Scale(dt, w.opts.Gravity)))
		b.Position = r3.Add(b.Position, r3.Scale(dt, b.Velocity))
	}

	for i := 0; i < w.opts.Iterations; i++ {
		w.solveDistance()
		w.solveContacts()
	}

	invDt := 1 / dt
	for k, b := range w.bodies {
		if b.InvMass() == 0 {
			continue
		}
		b.Velocity = r3.Scale(invDt, r3.Sub(b.Position, w.prev[k]))
		if c := w.contacts[k]; c.hit {
			b.Velocity = w.contactVelocity(b.Velocity, c.normal)
		}
	}

	w.steps++
	w.time += dt

	if w.opts.ValidateState {
		for k, b := range w.bodies {
			if !b.IsValid() {
				return &dynamo.SimulationError{
					Step:    w.steps,
					Time:    w.time,
					Wrapped: fmt.Errorf("body %d: %w: %w", k, dynamo.ErrUnstable, dynamo.ErrInvalidState),
				}
			}
		}
	}

	return nil
}

func (w *World) solveDistance() {
	for _, c := range w.constraints {
		wa, wb := c.A.InvMass(), c.B.InvMass()
		sum := wa + wb
		if sum == 0 {
			continue
		}

		d := r3.Sub(c.B.Position, c.A.Position)
		l := r3.Norm(d)
		if l == 0 {
			continue
		}

		n := r3.Scale(1/l, d)
		corr := (l - c.Distance) / sum
		c.A.Position = r3.Add(c.A.Position, r3.Scale(wa*corr, n))
		c.B.Position = r3.Sub(c.B.Position, r3.Scale(wb*corr, n))
	}
}

func (w *World) solveContacts() {
	for k, b := range w.bodies {
		if b.InvMass() == 0 {
			continue
		}
		for _, s := range w.statics {
			n, depth, ok := s.Shape.Contact(s.Pose, b.Position)
			if !ok {
				continue
			}
			b.Position = r3.Add(b.Position, r3.Scale(depth, n))
			w.contacts[k] = contact{normal: n, hit: true}
		}
	}
}

// contactVelocity drops the velocity component into the surface and scales
// the tangential part by 1-Friction.
func (w *World) contactVelocity(v, n r3.Vec) r3.Vec {
	vn := r3.Dot(v, n)
	if vn < 0 {
		v = r3.Sub(v, r3.Scale(vn, n))
		vn = 0
	}
	vt := r3.Sub(v, r3.Scale(vn, n))
	return r3.Sub(v, r3.Scale(w.opts.Friction, vt))
}
