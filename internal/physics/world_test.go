package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/physics"
)

const dt = 1.0 / 60

func noDamping() physics.Options {
	opts := physics.DefaultOptions()
	opts.Damping = 0
	return opts
}

var _ = Describe("World", func() {
	var w *physics.World

	BeforeEach(func() {
		w = physics.NewWorld(noDamping())
	})

	It("satisfies the dynamo.World contract", func() {
		var _ dynamo.World = w
	})

	Describe("Step", func() {
		It("rejects a non-positive timestep", func() {
			Expect(w.Step(0)).To(MatchError(dynamo.ErrInvalidTimestep))
			Expect(w.Step(-dt)).To(MatchError(dynamo.ErrInvalidTimestep))
			Expect(w.Step(math.NaN())).To(MatchError(dynamo.ErrInvalidTimestep))
			Expect(w.Steps()).To(Equal(0))
		})

		It("integrates gravity for a free body", func() {
			b := dynamo.NewBody(r3.Vec{Y: 5}, r3.Vec{}, 1)
			w.AddBody(b)

			Expect(w.Step(dt)).To(Succeed())

			Expect(b.Velocity.Y).To(BeNumerically("~", -9.81*dt, 1e-12))
			Expect(b.Position.Y).To(BeNumerically("~", 5-9.81*dt*dt, 1e-12))
			Expect(w.Time()).To(BeNumerically("~", dt, 1e-15))
			Expect(w.Steps()).To(Equal(1))
		})

		It("applies linear damping per second", func() {
			opts := noDamping()
			opts.Gravity = r3.Vec{}
			opts.Damping = 0.5
			dw := physics.NewWorld(opts)
			b := dynamo.NewBody(r3.Vec{}, r3.Vec{X: 1}, 1)
			dw.AddBody(b)

			Expect(dw.Step(1)).To(Succeed())

			Expect(b.Velocity.X).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("leaves massless bodies in place", func() {
			b := dynamo.NewBody(r3.Vec{Y: 1}, r3.Vec{}, 0)
			w.AddBody(b)

			Expect(w.Step(dt)).To(Succeed())

			Expect(b.Position).To(Equal(r3.Vec{Y: 1}))
			Expect(b.Velocity).To(Equal(r3.Vec{}))
		})

		It("restores a stretched distance constraint", func() {
			opts := noDamping()
			opts.Gravity = r3.Vec{}
			cw := physics.NewWorld(opts)
			a := dynamo.NewBody(r3.Vec{X: -1}, r3.Vec{}, 1)
			b := dynamo.NewBody(r3.Vec{X: 1}, r3.Vec{}, 1)
			cw.AddBody(a)
			cw.AddBody(b)
			cw.AddConstraint(&dynamo.DistanceConstraint{A: a, B: b, Distance: 1})

			Expect(cw.Step(dt)).To(Succeed())

			Expect(r3.Norm(r3.Sub(b.Position, a.Position))).To(BeNumerically("~", 1, 1e-9))
			Expect(a.Position.X).To(BeNumerically("~", -0.5, 1e-9))
			Expect(b.Position.X).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("moves only the free end of a constraint to a massless body", func() {
			opts := noDamping()
			opts.Gravity = r3.Vec{}
			cw := physics.NewWorld(opts)
			anchor := dynamo.NewBody(r3.Vec{}, r3.Vec{}, 0)
			free := dynamo.NewBody(r3.Vec{X: 2}, r3.Vec{}, 1)
			cw.AddBody(anchor)
			cw.AddBody(free)
			cw.AddConstraint(&dynamo.DistanceConstraint{A: anchor, B: free, Distance: 1})

			Expect(cw.Step(dt)).To(Succeed())

			Expect(anchor.Position).To(Equal(r3.Vec{}))
			Expect(free.Position.X).To(BeNumerically("~", 1, 1e-9))
		})

		It("reports divergence as a SimulationError", func() {
			b := dynamo.NewBody(r3.Vec{X: math.NaN()}, r3.Vec{}, 1)
			w.AddBody(b)

			err := w.Step(dt)

			Expect(err).To(MatchError(dynamo.ErrUnstable))
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(err.(*dynamo.SimulationError).Step).To(Equal(1))
		})

		It("skips validation when disabled", func() {
			opts := noDamping()
			opts.ValidateState = false
			vw := physics.NewWorld(opts)
			vw.AddBody(dynamo.NewBody(r3.Vec{X: math.Inf(1)}, r3.Vec{}, 1))

			Expect(vw.Step(dt)).To(Succeed())
		})
	})

	Describe("contacts", func() {
		ground := dynamo.NewPoseAxisAngle(r3.Vec{}, r3.Vec{X: -1}, math.Pi/2)

		It("keeps a falling body above the ground plane", func() {
			w.AddStaticBody(physics.Plane{}, ground)
			b := dynamo.NewBody(r3.Vec{Y: 0.01}, r3.Vec{Y: -10}, 1)
			w.AddBody(b)

			Expect(w.Step(dt)).To(Succeed())

			Expect(b.Position.Y).To(BeNumerically(">=", -1e-12))
			Expect(b.Velocity.Y).To(BeNumerically("~", 0, 1e-12))
		})

		It("slows sliding bodies with friction", func() {
			opts := noDamping()
			opts.Friction = 0.5
			fw := physics.NewWorld(opts)
			fw.AddStaticBody(physics.Plane{}, ground)
			b := dynamo.NewBody(r3.Vec{}, r3.Vec{X: 1}, 1)
			fw.AddBody(b)

			Expect(fw.Step(dt)).To(Succeed())

			Expect(b.Velocity.X).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("pushes bodies out of a kinematic sphere", func() {
			opts := noDamping()
			opts.Gravity = r3.Vec{}
			sw := physics.NewWorld(opts)
			sphere := sw.AddStaticBody(physics.Sphere{Radius: 0.13}, dynamo.NewPose(r3.Vec{Y: -1}))
			b := dynamo.NewBody(r3.Vec{Y: 0.05}, r3.Vec{}, 1)
			sw.AddBody(b)

			Expect(sw.Step(dt)).To(Succeed())
			Expect(b.Position.Y).To(Equal(0.05))

			sphere.SetPosition(r3.Vec{})
			Expect(sw.Step(dt)).To(Succeed())

			Expect(r3.Norm(b.Position)).To(BeNumerically("~", 0.13, 1e-9))
			Expect(b.Position.Y).To(BeNumerically(">", 0))
		})
	})

	Describe("cloth", func() {
		build := func() (*physics.World, *cloth.Grid) {
			cw := physics.NewWorld(physics.DefaultOptions())
			g := cloth.NewGrid(6, 6, 1, 1)
			g.Attach(cw)
			cloth.AttachConstraints(cw, g, cloth.BuildConstraints(g))
			cw.AddStaticBody(physics.Plane{}, dynamo.NewPoseAxisAngle(r3.Vec{}, r3.Vec{X: -1}, math.Pi/2))
			return cw, g
		}

		It("is deterministic for identical inputs", func() {
			w1, g1 := build()
			w2, g2 := build()

			for i := 0; i < 120; i++ {
				Expect(w1.Step(dt)).To(Succeed())
				Expect(w2.Step(dt)).To(Succeed())
			}

			for k := range g1.Bodies() {
				Expect(g1.Bodies()[k].Position).To(Equal(g2.Bodies()[k].Position))
				Expect(g1.Bodies()[k].Velocity).To(Equal(g2.Bodies()[k].Velocity))
			}
		})

		It("stays on the ground and near its rest lengths", func() {
			cw, g := build()

			for i := 0; i < 60; i++ {
				Expect(cw.Step(dt)).To(Succeed())
			}

			for _, b := range g.Bodies() {
				Expect(b.Position.Y).To(BeNumerically(">=", -1e-9))
			}
			for _, c := range cw.Constraints() {
				l := r3.Norm(r3.Sub(c.B.Position, c.A.Position))
				Expect(l).To(BeNumerically("~", c.Distance, 0.1*c.Distance))
			}
		})
	})
})
