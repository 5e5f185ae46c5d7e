package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/physics"
)

var _ = Describe("Shapes", func() {
	DescribeTable("Plane contact",
		func(pose dynamo.Pose, p r3.Vec, hit bool, depth float64) {
			n, d, ok := physics.Plane{}.Contact(pose, p)
			Expect(ok).To(Equal(hit))
			if hit {
				Expect(d).To(BeNumerically("~", depth, 1e-12))
				Expect(r3.Norm(n)).To(BeNumerically("~", 1, 1e-12))
			}
		},
		Entry("unrotated, behind", dynamo.NewPose(r3.Vec{}), r3.Vec{Z: -0.25}, true, 0.25),
		Entry("unrotated, in front", dynamo.NewPose(r3.Vec{}), r3.Vec{Z: 0.25}, false, 0.0),
		Entry("ground, below", dynamo.NewPoseAxisAngle(r3.Vec{}, r3.Vec{X: -1}, math.Pi/2), r3.Vec{Y: -0.5}, true, 0.5),
		Entry("ground, above", dynamo.NewPoseAxisAngle(r3.Vec{}, r3.Vec{X: -1}, math.Pi/2), r3.Vec{Y: 0.5}, false, 0.0),
		Entry("ground, on surface", dynamo.NewPoseAxisAngle(r3.Vec{}, r3.Vec{X: -1}, math.Pi/2), r3.Vec{X: 3}, false, 0.0),
		Entry("offset plane", dynamo.NewPoseAxisAngle(r3.Vec{Y: -1}, r3.Vec{X: -1}, math.Pi/2), r3.Vec{Y: -1.5}, true, 0.5),
	)

	It("orients the ground plane normal along +Y", func() {
		n := physics.Plane{}.Normal(dynamo.NewPoseAxisAngle(r3.Vec{}, r3.Vec{X: -1}, math.Pi/2))
		Expect(n.X).To(BeNumerically("~", 0, 1e-12))
		Expect(n.Y).To(BeNumerically("~", 1, 1e-12))
		Expect(n.Z).To(BeNumerically("~", 0, 1e-12))
	})

	DescribeTable("Sphere contact",
		func(p r3.Vec, hit bool, depth float64) {
			_, d, ok := physics.Sphere{Radius: 0.5}.Contact(dynamo.NewPose(r3.Vec{X: 1}), p)
			Expect(ok).To(Equal(hit))
			if hit {
				Expect(d).To(BeNumerically("~", depth, 1e-12))
			}
		},
		Entry("outside", r3.Vec{X: 2}, false, 0.0),
		Entry("on surface", r3.Vec{X: 1.5}, false, 0.0),
		Entry("inside", r3.Vec{X: 1.25}, true, 0.25),
		Entry("at centre", r3.Vec{X: 1}, true, 0.5),
	)

	It("points the sphere normal away from the centre", func() {
		n, _, ok := physics.Sphere{Radius: 1}.Contact(dynamo.NewPose(r3.Vec{}), r3.Vec{Z: -0.5})
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(r3.Vec{Z: -1}))
	})
})
