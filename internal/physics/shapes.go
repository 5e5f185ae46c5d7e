package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Plane is an infinite half-space. In local coordinates its surface is z = 0
// with the normal along +Z; the pose rotation orients it in the world.
type Plane struct{}

func (Plane) Normal(pose dynamo.Pose) r3.Vec {
	return pose.Rotate(r3.Vec{Z: 1})
}

func (pl Plane) Contact(pose dynamo.Pose, p r3.Vec) (r3.Vec, float64, bool) {
	n := pl.Normal(pose)
	d := r3.Dot(r3.Sub(p, pose.Position), n)
	if !(d < 0) {
		return r3.Vec{}, 0, false
	}
	return n, -d, true
}

// Sphere is a solid ball centred on the pose position.
type Sphere struct {
	Radius float64
}

func (s Sphere) Contact(pose dynamo.Pose, p r3.Vec) (r3.Vec, float64, bool) {
	d := r3.Sub(p, pose.Position)
	dist := r3.Norm(d)
	if !(dist < s.Radius) {
		return r3.Vec{}, 0, false
	}
	if dist == 0 {
		return r3.Vec{Y: 1}, s.Radius, true
	}
	return r3.Scale(1/dist, d), s.Radius - dist, true
}
