package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a point mass simulated by a World.
type Body struct {
	Position r3.Vec
	Velocity r3.Vec
	Mass     float64
}

func NewBody(pos, vel r3.Vec, mass float64) *Body {
	return &Body{Position: pos, Velocity: vel, Mass: mass}
}

// InvMass returns 1/Mass, or 0 for massless (immovable) bodies.
func (b *Body) InvMass() float64 {
	if b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) IsValid() bool {
	return IsFinite(b.Position) && IsFinite(b.Velocity)
}

func IsFinite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Pose places a shape in world space. The zero Pose is the identity.
type Pose struct {
	Position r3.Vec
	Rotation r3.Rotation
}

func NewPose(pos r3.Vec) Pose {
	return Pose{Position: pos}
}

// NewPoseAxisAngle returns a pose at pos rotated by angle radians about axis.
func NewPoseAxisAngle(pos, axis r3.Vec, angle float64) Pose {
	return Pose{Position: pos, Rotation: r3.NewRotation(angle, axis)}
}

// Rotate applies the pose orientation to a local direction.
func (p Pose) Rotate(v r3.Vec) r3.Vec {
	if p.Rotation == (r3.Rotation{}) {
		return v
	}
	return p.Rotation.Rotate(v)
}

// Shape is the collision geometry of a static or kinematic body.
type Shape interface {
	// Contact reports whether p penetrates the shape placed at pose. It
	// returns the outward surface normal and the penetration depth.
	Contact(pose Pose, p r3.Vec) (normal r3.Vec, depth float64, ok bool)
}

// StaticBody is an immovable collider. Its pose may be changed between steps
// to drive it kinematically.
type StaticBody struct {
	Shape Shape
	Pose  Pose
}

func (s *StaticBody) SetPosition(p r3.Vec) { s.Pose.Position = p }
func (s *StaticBody) Position() r3.Vec     { return s.Pose.Position }

type DistanceConstraint struct {
	A, B     *Body
	Distance float64
}

// World is the physics engine contract: bodies, distance constraints and
// static colliders are registered once, then Step advances them by dt seconds.
type World interface {
	AddBody(b *Body)
	AddConstraint(c *DistanceConstraint)
	AddStaticBody(s Shape, pose Pose) *StaticBody
	Step(dt float64) error
}

// Frame is the per-frame view handed to renderers, metrics and observers.
// Vertices and Bodies alias live scene storage and are only valid until the
// next step.
type Frame struct {
	Step     int
	Time     float64
	Vertices []r3.Vec
	Indices  []int
	Bodies   []*Body
	Obstacle r3.Vec
	// ObstacleRadius is the drawn radius, not the collider radius.
	ObstacleRadius float64
}

type Renderer interface {
	Render(f Frame) error
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      10.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Frames returns the number of fixed steps covering Duration.
func (c Config) Frames() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / c.Dt))
}

type Result struct {
	Times      []float64
	MeanHeight []float64
	Snapshots  [][]r3.Vec
	Metrics    map[string]float64
	StepsTaken int
}
