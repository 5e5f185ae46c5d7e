package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/physics"
)

// Scene is a cloth draped over a ground plane with an orbiting sphere. A Scene
// and its World are owned by one goroutine.
type Scene struct {
	cfg      *config.Config
	world    dynamo.World
	grid     *cloth.Grid
	links    []*dynamo.DistanceConstraint
	buffer   *cloth.VertexBuffer
	ground   *dynamo.StaticBody
	obstacle *dynamo.StaticBody

	frame int
	time  float64
}

// GroundPose orients a plane so its normal is +Y at the origin.
func GroundPose() dynamo.Pose {
	return dynamo.NewPoseAxisAngle(r3.Vec{}, r3.Vec{X: -1}, math.Pi/2)
}

// ObstaclePosition is the sphere centre at elapsed time t on an orbit of
// radius r in the XY plane.
func ObstaclePosition(r, t float64) r3.Vec {
	sin, cos := math.Sincos(t)
	return r3.Vec{X: r * sin, Y: r * cos, Z: 0}
}

func WorldOptions(cfg *config.Config) physics.Options {
	opts := physics.DefaultOptions()
	opts.Gravity = cfg.GravityVec()
	opts.Iterations = cfg.Physics.Iterations
	opts.Damping = cfg.Physics.Damping
	opts.Friction = cfg.Physics.Friction
	return opts
}

// NewScene builds the cloth, its constraints and the colliders into w.
func NewScene(cfg *config.Config, w dynamo.World) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := cloth.NewGrid(cfg.Cloth.Nx, cfg.Cloth.Ny, cfg.Cloth.Size, cfg.Cloth.Mass)
	g.Attach(w)
	links := cloth.AttachConstraints(w, g, cloth.BuildConstraints(g))

	ground := w.AddStaticBody(physics.Plane{}, GroundPose())
	sphere := physics.Sphere{Radius: cfg.ColliderRadius()}
	obstacle := w.AddStaticBody(sphere, dynamo.NewPose(ObstaclePosition(cfg.Obstacle.OrbitRadius, 0)))

	s := &Scene{
		cfg:      cfg,
		world:    w,
		grid:     g,
		links:    links,
		buffer:   cloth.NewVertexBuffer(cfg.Cloth.Nx, cfg.Cloth.Ny),
		ground:   ground,
		obstacle: obstacle,
	}
	if err := cloth.CheckDims(g, s.buffer); err != nil {
		return nil, err
	}
	cloth.Sync(g, s.buffer)

	return s, nil
}

// NewDefaultScene builds a scene in a fresh physics.World.
func NewDefaultScene(cfg *config.Config) (*Scene, error) {
	return NewScene(cfg, physics.NewWorld(WorldOptions(cfg)))
}

func (s *Scene) Config() *config.Config              { return s.cfg }
func (s *Scene) World() dynamo.World                 { return s.world }
func (s *Scene) Grid() *cloth.Grid                   { return s.grid }
func (s *Scene) Links() []*dynamo.DistanceConstraint { return s.links }
func (s *Scene) Buffer() *cloth.VertexBuffer         { return s.buffer }
func (s *Scene) Obstacle() *dynamo.StaticBody        { return s.obstacle }
func (s *Scene) Dt() float64                         { return s.cfg.Dt }
func (s *Scene) FrameCount() int                     { return s.frame }
func (s *Scene) Time() float64                       { return s.time }

// Frame advances the scene to elapsed time t: the obstacle moves to its orbit
// position, the world takes one fixed step, and the vertex buffer is synced.
func (s *Scene) Frame(t float64) error {
	s.obstacle.SetPosition(ObstaclePosition(s.cfg.Obstacle.OrbitRadius, t))

	if err := s.world.Step(s.cfg.Dt); err != nil {
		return fmt.Errorf("frame %d: %w", s.frame+1, err)
	}

	cloth.Sync(s.grid, s.buffer)
	s.frame++
	s.time = t
	return nil
}

// Snapshot returns the current frame view. It aliases scene storage.
func (s *Scene) Snapshot() dynamo.Frame {
	return dynamo.Frame{
		Step:           s.frame,
		Time:           s.time,
		Vertices:       s.buffer.Positions,
		Indices:        s.buffer.Triangles(),
		Bodies:         s.grid.Bodies(),
		Obstacle:       s.obstacle.Position(),
		ObstacleRadius: s.cfg.Obstacle.Radius,
	}
}

// Render hands the current frame to r and marks the buffer uploaded.
func (s *Scene) Render(r dynamo.Renderer) error {
	if err := r.Render(s.Snapshot()); err != nil {
		return fmt.Errorf("render frame %d: %w", s.frame, err)
	}
	s.buffer.Clear()
	return nil
}
