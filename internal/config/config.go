package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

const (
	DefaultNx             = 15
	DefaultNy             = 15
	DefaultSize           = 1.0
	DefaultMass           = 1.0
	DefaultGravityY       = -9.81
	DefaultDt             = 1.0 / 60
	DefaultDuration       = 10.0
	DefaultIterations     = 10
	DefaultDamping        = 0.01
	DefaultFriction       = 0.3
	DefaultObstacleRadius = 0.1
	DefaultOrbitRadius    = 0.2
	DefaultColliderScale  = 1.3
)

// Config is the full description of a cloth scene and how to run it.
type Config struct {
	Name        string         `yaml:"name"`
	Cloth       ClothConfig    `yaml:"cloth"`
	Physics     PhysicsConfig  `yaml:"physics"`
	Obstacle    ObstacleConfig `yaml:"obstacle"`
	Dt          float64        `yaml:"dt"`
	Duration    float64        `yaml:"duration"`
	SampleEvery int            `yaml:"sample_every"`
}

type ClothConfig struct {
	Nx   int     `yaml:"nx"`
	Ny   int     `yaml:"ny"`
	Size float64 `yaml:"size"`
	Mass float64 `yaml:"mass"`
}

type PhysicsConfig struct {
	Gravity    [3]float64 `yaml:"gravity,flow"`
	Iterations int        `yaml:"iterations"`
	Damping    float64    `yaml:"damping"`
	Friction   float64    `yaml:"friction"`
}

type ObstacleConfig struct {
	// Radius is the drawn sphere radius; the collider is Radius*ColliderScale.
	Radius        float64 `yaml:"radius"`
	OrbitRadius   float64 `yaml:"orbit_radius"`
	ColliderScale float64 `yaml:"collider_scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Cloth: ClothConfig{
			Nx:   DefaultNx,
			Ny:   DefaultNy,
			Size: DefaultSize,
			Mass: DefaultMass,
		},
		Physics: PhysicsConfig{
			Gravity:    [3]float64{0, DefaultGravityY, 0},
			Iterations: DefaultIterations,
			Damping:    DefaultDamping,
			Friction:   DefaultFriction,
		},
		Obstacle: ObstacleConfig{
			Radius:        DefaultObstacleRadius,
			OrbitRadius:   DefaultOrbitRadius,
			ColliderScale: DefaultColliderScale,
		},
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: 1,
	}
}

// Load reads a yaml file, or an ini file when the extension is .ini or
// .gcfg, over the defaults and validates the result.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return LoadINI(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the scene cannot be built from.
func (c *Config) Validate() error {
	switch {
	case c.Cloth.Nx < 1 || c.Cloth.Ny < 1:
		return fmt.Errorf("grid %dx%d must be at least 1x1: %w", c.Cloth.Nx, c.Cloth.Ny, dynamo.ErrParameterBounds)
	case c.Cloth.Size <= 0:
		return fmt.Errorf("cloth size %g must be positive: %w", c.Cloth.Size, dynamo.ErrParameterBounds)
	case c.Cloth.Mass <= 0:
		return fmt.Errorf("particle mass %g must be positive: %w", c.Cloth.Mass, dynamo.ErrParameterBounds)
	case c.Dt <= 0:
		return fmt.Errorf("dt %g must be positive: %w", c.Dt, dynamo.ErrParameterBounds)
	case c.Duration <= 0:
		return fmt.Errorf("duration %g must be positive: %w", c.Duration, dynamo.ErrParameterBounds)
	case c.Physics.Iterations < 1:
		return fmt.Errorf("iterations %d must be at least 1: %w", c.Physics.Iterations, dynamo.ErrParameterBounds)
	case c.Physics.Damping < 0 || c.Physics.Damping >= 1:
		return fmt.Errorf("damping %g must be in [0, 1): %w", c.Physics.Damping, dynamo.ErrParameterBounds)
	case c.Physics.Friction < 0 || c.Physics.Friction > 1:
		return fmt.Errorf("friction %g must be in [0, 1]: %w", c.Physics.Friction, dynamo.ErrParameterBounds)
	case c.Obstacle.Radius < 0 || c.Obstacle.ColliderScale < 0:
		return fmt.Errorf("obstacle radius %g and scale %g must not be negative: %w", c.Obstacle.Radius, c.Obstacle.ColliderScale, dynamo.ErrParameterBounds)
	}
	return nil
}

func (c *Config) GravityVec() r3.Vec {
	return r3.Vec{X: c.Physics.Gravity[0], Y: c.Physics.Gravity[1], Z: c.Physics.Gravity[2]}
}

// ColliderRadius is the radius the physics world sees for the obstacle.
func (c *Config) ColliderRadius() float64 {
	return c.Obstacle.Radius * c.Obstacle.ColliderScale
}

// RunConfig returns the stepping parameters for a headless run.
func (c *Config) RunConfig() dynamo.Config {
	rc := dynamo.DefaultConfig()
	rc.Dt = c.Dt
	rc.Duration = c.Duration
	if c.SampleEvery > 0 {
		rc.SampleEvery = c.SampleEvery
	}
	return rc
}
