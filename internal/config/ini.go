package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// iniFile mirrors Config for gcfg, which cannot decode arrays.
type iniFile struct {
	Scene    iniScene    `gcfg:"scene"`
	Cloth    iniCloth    `gcfg:"cloth"`
	Physics  iniPhysics  `gcfg:"physics"`
	Obstacle iniObstacle `gcfg:"obstacle"`
}

type iniScene struct {
	Name        string  `gcfg:"name"`
	Dt          float64 `gcfg:"dt"`
	Duration    float64 `gcfg:"duration"`
	SampleEvery int     `gcfg:"sample-every"`
}

type iniCloth struct {
	Nx   int     `gcfg:"nx"`
	Ny   int     `gcfg:"ny"`
	Size float64 `gcfg:"size"`
	Mass float64 `gcfg:"mass"`
}

type iniPhysics struct {
	GravityX   float64 `gcfg:"gravity-x"`
	GravityY   float64 `gcfg:"gravity-y"`
	GravityZ   float64 `gcfg:"gravity-z"`
	Iterations int     `gcfg:"iterations"`
	Damping    float64 `gcfg:"damping"`
	Friction   float64 `gcfg:"friction"`
}

type iniObstacle struct {
	Radius        float64 `gcfg:"radius"`
	OrbitRadius   float64 `gcfg:"orbit-radius"`
	ColliderScale float64 `gcfg:"collider-scale"`
}

func newINIFile(c *Config) *iniFile {
	f := &iniFile{}
	f.Scene.Name = c.Name
	f.Scene.Dt = c.Dt
	f.Scene.Duration = c.Duration
	f.Scene.SampleEvery = c.SampleEvery
	f.Cloth.Nx, f.Cloth.Ny = c.Cloth.Nx, c.Cloth.Ny
	f.Cloth.Size, f.Cloth.Mass = c.Cloth.Size, c.Cloth.Mass
	f.Physics.GravityX = c.Physics.Gravity[0]
	f.Physics.GravityY = c.Physics.Gravity[1]
	f.Physics.GravityZ = c.Physics.Gravity[2]
	f.Physics.Iterations = c.Physics.Iterations
	f.Physics.Damping = c.Physics.Damping
	f.Physics.Friction = c.Physics.Friction
	f.Obstacle.Radius = c.Obstacle.Radius
	f.Obstacle.OrbitRadius = c.Obstacle.OrbitRadius
	f.Obstacle.ColliderScale = c.Obstacle.ColliderScale
	return f
}

func (f *iniFile) config() *Config {
	return &Config{
		Name: f.Scene.Name,
		Cloth: ClothConfig{
			Nx:   f.Cloth.Nx,
			Ny:   f.Cloth.Ny,
			Size: f.Cloth.Size,
			Mass: f.Cloth.Mass,
		},
		Physics: PhysicsConfig{
			Gravity:    [3]float64{f.Physics.GravityX, f.Physics.GravityY, f.Physics.GravityZ},
			Iterations: f.Physics.Iterations,
			Damping:    f.Physics.Damping,
			Friction:   f.Physics.Friction,
		},
		Obstacle: ObstacleConfig{
			Radius:        f.Obstacle.Radius,
			OrbitRadius:   f.Obstacle.OrbitRadius,
			ColliderScale: f.Obstacle.ColliderScale,
		},
		Dt:          f.Scene.Dt,
		Duration:    f.Scene.Duration,
		SampleEvery: f.Scene.SampleEvery,
	}
}

// LoadINI reads an ini-style scene file. Keys left out keep their defaults.
func LoadINI(path string) (*Config, error) {
	f := newINIFile(DefaultConfig())
	if err := gcfg.ReadFileInto(f, path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg := f.config()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// parseINI is LoadINI for in-memory text.
func parseINI(text string) (*Config, error) {
	f := newINIFile(DefaultConfig())
	if err := gcfg.ReadStringInto(f, text); err != nil {
		return nil, err
	}
	cfg := f.config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
