package config

import "sort"

func preset(name string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Name = name
	edit(c)
	return c
}

var Presets = map[string]*Config{
	"default": preset("default", func(c *Config) {}),
	"coarse": preset("coarse", func(c *Config) {
		c.Cloth.Nx, c.Cloth.Ny = 8, 8
	}),
	"fine": preset("fine", func(c *Config) {
		c.Cloth.Nx, c.Cloth.Ny = 30, 30
		c.Physics.Iterations = 20
	}),
	"heavy": preset("heavy", func(c *Config) {
		c.Cloth.Mass = 2
		c.Physics.Friction = 0.6
	}),
	"silk": preset("silk", func(c *Config) {
		c.Cloth.Mass = 0.25
		c.Physics.Damping = 0.05
		c.Physics.Friction = 0.1
	}),
	"zero_g": preset("zero_g", func(c *Config) {
		c.Physics.Gravity = [3]float64{0, 0, 0}
	}),
	"wide_orbit": preset("wide_orbit", func(c *Config) {
		c.Obstacle.OrbitRadius = 0.35
		c.Obstacle.Radius = 0.15
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
