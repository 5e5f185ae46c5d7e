package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/clothsim/internal/dynamo"
)

type param struct {
	get func(c *Config) float64
	set func(c *Config, v float64)
}

// params maps the names accepted by Get and Set to the field each one
// addresses. Integer fields are truncated on Set.
var params = map[string]param{
	"nx": {
		func(c *Config) float64 { return float64(c.Cloth.Nx) },
		func(c *Config, v float64) { c.Cloth.Nx = int(v) },
	},
	"ny": {
		func(c *Config) float64 { return float64(c.Cloth.Ny) },
		func(c *Config, v float64) { c.Cloth.Ny = int(v) },
	},
	"size": {
		func(c *Config) float64 { return c.Cloth.Size },
		func(c *Config, v float64) { c.Cloth.Size = v },
	},
	"mass": {
		func(c *Config) float64 { return c.Cloth.Mass },
		func(c *Config, v float64) { c.Cloth.Mass = v },
	},
	"gravity": {
		func(c *Config) float64 { return c.Physics.Gravity[1] },
		func(c *Config, v float64) { c.Physics.Gravity[1] = v },
	},
	"iterations": {
		func(c *Config) float64 { return float64(c.Physics.Iterations) },
		func(c *Config, v float64) { c.Physics.Iterations = int(v) },
	},
	"damping": {
		func(c *Config) float64 { return c.Physics.Damping },
		func(c *Config, v float64) { c.Physics.Damping = v },
	},
	"friction": {
		func(c *Config) float64 { return c.Physics.Friction },
		func(c *Config, v float64) { c.Physics.Friction = v },
	},
	"radius": {
		func(c *Config) float64 { return c.Obstacle.Radius },
		func(c *Config, v float64) { c.Obstacle.Radius = v },
	},
	"orbit": {
		func(c *Config) float64 { return c.Obstacle.OrbitRadius },
		func(c *Config, v float64) { c.Obstacle.OrbitRadius = v },
	},
	"collider_scale": {
		func(c *Config) float64 { return c.Obstacle.ColliderScale },
		func(c *Config, v float64) { c.Obstacle.ColliderScale = v },
	},
	"dt": {
		func(c *Config) float64 { return c.Dt },
		func(c *Config, v float64) { c.Dt = v },
	},
	"duration": {
		func(c *Config) float64 { return c.Duration },
		func(c *Config, v float64) { c.Duration = v },
	},
}

func lookup(name string) (param, error) {
	p, ok := params[name]
	if !ok {
		return param{}, fmt.Errorf("unknown parameter %q (available: %v): %w", name, ParamNames(), dynamo.ErrParameterBounds)
	}
	return p, nil
}

// Get reads one numeric parameter by name.
func (c *Config) Get(name string) (float64, error) {
	p, err := lookup(name)
	if err != nil {
		return 0, err
	}
	return p.get(c), nil
}

// Set writes one numeric parameter by name. The result is not validated.
func (c *Config) Set(name string, v float64) error {
	p, err := lookup(name)
	if err != nil {
		return err
	}
	p.set(c, v)
	return nil
}

// Apply sets every parameter in values, in name order.
func (c *Config) Apply(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
