package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// SystemEnergy is kinetic plus gravitational potential energy of the bodies,
// with potential measured from the origin along gravity.
func SystemEnergy(bodies []*dynamo.Body, gravity r3.Vec) float64 {
	var e float64
	for _, b := range bodies {
		if b.Mass <= 0 {
			continue
		}
		e += 0.5 * b.Mass * r3.Norm2(b.Velocity)
		e -= b.Mass * r3.Dot(gravity, b.Position)
	}
	return e
}

type Energy struct {
	name        string
	gravity     r3.Vec
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity r3.Vec) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f dynamo.Frame) {
	if len(f.Bodies) == 0 {
		return
	}
	e.totalEnergy += SystemEnergy(f.Bodies, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure of the system energy from
// its first observed value. Damping and contact make the cloth lose energy, so
// a drift well above 1 usually means the solver gained energy somewhere.
type EnergyDrift struct {
	name          string
	gravity       r3.Vec
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity r3.Vec) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f dynamo.Frame) {
	if len(f.Bodies) == 0 {
		return
	}

	energy := SystemEnergy(f.Bodies, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
