package analysis

import (
	"math"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

// MechanicalEnergy is kinetic plus gravitational potential energy of a
// point mass, with height measured from y = 0.
func MechanicalEnergy(t sim.Telemetry, mass, gravity float64) float64 {
	v2 := t.VelocityX*t.VelocityX + t.VelocityY*t.VelocityY
	return 0.5*mass*v2 + mass*gravity*t.PositionY
}

// EnergyDrift tracks the largest relative change of mechanical energy from
// the first observed sample.
type EnergyDrift struct {
	mass, gravity float64

	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(mass, gravity float64) *EnergyDrift {
	return &EnergyDrift{mass: mass, gravity: gravity}
}

func (e *EnergyDrift) Observe(t sim.Telemetry) {
	energy := MechanicalEnergy(t, e.mass, e.gravity)
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++

	if e.initial != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/math.Abs(e.initial))
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Initial() float64 { return e.initial }

func (e *EnergyDrift) Current() float64 { return e.current }

func (e *EnergyDrift) Reset() {
	e.initial, e.current, e.maxDrift, e.samples = 0, 0, 0, 0
}
