// Package metrics provides run-level observables computed from States:
// energy, linear momentum and displacement. Each type satisfies the
// solver.Metric interface.
package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/sim"
)

// Energy tracks the mean total mechanical energy of the particle
// system: kinetic plus spring potential plus gravitational potential.
type Energy struct {
	model   *sim.Model
	samples int
	total   float64
}

func NewEnergy(m *sim.Model) *Energy {
	return &Energy{model: m}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(s *sim.State, t float64) {
	e.total += Total(e.model, s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Total returns the instantaneous mechanical energy of a state.
func Total(m *sim.Model, s *sim.State) float64 {
	energy := 0.0

	for i := 0; i < m.ParticleCount; i++ {
		v := s.Velocity(i)
		energy += 0.5 * m.ParticleMass[i] * v.Dot(v)
		// potential relative to the gravity direction
		energy -= m.ParticleMass[i] * m.Gravity.Dot(s.Position(i))
	}

	for k := 0; k < m.SpringCount; k++ {
		i := m.SpringIndices[k*2]
		j := m.SpringIndices[k*2+1]
		stretch := s.Position(j).Sub(s.Position(i)).Length() - m.SpringRest[k]
		energy += 0.5 * m.SpringStiffness[k] * stretch * stretch
	}

	return energy
}

// EnergyDrift tracks the largest relative deviation from the initial
// energy over a run. Symplectic integrators keep this bounded for
// undamped scenes.
type EnergyDrift struct {
	model    *sim.Model
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(m *sim.Model) *EnergyDrift {
	return &EnergyDrift{model: m}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s *sim.State, t float64) {
	energy := Total(e.model, s)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
