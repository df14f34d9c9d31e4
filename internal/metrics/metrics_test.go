package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/springlab/internal/sim"
)

func pairModel(t *testing.T, gravity sim.Vec3) *sim.Model {
	t.Helper()
	b := sim.NewBuilder()
	b.SetGravity(gravity)
	b.AddParticle(sim.Vec3{}, sim.Vec3{}, 2)
	b.AddParticle(sim.Vec3{X: 1}, sim.Vec3{}, 2)
	s := b.AddSpring(0, 1, 100, 0, sim.SpringPassive)
	b.SetSpringRest(s, 1)

	m, err := b.Finalize("cpu")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return m
}

func TestLinearMomentum(t *testing.T) {
	m := pairModel(t, sim.Vec3{})
	s := m.State()

	s.SetVelocity(0, sim.Vec3{X: 1})
	s.SetVelocity(1, sim.Vec3{X: -1})
	if got := Linear(m, s).Length(); got != 0 {
		t.Errorf("opposite velocities: momentum = %g, want 0", got)
	}

	s.SetVelocity(1, sim.Vec3{X: 1})
	if got := Linear(m, s); got != (sim.Vec3{X: 4}) {
		t.Errorf("momentum = %+v, want {4 0 0}", got)
	}
}

func TestTotalEnergy(t *testing.T) {
	m := pairModel(t, sim.Vec3{})
	s := m.State()

	// at rest length, at rest: zero energy
	if got := Total(m, s); got != 0 {
		t.Errorf("resting energy = %g, want 0", got)
	}

	// stretch by 1: potential = 0.5 * 100 * 1^2
	s.SetPosition(1, sim.Vec3{X: 2})
	if got := Total(m, s); math.Abs(got-50) > 1e-12 {
		t.Errorf("stretched energy = %g, want 50", got)
	}

	// add kinetic: 0.5 * 2 * 3^2
	s.SetVelocity(0, sim.Vec3{Y: 3})
	if got := Total(m, s); math.Abs(got-59) > 1e-12 {
		t.Errorf("energy = %g, want 59", got)
	}
}

func TestGravitationalPotential(t *testing.T) {
	b := sim.NewBuilder()
	b.AddParticle(sim.Vec3{Y: 2}, sim.Vec3{}, 1)
	m, err := b.Finalize("cpu")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	s := m.State()
	// -m*g·x with g = (0,-9.81,0): potential = 9.81 * 2
	if got := Total(m, s); math.Abs(got-19.62) > 1e-12 {
		t.Errorf("potential = %g, want 19.62", got)
	}
}

func TestEnergyDrift(t *testing.T) {
	m := pairModel(t, sim.Vec3{})
	drift := NewEnergyDrift(m)

	s := m.State()
	s.SetPosition(1, sim.Vec3{X: 2}) // energy 50
	drift.Observe(s, 0)
	if drift.Value() != 0 {
		t.Errorf("initial drift = %g, want 0", drift.Value())
	}

	s.SetPosition(1, sim.Vec3{X: 3}) // energy 200
	drift.Observe(s, 1)
	if got := drift.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("drift = %g, want 3", got)
	}

	drift.Reset()
	if drift.Value() != 0 {
		t.Error("drift not reset")
	}
}

func TestMaxDisplacement(t *testing.T) {
	m := pairModel(t, sim.Vec3{})
	d := NewMaxDisplacement(m)

	s := m.State()
	d.Observe(s, 0)
	if d.Value() != 0 {
		t.Errorf("displacement at start = %g, want 0", d.Value())
	}

	s.SetPosition(1, sim.Vec3{X: 1, Y: -2})
	d.Observe(s, 1)
	if got := d.Value(); math.Abs(got-2) > 1e-12 {
		t.Errorf("displacement = %g, want 2", got)
	}

	// value is a running max
	s.SetPosition(1, sim.Vec3{X: 1})
	d.Observe(s, 2)
	if got := d.Value(); math.Abs(got-2) > 1e-12 {
		t.Errorf("max displacement dropped to %g", got)
	}
}
