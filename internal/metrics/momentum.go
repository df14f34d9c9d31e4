package metrics

import "github.com/san-kum/springlab/internal/sim"

// Momentum tracks the magnitude of the total linear momentum at the
// last observed state. Internal spring forces are equal and opposite,
// so an isolated scene without gravity conserves this.
type Momentum struct {
	model *sim.Model
	last  float64
}

func NewMomentum(m *sim.Model) *Momentum {
	return &Momentum{model: m}
}

func (p *Momentum) Name() string { return "momentum" }

func (p *Momentum) Observe(s *sim.State, t float64) {
	p.last = Linear(p.model, s).Length()
}

func (p *Momentum) Value() float64 { return p.last }

func (p *Momentum) Reset() { p.last = 0 }

// Linear returns the total linear momentum vector of the particles.
func Linear(m *sim.Model, s *sim.State) sim.Vec3 {
	var total sim.Vec3
	for i := 0; i < m.ParticleCount; i++ {
		total = total.Add(s.Velocity(i).Scale(m.ParticleMass[i]))
	}
	return total
}

// MaxDisplacement tracks the largest distance any particle travels
// from its declared initial position.
type MaxDisplacement struct {
	model *sim.Model
	max   float64
}

func NewMaxDisplacement(m *sim.Model) *MaxDisplacement {
	return &MaxDisplacement{model: m}
}

func (d *MaxDisplacement) Name() string { return "max_displacement" }

func (d *MaxDisplacement) Observe(s *sim.State, t float64) {
	for i := 0; i < d.model.ParticleCount; i++ {
		init := sim.Vec3{
			X: d.model.ParticleQ[i*3],
			Y: d.model.ParticleQ[i*3+1],
			Z: d.model.ParticleQ[i*3+2],
		}
		dist := s.Position(i).Sub(init).Length()
		if dist > d.max {
			d.max = dist
		}
	}
}

func (d *MaxDisplacement) Value() float64 { return d.max }
func (d *MaxDisplacement) Reset()         { d.max = 0 }
