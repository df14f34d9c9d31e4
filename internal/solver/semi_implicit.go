package solver

import (
	"github.com/san-kum/springlab/internal/sim"
)

// DefaultAngularDamping is applied to rigid body angular velocity each
// step.
const DefaultAngularDamping = 0.05

// SemiImplicit is a symplectic (semi-implicit) Euler solver: velocities
// are integrated from the current forces first, then positions from the
// new velocities. It is not unconditionally stable; stiffness*dt^2 must
// be small enough for the scene, which is the caller's modeling
// concern, not a solver error.
type SemiImplicit struct {
	AngularDamping float64

	// control holds a per-spring rest length offset applied to springs
	// whose control flag is SpringActuated.
	control []float64
	restEff []float64
}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{AngularDamping: DefaultAngularDamping}
}

// SetControl installs a per-spring actuation signal. Springs declared
// with sim.SpringActuated have their rest length offset by the signal;
// passive springs ignore it. Passing nil clears actuation.
func (s *SemiImplicit) SetControl(u []float64) {
	s.control = u
}

func (s *SemiImplicit) Step(m *sim.Model, in, out *sim.State, dt float64) error {
	if err := checkShapes(m, in, out); err != nil {
		return err
	}
	if dt == 0 {
		if out != in {
			out.CopyFrom(in)
		}
		return nil
	}

	backend := m.Backend()

	in.ClearForces()
	backend.SpringForces(m.SpringIndices, s.restLengths(m), m.SpringStiffness, m.SpringDamping,
		in.ParticleQ, in.ParticleQd, in.ParticleF)

	gravity := [3]float64{m.Gravity.X, m.Gravity.Y, m.Gravity.Z}
	backend.IntegrateParticles(in.ParticleQ, in.ParticleQd, in.ParticleF, m.ParticleInvMass,
		gravity, dt, out.ParticleQ, out.ParticleQd)

	s.integrateBodies(m, in, out, dt)

	out.Time = in.Time + dt
	return nil
}

// restLengths returns the model rest lengths, offset by the control
// signal for actuated springs. The scratch slice is reused across
// steps.
func (s *SemiImplicit) restLengths(m *sim.Model) []float64 {
	if len(s.control) == 0 {
		return m.SpringRest
	}
	if len(s.restEff) != m.SpringCount {
		s.restEff = make([]float64, m.SpringCount)
	}
	for i := 0; i < m.SpringCount; i++ {
		s.restEff[i] = m.SpringRest[i]
		if m.SpringControl[i] == sim.SpringActuated && i < len(s.control) {
			s.restEff[i] += s.control[i]
		}
	}
	return s.restEff
}

func (s *SemiImplicit) integrateBodies(m *sim.Model, in, out *sim.State, dt float64) {
	angScale := 1.0 / (1.0 + dt*s.AngularDamping)
	g := [3]float64{m.Gravity.X, m.Gravity.Y, m.Gravity.Z}

	for i := 0; i < m.BodyCount; i++ {
		im := m.BodyInvMass[i]
		for k := 0; k < 3; k++ {
			v := in.BodyQd[i*3+k]
			if im > 0 {
				v += (in.BodyF[i*3+k]*im + g[k]) * dt
			}
			out.BodyQd[i*3+k] = v
			out.BodyQ[i*3+k] = in.BodyQ[i*3+k] + v*dt
			out.BodyOmega[i*3+k] = in.BodyOmega[i*3+k] * angScale
		}
	}
}
