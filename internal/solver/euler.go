package solver

import "github.com/san-kum/springlab/internal/sim"

// ExplicitEuler integrates positions from the pre-step velocities.
// Kept for comparison runs; it drifts faster than SemiImplicit on
// oscillatory scenes and is not the default.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (e *ExplicitEuler) Step(m *sim.Model, in, out *sim.State, dt float64) error {
	if err := checkShapes(m, in, out); err != nil {
		return err
	}
	if dt == 0 {
		if out != in {
			out.CopyFrom(in)
		}
		return nil
	}

	in.ClearForces()
	m.Backend().SpringForces(m.SpringIndices, m.SpringRest, m.SpringStiffness, m.SpringDamping,
		in.ParticleQ, in.ParticleQd, in.ParticleF)

	for i := 0; i < m.ParticleCount; i++ {
		im := m.ParticleInvMass[i]
		if im == 0 {
			out.ParticleQ[i*3] = in.ParticleQ[i*3]
			out.ParticleQ[i*3+1] = in.ParticleQ[i*3+1]
			out.ParticleQ[i*3+2] = in.ParticleQ[i*3+2]
			out.ParticleQd[i*3] = in.ParticleQd[i*3]
			out.ParticleQd[i*3+1] = in.ParticleQd[i*3+1]
			out.ParticleQd[i*3+2] = in.ParticleQd[i*3+2]
			continue
		}

		// positions first, from the old velocity
		vx := in.ParticleQd[i*3]
		vy := in.ParticleQd[i*3+1]
		vz := in.ParticleQd[i*3+2]
		out.ParticleQ[i*3] = in.ParticleQ[i*3] + vx*dt
		out.ParticleQ[i*3+1] = in.ParticleQ[i*3+1] + vy*dt
		out.ParticleQ[i*3+2] = in.ParticleQ[i*3+2] + vz*dt

		out.ParticleQd[i*3] = vx + (in.ParticleF[i*3]*im+m.Gravity.X)*dt
		out.ParticleQd[i*3+1] = vy + (in.ParticleF[i*3+1]*im+m.Gravity.Y)*dt
		out.ParticleQd[i*3+2] = vz + (in.ParticleF[i*3+2]*im+m.Gravity.Z)*dt
	}

	out.Time = in.Time + dt
	return nil
}
