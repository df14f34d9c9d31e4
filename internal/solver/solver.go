package solver

import (
	"fmt"

	"github.com/san-kum/springlab/internal/sim"
)

// Solver advances a State by one time step under a Model. Step reads
// in and writes out; in and out may alias for in-place stepping.
// Implementations never mutate the Model.
type Solver interface {
	Step(m *sim.Model, in, out *sim.State, dt float64) error
}

// checkShapes fails with sim.ErrInvalidState before any mutation when
// either State does not fit the Model.
func checkShapes(m *sim.Model, in, out *sim.State) error {
	if !m.Matches(in) {
		return fmt.Errorf("%w: input state sized for %d particles", sim.ErrInvalidState, len(in.ParticleQ)/3)
	}
	if !m.Matches(out) {
		return fmt.Errorf("%w: output state sized for %d particles", sim.ErrInvalidState, len(out.ParticleQ)/3)
	}
	return nil
}
