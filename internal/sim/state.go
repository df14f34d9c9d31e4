package sim

import "math"

// State holds the mutable per-step dynamic quantities for one
// simulation instant. A State is exclusively owned by the loop that
// steps it; concurrent readers must synchronize with the stepper.
// Solvers read one State and write another so callers can double
// buffer and swap.
type State struct {
	Time float64

	// stride 3
	ParticleQ  []float64
	ParticleQd []float64
	ParticleF  []float64

	BodyQ     []float64
	BodyQd    []float64
	BodyOmega []float64
	BodyF     []float64
}

func (s *State) Clone() *State {
	c := &State{
		Time:       s.Time,
		ParticleQ:  make([]float64, len(s.ParticleQ)),
		ParticleQd: make([]float64, len(s.ParticleQd)),
		ParticleF:  make([]float64, len(s.ParticleF)),
		BodyQ:      make([]float64, len(s.BodyQ)),
		BodyQd:     make([]float64, len(s.BodyQd)),
		BodyOmega:  make([]float64, len(s.BodyOmega)),
		BodyF:      make([]float64, len(s.BodyF)),
	}
	c.CopyFrom(s)
	return c
}

// CopyFrom overwrites s with the contents of o. Shapes must match.
func (s *State) CopyFrom(o *State) {
	s.Time = o.Time
	copy(s.ParticleQ, o.ParticleQ)
	copy(s.ParticleQd, o.ParticleQd)
	copy(s.ParticleF, o.ParticleF)
	copy(s.BodyQ, o.BodyQ)
	copy(s.BodyQd, o.BodyQd)
	copy(s.BodyOmega, o.BodyOmega)
	copy(s.BodyF, o.BodyF)
}

// ClearForces zeroes the per-particle and per-body force accumulators.
func (s *State) ClearForces() {
	for i := range s.ParticleF {
		s.ParticleF[i] = 0
	}
	for i := range s.BodyF {
		s.BodyF[i] = 0
	}
}

// Position returns the position of particle i.
func (s *State) Position(i int) Vec3 {
	return vecAt(s.ParticleQ, i)
}

// Velocity returns the velocity of particle i.
func (s *State) Velocity(i int) Vec3 {
	return vecAt(s.ParticleQd, i)
}

// SetPosition overwrites the position of particle i.
func (s *State) SetPosition(i int, v Vec3) {
	setVec(s.ParticleQ, i, v)
}

// SetVelocity overwrites the velocity of particle i.
func (s *State) SetVelocity(i int, v Vec3) {
	setVec(s.ParticleQd, i, v)
}

// IsValid reports whether the State is free of NaN and Inf values.
func (s *State) IsValid() bool {
	for _, a := range [][]float64{s.ParticleQ, s.ParticleQd, s.BodyQ, s.BodyQd, s.BodyOmega} {
		for _, v := range a {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
