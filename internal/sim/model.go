package sim

import "github.com/san-kum/springlab/internal/compute"

// Model is the finalized, immutable description of a scene: topology
// and static physical parameters flattened into parallel arrays in
// declaration order. A Model is safely shared read-only by any number
// of States and solvers; all mutation happens in State. Changing
// topology requires building a new Model.
type Model struct {
	ParticleCount int
	SpringCount   int
	BodyCount     int
	JointCount    int

	// Per-particle static parameters. InvMass is zero for anchors.
	ParticleMass    []float64
	ParticleInvMass []float64

	// Initial conditions, stride 3.
	ParticleQ  []float64
	ParticleQd []float64

	// SpringIndices holds the (i, j) endpoint pairs interleaved in
	// declaration order, length 2*SpringCount.
	SpringIndices   []int
	SpringRest      []float64
	SpringStiffness []float64
	SpringDamping   []float64
	SpringControl   []int

	BodyMass    []float64
	BodyInvMass []float64
	BodyInertia []float64 // diagonal, stride 3
	BodyQ       []float64 // stride 3
	BodyQd      []float64 // stride 3
	BodyOmega   []float64 // stride 3

	JointKind   []int
	JointParent []int
	JointChild  []int

	TotalMass float64
	Gravity   Vec3

	// Device is the resolved backend name, e.g. "cpu".
	Device  string
	backend compute.Backend
}

// Backend returns the compute backend the Model was finalized against.
func (m *Model) Backend() compute.Backend {
	return m.backend
}

// State allocates a new State sized to the Model and initialized from
// its declared positions and velocities at time zero.
func (m *Model) State() *State {
	s := &State{
		ParticleQ:  make([]float64, m.ParticleCount*3),
		ParticleQd: make([]float64, m.ParticleCount*3),
		ParticleF:  make([]float64, m.ParticleCount*3),
		BodyQ:      make([]float64, m.BodyCount*3),
		BodyQd:     make([]float64, m.BodyCount*3),
		BodyOmega:  make([]float64, m.BodyCount*3),
		BodyF:      make([]float64, m.BodyCount*3),
	}
	copy(s.ParticleQ, m.ParticleQ)
	copy(s.ParticleQd, m.ParticleQd)
	copy(s.BodyQ, m.BodyQ)
	copy(s.BodyQd, m.BodyQd)
	copy(s.BodyOmega, m.BodyOmega)
	return s
}

// Matches reports whether a State's array shapes fit this Model.
func (m *Model) Matches(s *State) bool {
	return len(s.ParticleQ) == m.ParticleCount*3 &&
		len(s.ParticleQd) == m.ParticleCount*3 &&
		len(s.ParticleF) == m.ParticleCount*3 &&
		len(s.BodyQ) == m.BodyCount*3 &&
		len(s.BodyQd) == m.BodyCount*3 &&
		len(s.BodyOmega) == m.BodyCount*3 &&
		len(s.BodyF) == m.BodyCount*3
}
