package compute

// Backend executes the data-parallel kernels of a simulation step.
// Position, velocity and force arrays are flat float64 slices with
// stride 3; spring endpoint indices are interleaved (i, j) pairs.
type Backend interface {
	Name() string
	Available() bool

	// SpringForces accumulates damped spring forces into f. Two springs
	// sharing a particle must not race: implementations accumulate into
	// per-worker buffers and reduce them in a fixed order so results
	// are bit-reproducible.
	SpringForces(indices []int, rest, stiffness, damping, q, qd, f []float64)

	// IntegrateParticles advances velocities then positions by dt,
	// writing qOut/qdOut. Particles with zero inverse mass are copied
	// through untouched.
	IntegrateParticles(q, qd, f, invMass []float64, gravity [3]float64, dt float64, qOut, qdOut []float64)

	Cleanup()
}

// Lookup resolves a device name to a backend. The empty string and
// "auto" select the best available backend. The second return is false
// for unknown or unavailable devices.
func Lookup(name string) (Backend, bool) {
	switch name {
	case "", "auto":
		return AutoSelect(), true
	case "cpu":
		return NewCPUBackend(), true
	case "cuda":
		b := NewCUDABackend()
		return b, b.Available()
	}
	return nil, false
}

// AutoSelect returns CUDA when available, else CPU.
func AutoSelect() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}
