//go:build !cuda

package compute

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) SpringForces(indices []int, rest, stiffness, damping, q, qd, f []float64) {
	cpu := NewCPUBackend()
	cpu.SpringForces(indices, rest, stiffness, damping, q, qd, f)
}

func (c *CUDABackend) IntegrateParticles(q, qd, f, invMass []float64, gravity [3]float64, dt float64, qOut, qdOut []float64) {
	cpu := NewCPUBackend()
	cpu.IntegrateParticles(q, qd, f, invMass, gravity, dt, qOut, qdOut)
}
