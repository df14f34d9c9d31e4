package compute

import (
	"math"
	"runtime"
	"sync"
)

// Below these sizes the goroutine fan-out costs more than it saves.
const (
	serialSpringThreshold   = 64
	serialParticleThreshold = 256
)

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) SpringForces(indices []int, rest, stiffness, damping, q, qd, f []float64) {
	n := len(rest)
	if n == 0 {
		return
	}

	if n < serialSpringThreshold || c.workers <= 1 {
		springRange(0, n, indices, rest, stiffness, damping, q, qd, f)
		return
	}

	// Per-worker accumulators reduced in worker order keep the result
	// bit-identical across runs even though two springs may share a
	// particle.
	workers := c.workers
	local := make([][]float64, workers)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunk
			end := start + chunk
			if end > n {
				end = n
			}
			if start >= end {
				return
			}

			buf := make([]float64, len(f))
			springRange(start, end, indices, rest, stiffness, damping, q, qd, buf)
			local[worker] = buf
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		buf := local[w]
		if buf == nil {
			continue
		}
		for i := range f {
			f[i] += buf[i]
		}
	}
}

// springRange accumulates forces for springs [start, end) into f.
func springRange(start, end int, indices []int, rest, stiffness, damping, q, qd, f []float64) {
	for s := start; s < end; s++ {
		i := indices[s*2]
		j := indices[s*2+1]

		dx := q[j*3] - q[i*3]
		dy := q[j*3+1] - q[i*3+1]
		dz := q[j*3+2] - q[i*3+2]

		l := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if l == 0 {
			continue
		}
		lInv := 1.0 / l
		ux, uy, uz := dx*lInv, dy*lInv, dz*lInv

		dvx := qd[j*3] - qd[i*3]
		dvy := qd[j*3+1] - qd[i*3+1]
		dvz := qd[j*3+2] - qd[i*3+2]
		relVel := dvx*ux + dvy*uy + dvz*uz

		// stiffness on the stretch, damping on the relative velocity
		// along the spring axis; equal and opposite on the endpoints.
		fs := stiffness[s]*(l-rest[s]) + damping[s]*relVel

		f[i*3] += fs * ux
		f[i*3+1] += fs * uy
		f[i*3+2] += fs * uz
		f[j*3] -= fs * ux
		f[j*3+1] -= fs * uy
		f[j*3+2] -= fs * uz
	}
}

func (c *CPUBackend) IntegrateParticles(q, qd, f, invMass []float64, gravity [3]float64, dt float64, qOut, qdOut []float64) {
	n := len(invMass)

	integrate := func(start, end int) {
		for i := start; i < end; i++ {
			im := invMass[i]
			if im == 0 {
				// anchors keep their declared position and velocity
				qOut[i*3] = q[i*3]
				qOut[i*3+1] = q[i*3+1]
				qOut[i*3+2] = q[i*3+2]
				qdOut[i*3] = qd[i*3]
				qdOut[i*3+1] = qd[i*3+1]
				qdOut[i*3+2] = qd[i*3+2]
				continue
			}

			vx := qd[i*3] + (f[i*3]*im+gravity[0])*dt
			vy := qd[i*3+1] + (f[i*3+1]*im+gravity[1])*dt
			vz := qd[i*3+2] + (f[i*3+2]*im+gravity[2])*dt

			qdOut[i*3] = vx
			qdOut[i*3+1] = vy
			qdOut[i*3+2] = vz
			qOut[i*3] = q[i*3] + vx*dt
			qOut[i*3+1] = q[i*3+1] + vy*dt
			qOut[i*3+2] = q[i*3+2] + vz*dt
		}
	}

	if n < serialParticleThreshold || c.workers <= 1 {
		integrate(0, n)
		return
	}
	parallelFor(n, c.workers, integrate)
}

// parallelFor splits [0, n) into one contiguous chunk per worker.
// Chunks never overlap, so callers writing i-indexed outputs need no
// further synchronization.
func parallelFor(n, workers int, fn func(start, end int)) {
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
