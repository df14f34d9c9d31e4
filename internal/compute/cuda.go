//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void spring_forces_gpu(const int* indices, const float* rest, const float* ke, const float* kd,
                              const float* q, const float* qd, float* f, int springs, int particles);
extern void integrate_particles_gpu(const float* q, const float* qd, const float* f, const float* inv_mass,
                                    float gx, float gy, float gz, float dt,
                                    float* q_out, float* qd_out, int particles);
*/
import "C"
import "unsafe"

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) SpringForces(indices []int, rest, stiffness, damping, q, qd, f []float64) {
	if !c.available || len(rest) == 0 {
		NewCPUBackend().SpringForces(indices, rest, stiffness, damping, q, qd, f)
		return
	}

	springs := len(rest)
	particles := len(q) / 3

	idx := make([]C.int, len(indices))
	for i, v := range indices {
		idx[i] = C.int(v)
	}
	restF := toF32(rest)
	keF := toF32(stiffness)
	kdF := toF32(damping)
	qF := toF32(q)
	qdF := toF32(qd)
	fF := toF32(f)

	C.spring_forces_gpu(
		(*C.int)(unsafe.Pointer(&idx[0])),
		(*C.float)(unsafe.Pointer(&restF[0])),
		(*C.float)(unsafe.Pointer(&keF[0])),
		(*C.float)(unsafe.Pointer(&kdF[0])),
		(*C.float)(unsafe.Pointer(&qF[0])),
		(*C.float)(unsafe.Pointer(&qdF[0])),
		(*C.float)(unsafe.Pointer(&fF[0])),
		C.int(springs), C.int(particles),
	)

	for i := range f {
		f[i] = float64(fF[i])
	}
}

func (c *CUDABackend) IntegrateParticles(q, qd, f, invMass []float64, gravity [3]float64, dt float64, qOut, qdOut []float64) {
	if !c.available || len(invMass) == 0 {
		NewCPUBackend().IntegrateParticles(q, qd, f, invMass, gravity, dt, qOut, qdOut)
		return
	}

	particles := len(invMass)
	qF := toF32(q)
	qdF := toF32(qd)
	fF := toF32(f)
	imF := toF32(invMass)
	qOutF := make([]float32, len(qOut))
	qdOutF := make([]float32, len(qdOut))

	C.integrate_particles_gpu(
		(*C.float)(unsafe.Pointer(&qF[0])),
		(*C.float)(unsafe.Pointer(&qdF[0])),
		(*C.float)(unsafe.Pointer(&fF[0])),
		(*C.float)(unsafe.Pointer(&imF[0])),
		C.float(gravity[0]), C.float(gravity[1]), C.float(gravity[2]),
		C.float(dt),
		(*C.float)(unsafe.Pointer(&qOutF[0])),
		(*C.float)(unsafe.Pointer(&qdOutF[0])),
		C.int(particles),
	)

	for i := range qOut {
		qOut[i] = float64(qOutF[i])
		qdOut[i] = float64(qdOutF[i])
	}
}

func toF32(a []float64) []float32 {
	out := make([]float32, len(a))
	for i, v := range a {
		out[i] = float32(v)
	}
	return out
}
