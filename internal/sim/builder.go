package sim

import (
	"fmt"

	"github.com/san-kum/springlab/internal/compute"
)

// Spring control flags.
const (
	SpringPassive  = 0
	SpringActuated = 1
)

// Joint kinds. Joints are carried through finalize for downstream
// consumers; the solver only validates them.
const (
	JointFixed = iota
	JointBall
	JointHinge
)

// World is the parent index of a joint anchored to the world frame.
const World = -1

// restFromGeometry marks a spring whose rest length is taken from the
// distance between its endpoints at finalize time.
const restFromGeometry = -1.0

type particle struct {
	q, qd Vec3
	mass  float64
}

type spring struct {
	i, j      int
	stiffness float64
	damping   float64
	control   int
	rest      float64
}

type rigidBody struct {
	q, qd   Vec3
	omega   Vec3
	mass    float64
	inertia Vec3
}

type joint struct {
	kind   int
	parent int
	child  int
}

// Builder accumulates scene entities before compilation into a Model.
// Indices returned by the Add methods are assigned in declaration order
// and remain stable for the lifetime of any Model finalized from this
// Builder. A Builder is not safe for concurrent use.
type Builder struct {
	particles []particle
	springs   []spring
	bodies    []rigidBody
	joints    []joint
	gravity   Vec3
}

func NewBuilder() *Builder {
	return &Builder{
		gravity: Vec3{0, -9.81, 0},
	}
}

// SetGravity overrides the default gravity vector (0, -9.81, 0).
func (b *Builder) SetGravity(g Vec3) {
	b.gravity = g
}

// AddParticle registers a particle and returns its index. A mass of zero
// marks a kinematic anchor that is excluded from integration.
func (b *Builder) AddParticle(pos, vel Vec3, mass float64) int {
	b.particles = append(b.particles, particle{q: pos, qd: vel, mass: mass})
	return len(b.particles) - 1
}

// AddSpring registers a damped spring between particles i and j and
// returns its index. The rest length defaults to the distance between
// the endpoints at finalize time; use SetSpringRest to override it.
// Endpoint indices are validated at finalize, not here.
func (b *Builder) AddSpring(i, j int, stiffness, damping float64, control int) int {
	b.springs = append(b.springs, spring{
		i: i, j: j,
		stiffness: stiffness,
		damping:   damping,
		control:   control,
		rest:      restFromGeometry,
	})
	return len(b.springs) - 1
}

// SetSpringRest fixes the rest length of spring idx instead of deriving
// it from the initial particle positions.
func (b *Builder) SetSpringRest(idx int, rest float64) {
	b.springs[idx].rest = rest
}

// AddBody registers a rigid body and returns its index. Inertia is the
// diagonal of the body-frame inertia tensor.
func (b *Builder) AddBody(pos, vel, angVel Vec3, mass float64, inertia Vec3) int {
	b.bodies = append(b.bodies, rigidBody{q: pos, qd: vel, omega: angVel, mass: mass, inertia: inertia})
	return len(b.bodies) - 1
}

// AddJoint registers a joint between two bodies and returns its index.
// parent may be World to anchor the child to the world frame.
func (b *Builder) AddJoint(kind, parent, child int) int {
	b.joints = append(b.joints, joint{kind: kind, parent: parent, child: child})
	return len(b.joints) - 1
}

func (b *Builder) ParticleCount() int { return len(b.particles) }
func (b *Builder) SpringCount() int   { return len(b.springs) }
func (b *Builder) BodyCount() int     { return len(b.bodies) }
func (b *Builder) JointCount() int    { return len(b.joints) }

// Finalize compiles the accumulated entities into an immutable Model
// bound to the named compute device ("cpu", "cuda", or "auto"). All
// cross-references are validated before any allocation; a dangling
// reference fails with ErrValidation and produces no Model. Finalize
// does not consume the Builder: it may be called again, and repeated
// calls on an unmodified Builder yield identical Models.
func (b *Builder) Finalize(device string) (*Model, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	backend, ok := compute.Lookup(device)
	if !ok {
		return nil, fmt.Errorf("%w: device %q", ErrConfiguration, device)
	}

	m := &Model{
		ParticleCount: len(b.particles),
		SpringCount:   len(b.springs),
		BodyCount:     len(b.bodies),
		JointCount:    len(b.joints),
		Gravity:       b.gravity,
		Device:        backend.Name(),
		backend:       backend,
	}

	m.ParticleMass = make([]float64, m.ParticleCount)
	m.ParticleInvMass = make([]float64, m.ParticleCount)
	m.ParticleQ = make([]float64, m.ParticleCount*3)
	m.ParticleQd = make([]float64, m.ParticleCount*3)
	for i, p := range b.particles {
		m.ParticleMass[i] = p.mass
		if p.mass > 0 {
			m.ParticleInvMass[i] = 1.0 / p.mass
			m.TotalMass += p.mass
		}
		setVec(m.ParticleQ, i, p.q)
		setVec(m.ParticleQd, i, p.qd)
	}

	m.SpringIndices = make([]int, m.SpringCount*2)
	m.SpringRest = make([]float64, m.SpringCount)
	m.SpringStiffness = make([]float64, m.SpringCount)
	m.SpringDamping = make([]float64, m.SpringCount)
	m.SpringControl = make([]int, m.SpringCount)
	for s, sp := range b.springs {
		m.SpringIndices[s*2] = sp.i
		m.SpringIndices[s*2+1] = sp.j
		m.SpringStiffness[s] = sp.stiffness
		m.SpringDamping[s] = sp.damping
		m.SpringControl[s] = sp.control
		if sp.rest == restFromGeometry {
			m.SpringRest[s] = b.particles[sp.j].q.Sub(b.particles[sp.i].q).Length()
		} else {
			m.SpringRest[s] = sp.rest
		}
	}

	m.BodyMass = make([]float64, m.BodyCount)
	m.BodyInvMass = make([]float64, m.BodyCount)
	m.BodyInertia = make([]float64, m.BodyCount*3)
	m.BodyQ = make([]float64, m.BodyCount*3)
	m.BodyQd = make([]float64, m.BodyCount*3)
	m.BodyOmega = make([]float64, m.BodyCount*3)
	for i, body := range b.bodies {
		m.BodyMass[i] = body.mass
		if body.mass > 0 {
			m.BodyInvMass[i] = 1.0 / body.mass
			m.TotalMass += body.mass
		}
		setVec(m.BodyInertia, i, body.inertia)
		setVec(m.BodyQ, i, body.q)
		setVec(m.BodyQd, i, body.qd)
		setVec(m.BodyOmega, i, body.omega)
	}

	m.JointKind = make([]int, m.JointCount)
	m.JointParent = make([]int, m.JointCount)
	m.JointChild = make([]int, m.JointCount)
	for i, j := range b.joints {
		m.JointKind[i] = j.kind
		m.JointParent[i] = j.parent
		m.JointChild[i] = j.child
	}

	return m, nil
}

func (b *Builder) validate() error {
	np := len(b.particles)
	nb := len(b.bodies)

	for i, p := range b.particles {
		if p.mass < 0 {
			return fmt.Errorf("%w: particle %d has negative mass %g", ErrValidation, i, p.mass)
		}
	}
	for s, sp := range b.springs {
		if sp.i == sp.j {
			return fmt.Errorf("%w: spring %d connects particle %d to itself", ErrValidation, s, sp.i)
		}
		if sp.i < 0 || sp.i >= np {
			return fmt.Errorf("%w: spring %d references particle %d of %d", ErrValidation, s, sp.i, np)
		}
		if sp.j < 0 || sp.j >= np {
			return fmt.Errorf("%w: spring %d references particle %d of %d", ErrValidation, s, sp.j, np)
		}
		if sp.stiffness < 0 || sp.damping < 0 {
			return fmt.Errorf("%w: spring %d has negative coefficients", ErrValidation, s)
		}
	}
	for i, body := range b.bodies {
		if body.mass < 0 {
			return fmt.Errorf("%w: body %d has negative mass %g", ErrValidation, i, body.mass)
		}
	}
	for i, j := range b.joints {
		if j.parent != World && (j.parent < 0 || j.parent >= nb) {
			return fmt.Errorf("%w: joint %d references parent body %d of %d", ErrValidation, i, j.parent, nb)
		}
		if j.child < 0 || j.child >= nb {
			return fmt.Errorf("%w: joint %d references child body %d of %d", ErrValidation, i, j.child, nb)
		}
	}
	return nil
}
