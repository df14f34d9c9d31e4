package solver_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/sim"
	"github.com/san-kum/springlab/internal/solver"
)

// anchoredPair is an anchor at the origin with a unit mass hanging one
// unit below it on a stiff spring.
func anchoredPair() *sim.Model {
	b := sim.NewBuilder()
	b.AddParticle(sim.Vec3{}, sim.Vec3{}, 0)
	b.AddParticle(sim.Vec3{Y: -1}, sim.Vec3{}, 1)
	b.AddSpring(0, 1, 1000, 1, sim.SpringPassive)

	m, err := b.Finalize("cpu")
	Expect(err).NotTo(HaveOccurred())
	return m
}

// freePair is two equal masses joined by a stretched spring, no
// gravity: an isolated system.
func freePair() *sim.Model {
	b := sim.NewBuilder()
	b.SetGravity(sim.Vec3{})
	b.AddParticle(sim.Vec3{}, sim.Vec3{}, 2)
	b.AddParticle(sim.Vec3{X: 2}, sim.Vec3{}, 2)
	s := b.AddSpring(0, 1, 500, 0, sim.SpringPassive)
	b.SetSpringRest(s, 1)

	m, err := b.Finalize("cpu")
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("SemiImplicit", func() {
	var slv *solver.SemiImplicit

	BeforeEach(func() {
		slv = solver.NewSemiImplicit()
	})

	It("never moves a zero-mass anchor", func() {
		m := anchoredPair()
		in, out := m.State(), m.State()

		for i := 0; i < 1000; i++ {
			Expect(slv.Step(m, in, out, 0.001)).To(Succeed())
			in, out = out, in
		}

		Expect(in.Position(0)).To(Equal(sim.Vec3{}))
		Expect(in.Velocity(0)).To(Equal(sim.Vec3{}))
		// the free particle did move
		Expect(in.Position(1)).NotTo(Equal(sim.Vec3{Y: -1}))
	})

	It("leaves the state bit-identical for dt = 0", func() {
		m := anchoredPair()
		in := m.State()
		in.SetVelocity(1, sim.Vec3{X: 0.25, Y: -0.5})
		before := in.Clone()

		out := m.State()
		Expect(slv.Step(m, in, out, 0)).To(Succeed())

		Expect(out.ParticleQ).To(Equal(before.ParticleQ))
		Expect(out.ParticleQd).To(Equal(before.ParticleQd))
		Expect(out.Time).To(Equal(before.Time))
	})

	It("conserves linear momentum in an isolated pair", func() {
		m := freePair()
		in, out := m.State(), m.State()

		for i := 0; i < 2000; i++ {
			Expect(slv.Step(m, in, out, 0.0005)).To(Succeed())
			in, out = out, in
		}

		total := metrics.Linear(m, in)
		Expect(total.Length()).To(BeNumerically("<", 1e-9))
		// the pair did oscillate
		Expect(in.Velocity(0).Length()).To(BeNumerically(">", 0))
	})

	It("integrates free fall as v then x", func() {
		b := sim.NewBuilder()
		b.AddParticle(sim.Vec3{}, sim.Vec3{}, 1)
		m, err := b.Finalize("cpu")
		Expect(err).NotTo(HaveOccurred())

		in, out := m.State(), m.State()
		dt := 0.01
		Expect(slv.Step(m, in, out, dt)).To(Succeed())

		// semi-implicit: position already moves with the new velocity
		Expect(out.Velocity(0).Y).To(BeNumerically("~", -9.81*dt, 1e-12))
		Expect(out.Position(0).Y).To(BeNumerically("~", -9.81*dt*dt, 1e-12))
		Expect(out.Time).To(Equal(dt))
	})

	It("relaxes a damped spring to its rest length", func() {
		b := sim.NewBuilder()
		b.SetGravity(sim.Vec3{})
		b.AddParticle(sim.Vec3{}, sim.Vec3{}, 0)
		b.AddParticle(sim.Vec3{X: 2}, sim.Vec3{}, 1)
		s := b.AddSpring(0, 1, 100, 15, sim.SpringPassive)
		b.SetSpringRest(s, 1)
		m, err := b.Finalize("cpu")
		Expect(err).NotTo(HaveOccurred())

		in, out := m.State(), m.State()
		for i := 0; i < 20000; i++ {
			Expect(slv.Step(m, in, out, 0.001)).To(Succeed())
			in, out = out, in
		}

		Expect(in.Position(1).X).To(BeNumerically("~", 1, 0.01))
	})

	It("offsets the rest length of actuated springs only", func() {
		b := sim.NewBuilder()
		b.SetGravity(sim.Vec3{})
		b.AddParticle(sim.Vec3{}, sim.Vec3{}, 0)
		b.AddParticle(sim.Vec3{X: 1}, sim.Vec3{}, 1)
		s := b.AddSpring(0, 1, 100, 0, sim.SpringActuated)
		b.SetSpringRest(s, 1)
		m, err := b.Finalize("cpu")
		Expect(err).NotTo(HaveOccurred())

		// at rest length: no motion without actuation
		in, out := m.State(), m.State()
		Expect(slv.Step(m, in, out, 0.001)).To(Succeed())
		Expect(out.Velocity(1).X).To(BeZero())

		// lengthening the target pushes the particle outward
		slv.SetControl([]float64{0.5})
		Expect(slv.Step(m, in, out, 0.001)).To(Succeed())
		Expect(out.Velocity(1).X).To(BeNumerically(">", 0))
	})

	It("rejects a mismatched state before mutating anything", func() {
		m := anchoredPair()
		in := m.State()
		in.SetVelocity(1, sim.Vec3{X: 1})
		before := in.Clone()

		other := sim.NewBuilder()
		other.AddParticle(sim.Vec3{}, sim.Vec3{}, 1)
		om, err := other.Finalize("cpu")
		Expect(err).NotTo(HaveOccurred())

		err = slv.Step(m, in, om.State(), 0.01)
		Expect(err).To(MatchError(sim.ErrInvalidState))

		Expect(in.ParticleQ).To(Equal(before.ParticleQ))
		Expect(in.ParticleQd).To(Equal(before.ParticleQd))
	})

	It("supports in-place stepping", func() {
		m := anchoredPair()
		s := m.State()
		doubled := m.State()
		scratch := m.State()

		Expect(slv.Step(m, s, s, 0.001)).To(Succeed())
		Expect(slv.Step(m, doubled, scratch, 0.001)).To(Succeed())

		Expect(s.ParticleQ).To(Equal(scratch.ParticleQ))
		Expect(s.ParticleQd).To(Equal(scratch.ParticleQd))
	})
})

var _ = Describe("ExplicitEuler", func() {
	It("integrates free fall from the old velocity", func() {
		b := sim.NewBuilder()
		b.AddParticle(sim.Vec3{}, sim.Vec3{}, 1)
		m, err := b.Finalize("cpu")
		Expect(err).NotTo(HaveOccurred())

		slv := solver.NewExplicitEuler()
		in, out := m.State(), m.State()
		dt := 0.01
		Expect(slv.Step(m, in, out, dt)).To(Succeed())

		// forward Euler: position uses the pre-step velocity (zero)
		Expect(out.Position(0).Y).To(BeZero())
		Expect(out.Velocity(0).Y).To(BeNumerically("~", -9.81*dt, 1e-12))
	})
})

var _ = Describe("Session", func() {
	It("runs a double-buffered loop and reports metrics", func() {
		m := anchoredPair()
		session := solver.NewSession(m, solver.NewSemiImplicit())
		session.AddMetric(metrics.NewEnergy(m))
		session.AddMetric(metrics.NewMaxDisplacement(m))

		result, err := session.Run(context.Background(), solver.Config{
			Dt:            0.001,
			Duration:      1.0,
			ValidateState: true,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.StepsTaken).To(Equal(1000))
		Expect(result.Positions).To(HaveLen(1001))
		Expect(result.Times[0]).To(Equal(0.0))
		Expect(result.Metrics).To(HaveKey("energy"))
		Expect(result.Metrics["max_displacement"]).To(BeNumerically(">", 0))
	})

	It("rejects a non-positive dt or duration", func() {
		m := anchoredPair()
		session := solver.NewSession(m, solver.NewSemiImplicit())

		_, err := session.Run(context.Background(), solver.Config{Dt: 0, Duration: 1})
		Expect(err).To(HaveOccurred())

		_, err = session.Run(context.Background(), solver.Config{Dt: 0.01, Duration: -1})
		Expect(err).To(HaveOccurred())
	})

	It("stops when the context is canceled", func() {
		m := anchoredPair()
		session := solver.NewSession(m, solver.NewSemiImplicit())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := session.Run(ctx, solver.Config{Dt: 0.001, Duration: 10})
		Expect(err).To(MatchError(context.Canceled))
	})
})
