package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springlab/internal/sim"
)

const (
	DefaultDt       = 0.001
	DefaultDuration = 5.0
	DefaultDevice   = "cpu"
	DefaultSolver   = "semi_implicit"
)

// Scene is the declarative YAML description of a simulation: entities
// plus run parameters. Build compiles it through a sim.Builder.
type Scene struct {
	Name     string    `yaml:"name"`
	Device   string    `yaml:"device"`
	Solver   string    `yaml:"solver"`
	Dt       float64   `yaml:"dt"`
	Duration float64   `yaml:"duration"`
	Gravity  []float64 `yaml:"gravity,omitempty"`

	Particles []Particle `yaml:"particles"`
	Springs   []Spring   `yaml:"springs"`
	Bodies    []Body     `yaml:"bodies,omitempty"`
	Joints    []Joint    `yaml:"joints,omitempty"`
}

type Particle struct {
	Pos  []float64 `yaml:"pos,flow"`
	Vel  []float64 `yaml:"vel,flow,omitempty"`
	Mass float64   `yaml:"mass"`
}

type Spring struct {
	I         int     `yaml:"i"`
	J         int     `yaml:"j"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Control   int     `yaml:"control,omitempty"`

	// Rest overrides the geometric rest length when set.
	Rest *float64 `yaml:"rest,omitempty"`
}

type Body struct {
	Pos     []float64 `yaml:"pos,flow"`
	Vel     []float64 `yaml:"vel,flow,omitempty"`
	AngVel  []float64 `yaml:"ang_vel,flow,omitempty"`
	Mass    float64   `yaml:"mass"`
	Inertia []float64 `yaml:"inertia,flow,omitempty"`
}

type Joint struct {
	Kind   int `yaml:"kind"`
	Parent int `yaml:"parent"`
	Child  int `yaml:"child"`
}

func Default() *Scene {
	return &Scene{
		Device:   DefaultDevice,
		Solver:   DefaultSolver,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := Default()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func Save(path string, sc *Scene) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Builder translates the scene into a sim.Builder. Entity references
// are not checked here; Finalize owns validation.
func (sc *Scene) Builder() (*sim.Builder, error) {
	b := sim.NewBuilder()

	if len(sc.Gravity) > 0 {
		g, err := vec3(sc.Gravity, "gravity")
		if err != nil {
			return nil, err
		}
		b.SetGravity(g)
	}

	for i, p := range sc.Particles {
		pos, err := vec3(p.Pos, fmt.Sprintf("particle %d pos", i))
		if err != nil {
			return nil, err
		}
		vel, err := vec3(p.Vel, fmt.Sprintf("particle %d vel", i))
		if err != nil {
			return nil, err
		}
		b.AddParticle(pos, vel, p.Mass)
	}

	for _, s := range sc.Springs {
		idx := b.AddSpring(s.I, s.J, s.Stiffness, s.Damping, s.Control)
		if s.Rest != nil {
			b.SetSpringRest(idx, *s.Rest)
		}
	}

	for i, body := range sc.Bodies {
		pos, err := vec3(body.Pos, fmt.Sprintf("body %d pos", i))
		if err != nil {
			return nil, err
		}
		vel, err := vec3(body.Vel, fmt.Sprintf("body %d vel", i))
		if err != nil {
			return nil, err
		}
		angVel, err := vec3(body.AngVel, fmt.Sprintf("body %d ang_vel", i))
		if err != nil {
			return nil, err
		}
		inertia, err := vec3(body.Inertia, fmt.Sprintf("body %d inertia", i))
		if err != nil {
			return nil, err
		}
		b.AddBody(pos, vel, angVel, body.Mass, inertia)
	}

	for _, j := range sc.Joints {
		b.AddJoint(j.Kind, j.Parent, j.Child)
	}

	return b, nil
}

// Finalize builds and compiles the scene in one call.
func (sc *Scene) Finalize() (*sim.Model, error) {
	b, err := sc.Builder()
	if err != nil {
		return nil, err
	}
	return b.Finalize(sc.Device)
}

// vec3 converts an optional YAML triple; empty means zero.
func vec3(a []float64, what string) (sim.Vec3, error) {
	switch len(a) {
	case 0:
		return sim.Vec3{}, nil
	case 3:
		return sim.Vec3{X: a[0], Y: a[1], Z: a[2]}, nil
	}
	return sim.Vec3{}, fmt.Errorf("scene: %s must have 3 components, got %d", what, len(a))
}
