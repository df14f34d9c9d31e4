package solver

import (
	"context"
	"fmt"

	"github.com/san-kum/springlab/internal/sim"
)

// Metric observes states during a run and reduces them to a scalar.
type Metric interface {
	Name() string
	Observe(s *sim.State, t float64)
	Value() float64
	Reset()
}

// Observer receives every state produced by a run.
type Observer interface {
	OnStep(s *sim.State, t float64)
}

// Config controls a Session run.
type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

// Result collects the trajectory of a run. Positions holds one copy of
// the flat particle position array per recorded instant.
type Result struct {
	Positions  [][]float64
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}

// Session owns the stepping loop for one Model: it allocates a pair of
// States, steps them with the configured solver, swapping input and
// output each step, and feeds metrics and observers. The Model itself
// is never written.
type Session struct {
	model     *sim.Model
	solver    Solver
	metrics   []Metric
	observers []Observer
}

func NewSession(m *sim.Model, s Solver) *Session {
	return &Session{model: m, solver: s}
}

func (s *Session) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Session) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Positions: make([][]float64, 0, steps+1),
		Times:     make([]float64, 0, steps+1),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	in := s.model.State()
	out := s.model.State()

	result.record(in)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(in, in.Time)
		}
		for _, o := range s.observers {
			o.OnStep(in, in.Time)
		}

		if err := s.solver.Step(s.model, in, out, cfg.Dt); err != nil {
			return result, &sim.StepError{Step: i, Time: in.Time, Wrapped: err}
		}

		if cfg.ValidateState && !out.IsValid() {
			return result, &sim.StepError{
				Step:    i,
				Time:    out.Time,
				Wrapped: fmt.Errorf("state diverged (NaN/Inf)"),
			}
		}

		in, out = out, in
		result.StepsTaken++
		result.record(in)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Result) record(s *sim.State) {
	q := make([]float64, len(s.ParticleQ))
	copy(q, s.ParticleQ)
	r.Positions = append(r.Positions, q)
	r.Times = append(r.Times, s.Time)
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
