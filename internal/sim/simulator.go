// Package sim runs a small Langevin-dynamics particle loop against the
// thermostat and boundary subsystems. It is the in-repo consumer of every
// core entry point: phase init, friction kernels, counter advancement and
// boundary momentum exchange.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/lbmd/internal/boundary"
	"github.com/san-kum/lbmd/internal/geom"
	"github.com/san-kum/lbmd/internal/metrics"
	"github.com/san-kum/lbmd/internal/thermostat"
)

type Simulator struct {
	ctrl       *thermostat.Controller
	boundaries *boundary.System
	metrics    []metrics.Metric
	observers  []Observer
}

func New(ctrl *thermostat.Controller, boundaries *boundary.System) *Simulator {
	return &Simulator{ctrl: ctrl, boundaries: boundaries}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Controller() *thermostat.Controller { return s.ctrl }

func (s *Simulator) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %f", cfg.Mass)
	}
	return nil
}

// Run advances the ensemble for cfg.Steps steps, recording the temperature
// trace and the registered metrics.
func (s *Simulator) Run(ctx context.Context, particles []Particle, cfg Config) (*Result, error) {
	st, err := s.Stepper(particles, cfg)
	if err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Times:        make([]float64, 0, cfg.Steps),
		Temperatures: make([]float64, 0, cfg.Steps),
		Metrics:      make(map[string]float64),
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		temp, t := st.Step()
		result.Times = append(result.Times, t)
		result.Temperatures = append(result.Temperatures, temp)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// Stepper prepares a stepwise run: the integration phase starts here, so
// prefactors are derived once from the current thermostat parameters.
func (s *Simulator) Stepper(particles []Particle, cfg Config) (*Stepper, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}
	s.ctrl.Init(cfg.Dt, cfg.PistonMass)
	return &Stepper{
		sim:  s,
		ps:   particles,
		cfg:  cfg,
		vbuf: make([]geom.Vec3, len(particles)),
	}, nil
}

// Stepper advances the ensemble one timestep at a time; the live TUI and the
// monitor drive it directly.
type Stepper struct {
	sim  *Simulator
	ps   []Particle
	cfg  Config
	t    float64
	step int
	vbuf []geom.Vec3
}

func (st *Stepper) Particles() []Particle { return st.ps }
func (st *Stepper) Time() float64         { return st.t }
func (st *Stepper) StepCount() int        { return st.step }

// Step applies the Langevin kick to every particle, moves it, bounces it off
// any boundary it entered (depositing the momentum exchange), and advances
// the RNG counters. Returns the instantaneous kinetic temperature.
func (st *Stepper) Step() (temp, t float64) {
	state := st.sim.ctrl.Store().State()
	dt := st.cfg.Dt
	mass := st.cfg.Mass

	for i := range st.ps {
		p := &st.ps[i]
		f := state.FrictionLangevin(thermostat.Particle{
			ID:       i,
			Velocity: p.Vel,
			Virtual:  p.Virtual,
		})
		p.Vel = p.Vel.Add(f.Scale(dt / mass))
		next := p.Pos.Add(p.Vel.Scale(dt))

		if idx, hit := st.hitBoundary(next); hit {
			// Bounce-back: the wall absorbs twice the particle momentum.
			dp := p.Vel.Scale(2 * mass)
			if st.sim.boundaries != nil {
				st.sim.boundaries.AddMomentumExchange(idx, dp)
			}
			p.Vel = p.Vel.Scale(-1)
		} else {
			p.Pos = next
		}
	}

	state.AdvanceCounters()
	st.t += dt
	st.step++

	for i, p := range st.ps {
		st.vbuf[i] = p.Vel
	}
	sample := metrics.Sample{Velocities: st.vbuf, Time: st.t}
	for _, m := range st.sim.metrics {
		m.Observe(sample)
	}
	for _, o := range st.sim.observers {
		o.OnStep(st.ps, st.t)
	}

	return metrics.Instantaneous(st.vbuf, mass), st.t
}

func (st *Stepper) hitBoundary(pos geom.Vec3) (int, bool) {
	if st.sim.boundaries == nil {
		return 0, false
	}
	reg := st.sim.boundaries.Registry
	best := 0.0
	nearest := -1
	for i, b := range reg.All() {
		d, _ := b.CalcDist(pos)
		if d < best || i == 0 {
			best = d
			nearest = i
		}
	}
	if nearest >= 0 && best <= 0 {
		return nearest, true
	}
	return 0, false
}
