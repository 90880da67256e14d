package metrics

import "github.com/san-kum/lbmd/internal/geom"

// MomentumDrift records the largest deviation of total momentum from its
// initial value. A thermostatted run without net external forces should keep
// this near the noise floor of the stochastic kicks.
type MomentumDrift struct {
	mass    float64
	initial geom.Vec3
	max     float64
	samples int
}

func NewMomentumDrift(mass float64) *MomentumDrift {
	return &MomentumDrift{mass: mass}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(s Sample) {
	var p geom.Vec3
	for _, v := range s.Velocities {
		p = p.Add(v.Scale(m.mass))
	}
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	drift := p.Sub(m.initial).Norm()
	if drift > m.max {
		m.max = drift
	}
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	m.initial = geom.Vec3{}
	m.max = 0
	m.samples = 0
}
