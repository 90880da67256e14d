package metrics

import "github.com/san-kum/lbmd/internal/geom"

// Sample is one observation of the particle ensemble.
type Sample struct {
	Velocities []geom.Vec3
	Time       float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// KineticTemperature tracks the running mean of the instantaneous kinetic
// temperature m<v^2>/3N (kB = 1 in simulation units).
type KineticTemperature struct {
	mass    float64
	total   float64
	samples int
}

func NewKineticTemperature(mass float64) *KineticTemperature {
	return &KineticTemperature{mass: mass}
}

func (k *KineticTemperature) Name() string { return "kinetic_temperature" }

func (k *KineticTemperature) Observe(s Sample) {
	k.total += Instantaneous(s.Velocities, k.mass)
	k.samples++
}

func (k *KineticTemperature) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticTemperature) Reset() {
	k.total = 0
	k.samples = 0
}

// Instantaneous returns the kinetic temperature of a single sample.
func Instantaneous(velocities []geom.Vec3, mass float64) float64 {
	if len(velocities) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range velocities {
		sum += v.Dot(v)
	}
	return mass * sum / (3 * float64(len(velocities)))
}
