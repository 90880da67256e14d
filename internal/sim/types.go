package sim

import (
	"fmt"

	"github.com/san-kum/lbmd/internal/geom"
)

// Particle is one point mass of the demo ensemble.
type Particle struct {
	Pos     geom.Vec3
	Vel     geom.Vec3
	Virtual bool
}

type Config struct {
	Dt         float64
	Steps      int
	Mass       float64
	PistonMass float64
}

func DefaultConfig() Config {
	return Config{Dt: 0.01, Steps: 1000, Mass: 1.0}
}

type Result struct {
	Times        []float64
	Temperatures []float64
	Metrics      map[string]float64
	StepsTaken   int
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(particles []Particle, t float64)
}

type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
