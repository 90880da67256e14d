// Package boundary keeps the ordered set of lattice-Boltzmann boundary
// objects, classifies every lattice node against them on both the CPU halo
// path and the GPU flattened path, and reduces the per-node momentum
// exchange into per-boundary forces.
package boundary

import "github.com/san-kum/lbmd/internal/geom"

// Boundary is one geometric boundary condition: a shape, the wall velocity
// it imposes, and, for electrokinetics, a surface charge density plus the
// net charge accumulated during classification.
type Boundary struct {
	shape         geom.Shape
	velocity      geom.Vec3
	chargeDensity float64
	netCharge     float64
}

func New(shape geom.Shape, velocity geom.Vec3) *Boundary {
	return &Boundary{shape: shape, velocity: velocity}
}

func (b *Boundary) Shape() geom.Shape { return b.shape }

func (b *Boundary) Velocity() geom.Vec3     { return b.velocity }
func (b *Boundary) SetVelocity(v geom.Vec3) { b.velocity = v }

func (b *Boundary) ChargeDensity() float64     { return b.chargeDensity }
func (b *Boundary) SetChargeDensity(d float64) { b.chargeDensity = d }

func (b *Boundary) NetCharge() float64     { return b.netCharge }
func (b *Boundary) SetNetCharge(q float64) { b.netCharge = q }

// CalcDist forwards to the shape capability.
func (b *Boundary) CalcDist(pos geom.Vec3) (float64, geom.Vec3) {
	return b.shape.CalcDist(pos)
}
