package boundary

import (
	"fmt"

	"github.com/san-kum/lbmd/internal/geom"
	"github.com/san-kum/lbmd/internal/lattice"
)

// Device is the CPU-side surface of the GPU lattice. The kernels themselves
// live outside this module; the classifier only prepares the flattened
// buffers the device expects and reads its accumulators back.
type Device interface {
	// InitBoundaries uploads the classification result: the linear indices
	// of all boundary nodes, their boundary ids, and the velocity buffer of
	// 3*(nBoundaries+1) entries whose final triple is the zero sentinel for
	// "no boundary".
	InitBoundaries(nBoundaries, nNodes int, nodeList, indexList []int, velocities []float32)

	// BoundaryForces reads the device-resident per-boundary momentum
	// accumulation buffer, 3 entries per boundary.
	BoundaryForces(out []float64) error

	// GatherWallCharge / SetWallCharge move the per-node wall-charge
	// density of one species between host and device.
	GatherWallCharge(dst []float32, species int)
	SetWallCharge(src []float32, species int)
}

// GridParams describes the dense device lattice.
type GridParams struct {
	Dim   [3]int
	Agrid float64
}

func (p GridParams) Nodes() int { return p.Dim[0] * p.Dim[1] * p.Dim[2] }

// EKParams enables electrokinetic wall-charge accumulation during
// classification.
type EKParams struct {
	Agrid     float64
	Dim       [3]int
	Valencies []float64 // per species; first non-zero entry carries the wall charge
}

func (p *EKParams) nodes() int { return p.Dim[0] * p.Dim[1] * p.Dim[2] }

// ClassifyFlat runs the flattened classification sweep for the device
// lattice and uploads the result. The selection policy is identical to the
// halo path: nearest boundary, first-registered wins on ties.
//
// With EK enabled, every boundary's net-charge accumulator is zeroed before
// the sweep, so repeated classification never double-counts wall charge.
func ClassifyFlat(reg *Registry, p GridParams, ek *EKParams, dev Device) error {
	var (
		hostDensity []float32
		species     = -1
	)
	if ek != nil {
		for _, b := range reg.All() {
			b.SetNetCharge(0)
		}

		charged := false
		for _, b := range reg.All() {
			if b.ChargeDensity() != 0 {
				charged = true
				break
			}
		}
		for i, v := range ek.Valencies {
			if v != 0 {
				species = i
				break
			}
		}
		if species == -1 && charged {
			return fmt.Errorf("no charged species available to create wall charge")
		}
		if species != -1 {
			hostDensity = make([]float32, ek.nodes())
			dev.GatherWallCharge(hostDensity, species)
		}
	}

	var nodeList, indexList []int
	cellCharge := 0.0
	if ek != nil {
		cellCharge = ek.Agrid * ek.Agrid * ek.Agrid
	}

	for z := 0; z < p.Dim[2]; z++ {
		for y := 0; y < p.Dim[1]; y++ {
			for x := 0; x < p.Dim[0]; x++ {
				pos := geom.Vec3{
					p.Agrid * (float64(x) + 0.5),
					p.Agrid * (float64(y) + 0.5),
					p.Agrid * (float64(z) + 0.5),
				}

				dist := farAway
				nearest := -1
				nodeCharged := false
				nodeWallcharge := 0.0

				for i, b := range reg.All() {
					d, _ := b.CalcDist(pos)
					if d < dist || i == 0 {
						dist = d
						nearest = i
					}
					if ek != nil && d <= 0 && b.ChargeDensity() != 0 {
						nodeCharged = true
						nodeWallcharge += b.ChargeDensity() * cellCharge
						b.SetNetCharge(b.NetCharge() + b.ChargeDensity()*cellCharge)
					}
				}

				if dist <= 0 && nearest >= 0 && reg.Len() > 0 {
					nodeList = append(nodeList, lattice.LinearIndex(x, y, z, p.Dim))
					indexList = append(indexList, nearest+1)
				}

				if nodeCharged && species != -1 {
					ekIdx := lattice.LinearIndex(x, y, z, ek.Dim)
					hostDensity[ekIdx] = float32(nodeWallcharge / ek.Valencies[species])
				}
			}
		}
	}

	// Velocity buffer: one triple per boundary plus the implicit
	// "no boundary" sentinel triple, always zero.
	velocities := make([]float32, 3*(reg.Len()+1))
	for i, b := range reg.All() {
		v := b.Velocity()
		velocities[3*i+0] = float32(v[0])
		velocities[3*i+1] = float32(v[1])
		velocities[3*i+2] = float32(v[2])
	}

	dev.InitBoundaries(reg.Len(), len(nodeList), nodeList, indexList, velocities)

	if ek != nil && species != -1 {
		dev.SetWallCharge(hostDensity, species)
	}
	return nil
}
