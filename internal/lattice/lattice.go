// Package lattice describes the discretized fluid grid the boundary
// classifier writes into. The node storage itself belongs to the LB
// subsystem; this package only provides the geometry and indexing.
package lattice

import "github.com/san-kum/lbmd/internal/geom"

// Node is the boundary state of one fluid cell. Boundary 0 means fluid;
// k+1 means the cell belongs to the k-th registered boundary. SlipVelocity
// is only meaningful when Boundary != 0 and is expressed in lattice units.
type Node struct {
	Boundary     int
	SlipVelocity geom.Vec3
}

// Halo is a rank-local grid padded with one layer of ghost cells per side.
type Halo struct {
	Grid   [3]int // local extent without the halo
	Agrid  float64
	Tau    float64
	Offset [3]int // this rank's node offset in the global grid
}

// HaloGrid returns the padded extent.
func (h *Halo) HaloGrid() [3]int {
	return [3]int{h.Grid[0] + 2, h.Grid[1] + 2, h.Grid[2] + 2}
}

// HaloVolume is the number of nodes including ghost layers.
func (h *Halo) HaloVolume() int {
	g := h.HaloGrid()
	return g[0] * g[1] * g[2]
}

// Pos is the physical-space center of halo cell (x, y, z); ghost cells sit
// half a cell outside the local domain.
func (h *Halo) Pos(x, y, z int) geom.Vec3 {
	return geom.Vec3{
		(float64(h.Offset[0]) + (float64(x) - 0.5)) * h.Agrid,
		(float64(h.Offset[1]) + (float64(y) - 0.5)) * h.Agrid,
		(float64(h.Offset[2]) + (float64(z) - 0.5)) * h.Agrid,
	}
}

// LinearIndex flattens (x, y, z) with x fastest.
func LinearIndex(x, y, z int, dims [3]int) int {
	return x + dims[0]*(y+dims[1]*z)
}
