package boundary

import (
	"github.com/san-kum/lbmd/internal/lattice"
)

const farAway = 1e99

// ClassifyHalo rewrites the boundary state of every node in the rank-local
// halo grid, ghost layers included. For each node the nearest boundary wins;
// on an exact tie the first-registered boundary keeps the node. A node with
// non-positive minimum distance belongs to that boundary and carries its
// velocity converted to lattice units; everything else is fluid.
func ClassifyHalo(reg *Registry, h *lattice.Halo, fields []lattice.Node) {
	for i := range fields {
		fields[i].Boundary = 0
	}
	if h.HaloVolume() == 0 {
		return
	}

	dims := h.HaloGrid()
	for z := 0; z < dims[2]; z++ {
		for y := 0; y < dims[1]; y++ {
			for x := 0; x < dims[0]; x++ {
				pos := h.Pos(x, y, z)

				dist := farAway
				nearest := -1
				for i, b := range reg.All() {
					d, _ := b.CalcDist(pos)
					if d < dist || i == 0 {
						dist = d
						nearest = i
					}
				}

				idx := lattice.LinearIndex(x, y, z, dims)
				if dist <= 0 && nearest >= 0 && reg.Len() > 0 {
					fields[idx].Boundary = nearest + 1
					fields[idx].SlipVelocity = reg.At(nearest).Velocity().Scale(h.Tau / h.Agrid)
				} else {
					fields[idx] = lattice.Node{}
				}
			}
		}
	}
}
