package boundary

import "github.com/san-kum/lbmd/internal/geom"

// HostDevice is an in-memory reference implementation of Device, used when
// no accelerator is wired in and by the test suite. It stores exactly the
// buffers a real device would hold.
type HostDevice struct {
	NBoundaries int
	NNodes      int
	NodeList    []int
	IndexList   []int
	Velocities  []float32

	forces     []float64
	wallCharge map[int][]float32
}

func NewHostDevice() *HostDevice {
	return &HostDevice{wallCharge: make(map[int][]float32)}
}

func (d *HostDevice) InitBoundaries(nBoundaries, nNodes int, nodeList, indexList []int, velocities []float32) {
	d.NBoundaries = nBoundaries
	d.NNodes = nNodes
	d.NodeList = append([]int(nil), nodeList...)
	d.IndexList = append([]int(nil), indexList...)
	d.Velocities = append([]float32(nil), velocities...)
	d.forces = make([]float64, 3*nBoundaries)
}

func (d *HostDevice) BoundaryForces(out []float64) error {
	copy(out, d.forces)
	return nil
}

// AddForce mimics the kernel-side momentum accumulation for boundary index i.
func (d *HostDevice) AddForce(i int, f geom.Vec3) {
	if 3*i+2 >= len(d.forces) {
		return
	}
	d.forces[3*i+0] += f[0]
	d.forces[3*i+1] += f[1]
	d.forces[3*i+2] += f[2]
}

func (d *HostDevice) GatherWallCharge(dst []float32, species int) {
	copy(dst, d.wallCharge[species])
}

func (d *HostDevice) SetWallCharge(src []float32, species int) {
	d.wallCharge[species] = append([]float32(nil), src...)
}
