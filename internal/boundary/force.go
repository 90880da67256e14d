package boundary

import (
	"github.com/san-kum/lbmd/internal/comm"
	"github.com/san-kum/lbmd/internal/geom"
	"github.com/san-kum/lbmd/internal/lattice"
)

// LatticeSwitch selects the execution substrate of the fluid lattice.
type LatticeSwitch int

const (
	SwitchCPU LatticeSwitch = iota
	SwitchGPU
)

const forceTopic = "lb_boundary_forces"

// CPUTarget is the halo lattice the CPU classifier writes into.
type CPUTarget struct {
	Halo   *lattice.Halo
	Fields []lattice.Node
}

// GPUTarget is the device lattice, rank-0-owned by construction.
type GPUTarget struct {
	Grid   GridParams
	EK     *EKParams
	Device Device
}

// System wires the registry to the classifiers and the force aggregation on
// one rank. Registry mutations immediately trigger a full reclassification;
// incremental updates are not possible because a removal can shift the
// nearest-boundary assignment of arbitrarily many nodes.
type System struct {
	Registry *Registry

	sw      LatticeSwitch
	comm    comm.Communicator
	cpu     *CPUTarget
	gpu     *GPUTarget
	local   []float64
	lastErr error
}

func NewSystem(sw LatticeSwitch, c comm.Communicator, cpu *CPUTarget, gpu *GPUTarget) *System {
	s := &System{
		Registry: NewRegistry(),
		sw:       sw,
		comm:     c,
		cpu:      cpu,
		gpu:      gpu,
	}
	s.Registry.OnChange(s.Reinit)
	c.Provide(forceTopic, func() []float64 { return s.local })
	return s
}

// Reinit redoes the whole classification for the active substrate and
// resets the local momentum-exchange accumulator to the new registry
// layout. GPU state only exists on rank 0.
func (s *System) Reinit() {
	s.local = make([]float64, 3*s.Registry.Len())
	switch s.sw {
	case SwitchCPU:
		if s.cpu != nil {
			ClassifyHalo(s.Registry, s.cpu.Halo, s.cpu.Fields)
		}
	case SwitchGPU:
		if s.comm.Rank() != 0 || s.gpu == nil {
			return
		}
		// Classification errors here are EK configuration errors; surface
		// them through LastError so the caller's next collective sees them.
		s.lastErr = ClassifyFlat(s.Registry, s.gpu.Grid, s.gpu.EK, s.gpu.Device)
	}
}

// AddMomentumExchange deposits the momentum a boundary node exchanged with
// the fluid during streaming. Called by the (external) LB kernel with the
// boundary's current index.
func (s *System) AddMomentumExchange(index int, dp geom.Vec3) {
	if 3*index+2 >= len(s.local) {
		return
	}
	s.local[3*index+0] += dp[0]
	s.local[3*index+1] += dp[1]
	s.local[3*index+2] += dp[2]
}

// Force returns the net force the fluid exerted on b, summed over all ranks
// (CPU) or read from the device accumulator (GPU). Indices refer to the
// boundary's current registry position.
func (s *System) Force(b *Boundary) (geom.Vec3, error) {
	idx, err := s.Registry.Index(b)
	if err != nil {
		return geom.Vec3{}, err
	}

	forces := make([]float64, 3*s.Registry.Len())
	switch s.sw {
	case SwitchGPU:
		if s.gpu != nil {
			if err := s.gpu.Device.BoundaryForces(forces); err != nil {
				return geom.Vec3{}, err
			}
		}
	case SwitchCPU:
		forces = s.comm.AllReduceSum(forceTopic, s.local)
	}

	return geom.Vec3{forces[3*idx], forces[3*idx+1], forces[3*idx+2]}, nil
}

// LastError returns the error of the most recent GPU reclassification, if
// any, and clears it.
func (s *System) LastError() error {
	err := s.lastErr
	s.lastErr = nil
	return err
}
