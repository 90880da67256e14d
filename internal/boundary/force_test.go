package boundary_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/lbmd/internal/boundary"
	"github.com/san-kum/lbmd/internal/comm"
	"github.com/san-kum/lbmd/internal/geom"
	"github.com/san-kum/lbmd/internal/lattice"
)

func newCPUSystem(c comm.Communicator) *boundary.System {
	h := &lattice.Halo{Grid: [3]int{4, 4, 4}, Agrid: 1, Tau: 1}
	return boundary.NewSystem(boundary.SwitchCPU, c, &boundary.CPUTarget{
		Halo:   h,
		Fields: make([]lattice.Node, h.HaloVolume()),
	}, nil)
}

func TestForceUnregisteredBoundary(t *testing.T) {
	s := newCPUSystem(comm.Single())
	s.Registry.Add(wall(1))

	_, err := s.Force(wall(2))
	require.ErrorIs(t, err, boundary.ErrUnregistered{})
}

func TestForceSumsAcrossRanks(t *testing.T) {
	g := comm.NewGroup(2)
	s0 := newCPUSystem(g.Rank(0))
	s1 := newCPUSystem(g.Rank(1))

	b := wall(1)
	s0.Registry.Add(b)
	s1.Registry.Add(b)

	s0.AddMomentumExchange(0, geom.Vec3{1, 2, 3})
	s1.AddMomentumExchange(0, geom.Vec3{10, 20, 30})

	f, err := s0.Force(b)
	require.NoError(t, err)
	require.Equal(t, geom.Vec3{11, 22, 33}, f)
}

func TestForceUsesCurrentRegistryIndex(t *testing.T) {
	s := newCPUSystem(comm.Single())
	a, b := wall(1), wall(3)
	s.Registry.Add(a)
	s.Registry.Add(b)

	// removal reclassifies and resets the accumulator to the new layout
	s.Registry.Remove(a)
	s.AddMomentumExchange(0, geom.Vec3{2, 0, 0})

	f, err := s.Force(b)
	require.NoError(t, err)
	require.Equal(t, geom.Vec3{2, 0, 0}, f)

	_, err = s.Force(a)
	require.ErrorIs(t, err, boundary.ErrUnregistered{})
}

func TestForceMutationResetsAccumulator(t *testing.T) {
	s := newCPUSystem(comm.Single())
	b := wall(1)
	s.Registry.Add(b)
	s.AddMomentumExchange(0, geom.Vec3{5, 5, 5})

	s.Registry.Add(wall(2)) // any mutation discards accumulated momentum

	f, err := s.Force(b)
	require.NoError(t, err)
	require.Equal(t, geom.Vec3{}, f)
}

func TestForceGPUReadsDevice(t *testing.T) {
	dev := boundary.NewHostDevice()
	s := boundary.NewSystem(boundary.SwitchGPU, comm.Single(), nil, &boundary.GPUTarget{
		Grid:   boundary.GridParams{Dim: [3]int{4, 4, 4}, Agrid: 1},
		Device: dev,
	})

	b := wall(1)
	s.Registry.Add(b)
	dev.AddForce(0, geom.Vec3{1, -2, 3})

	f, err := s.Force(b)
	require.NoError(t, err)
	require.Equal(t, geom.Vec3{1, -2, 3}, f)
}

func TestReinitGPUSurfacesClassificationError(t *testing.T) {
	dev := boundary.NewHostDevice()
	s := boundary.NewSystem(boundary.SwitchGPU, comm.Single(), nil, &boundary.GPUTarget{
		Grid:   boundary.GridParams{Dim: [3]int{4, 4, 4}, Agrid: 1},
		EK:     &boundary.EKParams{Agrid: 1, Dim: [3]int{4, 4, 4}, Valencies: []float64{0}},
		Device: dev,
	})

	b := wall(1)
	b.SetChargeDensity(1)
	s.Registry.Add(b)

	require.Error(t, s.LastError())
	require.NoError(t, s.LastError(), "error must be cleared after retrieval")
}

func TestReinitGPUOnlyOnRankZero(t *testing.T) {
	g := comm.NewGroup(2)
	dev := boundary.NewHostDevice()
	s := boundary.NewSystem(boundary.SwitchGPU, g.Rank(1), nil, &boundary.GPUTarget{
		Grid:   boundary.GridParams{Dim: [3]int{4, 4, 4}, Agrid: 1},
		Device: dev,
	})

	s.Registry.Add(wall(1))
	require.Zero(t, dev.NBoundaries, "non-root rank touched the device")
}

func TestAddMomentumExchangeOutOfRange(t *testing.T) {
	s := newCPUSystem(comm.Single())
	s.AddMomentumExchange(3, geom.Vec3{1, 1, 1}) // empty registry; must not panic
}
