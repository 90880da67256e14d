package thermostat

import (
	"github.com/san-kum/lbmd/internal/geom"
	"github.com/san-kum/lbmd/internal/noise"
)

// Particle carries the per-particle inputs the friction kernels need.
type Particle struct {
	ID       int
	Velocity geom.Vec3
	Omega    geom.Vec3
	Virtual  bool
}

// FrictionLangevin returns the Langevin friction and noise force for p using
// the prefactors derived at phase init.
func (st *State) FrictionLangevin(p Particle) geom.Vec3 {
	if !st.Switch.Has(Langevin) || st.LangevinCounter == nil {
		return geom.Vec3{}
	}
	if p.Virtual && !st.ActOnVirtual {
		return geom.Vec3{}
	}
	n := noise.Uniform3(st.LangevinCounter.Value(), noise.SaltLangevin, p.ID)
	return st.LangevinPrefFriction.Hadamard(p.Velocity).
		Add(st.LangevinPrefNoise.Hadamard(n))
}

// TorqueLangevin returns the rotational friction torque. Rotational degrees
// of virtual particles are always thermostatted.
func (st *State) TorqueLangevin(p Particle) geom.Vec3 {
	if !st.Switch.Has(Langevin) || st.LangevinCounter == nil {
		return geom.Vec3{}
	}
	n := noise.Uniform3(st.LangevinCounter.Value(), noise.SaltLangevinRot, p.ID)
	var torque geom.Vec3
	for j := 0; j < 3; j++ {
		torque[j] = -st.LangevinGammaRotation[j] * p.Omega[j]
		if st.LangevinPrefNoiseRotation[j] > 0 {
			torque[j] += st.LangevinPrefNoiseRotation[j] * n[j]
		}
	}
	return torque
}

// FrictionNPTVel adds velocity-dependent friction and noise for the NPT
// barostat. draw is a uniform deviate in [-0.5, 0.5) from the caller's
// random stream.
func (st *State) FrictionNPTVel(vj, draw float64) float64 {
	if !st.Switch.Has(NPTIso) {
		return 0
	}
	if st.NPTPrefVel[1] > 0 {
		return st.NPTPrefVel[0]*vj + st.NPTPrefVel[1]*draw
	}
	return st.NPTPrefVel[0] * vj
}

// FrictionNPTVol is the volume-fluctuation counterpart acting on the
// pressure difference.
func (st *State) FrictionNPTVol(pDiff, draw float64) float64 {
	if !st.Switch.Has(NPTIso) {
		return 0
	}
	if st.NPTPrefVol[1] > 0 {
		return st.NPTPrefVol[0]*pDiff + st.NPTPrefVol[1]*draw
	}
	return st.NPTPrefVol[0] * pDiff
}
