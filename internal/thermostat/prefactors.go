package thermostat

import (
	"math"

	"github.com/san-kum/lbmd/internal/geom"
)

// Init recomputes the derived prefactors from the raw replicated parameters.
// Called on every rank at the start of each integration phase; all inputs
// are replicated, so the local recomputation stays identical everywhere.
func (c *Controller) Init(dt, pistonMass float64) {
	st := c.store.State()
	if st.Switch == Off {
		return
	}
	if st.Switch.Has(Langevin) {
		initLangevin(st, dt)
	}
	if st.Switch.Has(NPTIso) {
		initNPTIso(st, dt, pistonMass)
	}
}

func initLangevin(st *State, dt float64) {
	st.LangevinPrefFriction = st.LangevinGamma.Vec().Scale(-1)
	st.LangevinPrefNoise = noiseAmplitude(st.Temperature, st.LangevinGamma, dt)

	// If the rotational gamma was never set, inherit the translational one.
	if st.LangevinGammaRotation.unset() {
		st.LangevinGammaRotation = st.LangevinGamma
	}
	st.LangevinPrefNoiseRotation = noiseAmplitude(st.Temperature, st.LangevinGammaRotation, dt)
}

func noiseAmplitude(kt float64, gamma Gamma, dt float64) geom.Vec3 {
	var out geom.Vec3
	for i, g := range gamma {
		out[i] = math.Sqrt(24 * kt * g / dt)
	}
	return out
}

// A barostat with zero piston mass is a legitimate transient, not an error:
// the NPT bit is cleared silently until a piston mass is configured.
func initNPTIso(st *State, dt, pistonMass float64) {
	if pistonMass == 0 {
		st.Switch &^= NPTIso
		return
	}
	st.NPTPrefVel[0] = -st.NPTGamma0 * 0.5 * dt
	st.NPTPrefVel[1] = math.Sqrt(12 * st.Temperature * st.NPTGamma0 * dt)
	st.NPTPrefVol[0] = -st.NPTGammaV * (1 / pistonMass) * 0.5 * dt
	st.NPTPrefVol[1] = math.Sqrt(12 * st.Temperature * st.NPTGammaV * dt)
}
