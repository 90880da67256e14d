package thermostat

import "math"

// Fluid is the coupling handle to the lattice-Boltzmann subsystem. The
// thermostat only needs the fluid's own thermal energy and a place to
// forward the coupling friction.
type Fluid interface {
	KT() float64
	SetCouplingGamma(gamma float64)
}

// LangevinParams configures the Langevin thermostat. GammaRotation and Seed
// are optional; a nil GammaRotation takes the translational gamma.
type LangevinParams struct {
	KT            float64
	Gamma         Gamma
	GammaRotation *Gamma
	ActOnVirtual  bool
	Seed          *uint64
}

// LBParams configures the lattice-Boltzmann coupling.
type LBParams struct {
	Fluid        Fluid
	Seed         *uint64
	ActOnVirtual bool
	Gamma        float64
}

// NPTParams configures the isotropic NPT barostat thermostat.
type NPTParams struct {
	KT     float64
	Gamma0 float64
	GammaV float64
}

// DPDParams configures the dissipative particle dynamics thermostat.
type DPDParams struct {
	KT   float64
	Seed *uint64
}

// Controller validates configuration changes and applies them to the
// replicated store. All validation happens before the first broadcast, so a
// failed call never leaves a partially updated state on any rank.
type Controller struct {
	store     *Store
	fluid     Fluid
	suspended []Record
}

func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

func (c *Controller) Store() *Store { return c.store }

// TurnOff disables every thermostat and zeroes the shared parameters.
// Always succeeds. Field order: temperature, gammas, barostat gammas,
// act-on-virtual, switch.
func (c *Controller) TurnOff() {
	c.store.SetTemperature(0)
	c.store.SetLangevinGamma(UniformGamma(0))
	c.store.SetLangevinGammaRotation(UniformGamma(0))
	c.store.SetNPTGamma0(0)
	c.store.SetNPTGammaV(0)
	c.store.SetActOnVirtual(true)
	c.store.SetSwitch(Off)
}

// SetLangevin enables the Langevin thermostat.
func (c *Controller) SetLangevin(p LangevinParams) error {
	st := c.store.State()
	if !compatible(st.Switch, Langevin) {
		return IncompatibleError{Active: st.Switch, Requested: Langevin}
	}
	if p.KT < 0 || math.IsNaN(p.KT) {
		return ArgumentError{Param: "kT", Reason: "must be a non-negative number"}
	}
	if err := validGamma("gamma", p.Gamma); err != nil {
		return err
	}
	if p.GammaRotation != nil {
		if err := validGamma("gamma_rotation", *p.GammaRotation); err != nil {
			return err
		}
	}
	if st.LangevinCounter == nil && p.Seed == nil {
		return MissingSeedError{Requested: Langevin}
	}

	if p.Seed != nil {
		c.store.SeedLangevin(*p.Seed)
	}
	c.store.SetTemperature(p.KT)
	c.store.SetLangevinGamma(p.Gamma)
	if p.GammaRotation != nil {
		c.store.SetLangevinGammaRotation(*p.GammaRotation)
	} else {
		c.store.SetLangevinGammaRotation(p.Gamma)
	}
	c.store.SetActOnVirtual(p.ActOnVirtual)
	c.store.SetSwitch(st.Switch | Langevin)
	return nil
}

// SetLB enables the lattice-Boltzmann coupling. A seed is only needed when
// the fluid itself is thermalized; an athermal fluid gets a deterministic
// counter at zero.
func (c *Controller) SetLB(p LBParams) error {
	st := c.store.State()
	if !compatible(st.Switch, LB) {
		return IncompatibleError{Active: st.Switch, Requested: LB}
	}
	if p.Fluid == nil {
		return ArgumentError{Param: "fluid", Reason: "an LB fluid is required"}
	}
	if p.Fluid.KT() > 0 {
		if st.LBCouplingCounter == nil && p.Seed == nil {
			return MissingSeedError{Requested: LB}
		}
		if p.Seed != nil {
			c.store.SeedLBCoupling(*p.Seed)
		}
	} else {
		c.store.SeedLBCoupling(0)
	}
	c.store.SetActOnVirtual(p.ActOnVirtual)
	c.store.SetSwitch(st.Switch | LB)
	c.store.SetLBCouplingGamma(p.Gamma)
	c.fluid = p.Fluid
	p.Fluid.SetCouplingGamma(p.Gamma)
	return nil
}

// SetNPT enables the isotropic NPT barostat thermostat.
func (c *Controller) SetNPT(p NPTParams) error {
	st := c.store.State()
	if !compatible(st.Switch, NPTIso) {
		return IncompatibleError{Active: st.Switch, Requested: NPTIso}
	}
	if p.KT < 0 || math.IsNaN(p.KT) {
		return ArgumentError{Param: "kT", Reason: "must be a non-negative number"}
	}
	if math.IsNaN(p.Gamma0) || math.IsNaN(p.GammaV) {
		return ArgumentError{Param: "gamma0/gammav", Reason: "must be numbers"}
	}
	c.store.SetTemperature(p.KT)
	c.store.SetNPTGamma0(p.Gamma0)
	c.store.SetNPTGammaV(p.GammaV)
	c.store.SetSwitch(st.Switch | NPTIso)
	return nil
}

// SetDPD enables the dissipative particle dynamics thermostat.
func (c *Controller) SetDPD(p DPDParams) error {
	st := c.store.State()
	if !compatible(st.Switch, DPD) {
		return IncompatibleError{Active: st.Switch, Requested: DPD}
	}
	if p.KT < 0 || math.IsNaN(p.KT) {
		return ArgumentError{Param: "kT", Reason: "must be a non-negative number"}
	}
	if st.DPDCounter == nil && p.Seed == nil {
		return MissingSeedError{Requested: DPD}
	}
	if p.Seed != nil {
		c.store.SeedDPD(*p.Seed)
	}
	c.store.SetTemperature(p.KT)
	c.store.SetSwitch(st.Switch | DPD)
	return nil
}

// Suspend captures the current configuration and turns the thermostat off.
// Used to run without thermal noise, e.g. during energy minimization.
func (c *Controller) Suspend() {
	c.suspended = c.Snapshot()
	c.TurnOff()
}

// Resume replays the configuration captured by the last Suspend.
func (c *Controller) Resume() error {
	return c.Restore(c.suspended)
}

func validGamma(param string, g Gamma) error {
	for _, v := range g {
		if v < 0 || math.IsNaN(v) {
			return ArgumentError{Param: param, Reason: "components must be non-negative numbers"}
		}
	}
	return nil
}
