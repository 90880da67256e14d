// Package thermostat implements the replicated thermostat configuration of
// the simulation: a parameter store every rank holds an identical copy of, a
// controller that validates and broadcasts configuration changes, and the
// per-particle friction/noise kernels built from the derived prefactors.
package thermostat

import (
	"github.com/san-kum/lbmd/internal/comm"
	"github.com/san-kum/lbmd/internal/geom"
)

// Variant is the or'd set of active thermostats.
type Variant uint8

const (
	Off      Variant = 0
	Langevin Variant = 1
	DPD      Variant = 2
	NPTIso   Variant = 4
	LB       Variant = 8
)

// allowed maps a variant to the mask it may coexist with. A Set* call is
// rejected unless the active mask is a subset of the requested variant's
// entry (or Off).
var allowed = map[Variant]Variant{
	Langevin: Langevin | DPD,
	LB:       LB | DPD,
	NPTIso:   NPTIso,
	DPD:      DPD | Langevin | LB,
}

func (v Variant) Has(o Variant) bool { return v&o != 0 }

func (v Variant) String() string {
	switch v {
	case Off:
		return "off"
	case Langevin:
		return "langevin"
	case DPD:
		return "dpd"
	case NPTIso:
		return "npt_iso"
	case LB:
		return "lb"
	}
	out := ""
	for _, b := range []Variant{Langevin, LB, NPTIso, DPD} {
		if v.Has(b) {
			if out != "" {
				out += "+"
			}
			out += b.String()
		}
	}
	return out
}

func compatible(active, requested Variant) bool {
	return active == Off || active&^allowed[requested] == 0
}

// Gamma is a per-axis friction coefficient. Isotropic values carry the same
// number in all three components; the sentinel (-1,-1,-1) means "not set".
type Gamma geom.Vec3

func UniformGamma(v float64) Gamma { return Gamma{v, v, v} }

func gammaSentinel() Gamma { return Gamma{-1, -1, -1} }

func (g Gamma) Vec() geom.Vec3 { return geom.Vec3(g) }

func (g Gamma) unset() bool { return g[0] < 0 || g[1] < 0 || g[2] < 0 }

// Counter is a monotonic stream position for a counter-based RNG. Its
// presence on the state, not its value, marks the stream as seeded.
type Counter struct {
	v uint64
}

func NewCounter(seed uint64) *Counter { return &Counter{v: seed} }

func (c *Counter) Value() uint64 { return c.v }
func (c *Counter) Increment()    { c.v++ }

// State is the thermostat configuration replicated on every rank, plus the
// prefactors derived from it at the start of each integration phase.
type State struct {
	Switch       Variant
	Temperature  float64
	ActOnVirtual bool

	LangevinGamma         Gamma
	LangevinGammaRotation Gamma

	NPTGamma0 float64
	NPTGammaV float64

	LBCouplingGamma float64

	LangevinCounter   *Counter
	DPDCounter        *Counter
	LBCouplingCounter *Counter

	// Derived, recomputed by Init; never persisted.
	LangevinPrefFriction      geom.Vec3
	LangevinPrefNoise         geom.Vec3
	LangevinPrefNoiseRotation geom.Vec3
	NPTPrefVel                [2]float64
	NPTPrefVol                [2]float64
}

func NewState() *State {
	return &State{
		Switch:                Off,
		Temperature:           -1,
		ActOnVirtual:          true,
		LangevinGamma:         gammaSentinel(),
		LangevinGammaRotation: gammaSentinel(),
	}
}

// AdvanceCounters increments the RNG counter of every active variant. Called
// once per integration step so draws never repeat.
func (st *State) AdvanceCounters() {
	if st.Switch.Has(Langevin) && st.LangevinCounter != nil {
		st.LangevinCounter.Increment()
	}
	if st.Switch.Has(DPD) && st.DPDCounter != nil {
		st.DPDCounter.Increment()
	}
	if st.Switch.Has(LB) && st.LBCouplingCounter != nil {
		st.LBCouplingCounter.Increment()
	}
}

// Replicated field names; the broadcast order within each controller
// operation is part of the wire contract.
const (
	FieldTemperature     = "temperature"
	FieldSwitch          = "thermo_switch"
	FieldActOnVirtual    = "thermo_virtual"
	FieldLangevinGamma   = "langevin_gamma"
	FieldLangevinGammaRt = "langevin_gamma_rotation"
	FieldNPTGamma0       = "nptiso_gamma0"
	FieldNPTGammaV       = "nptiso_gammav"
	FieldLBCouplingGamma = "lb_coupling_gamma"
	FieldLangevinSeed    = "langevin_rng_counter"
	FieldDPDSeed         = "dpd_rng_counter"
	FieldLBCouplingSeed  = "lb_coupling_rng_counter"
)

// Store owns the replicated state on one rank. Every mutation broadcasts the
// field to the other ranks before applying it locally, so all copies advance
// through identical intermediate states.
type Store struct {
	comm  comm.Communicator
	state *State
}

func NewStore(c comm.Communicator) *Store {
	s := &Store{comm: c, state: NewState()}
	c.OnBroadcast(s.apply)
	return s
}

func (s *Store) State() *State { return s.state }

func (s *Store) set(msg comm.Message) {
	s.comm.Broadcast(msg)
	s.apply(msg)
}

func (s *Store) SetTemperature(v float64) {
	s.set(comm.Message{Field: FieldTemperature, Values: []float64{v}})
}

func (s *Store) SetSwitch(v Variant) {
	s.set(comm.Message{Field: FieldSwitch, Values: []float64{float64(v)}})
}

func (s *Store) SetActOnVirtual(b bool) {
	v := 0.0
	if b {
		v = 1
	}
	s.set(comm.Message{Field: FieldActOnVirtual, Values: []float64{v}})
}

func (s *Store) SetLangevinGamma(g Gamma) {
	v := g.Vec()
	s.set(comm.Message{Field: FieldLangevinGamma, Values: v[:]})
}

func (s *Store) SetLangevinGammaRotation(g Gamma) {
	v := g.Vec()
	s.set(comm.Message{Field: FieldLangevinGammaRt, Values: v[:]})
}

func (s *Store) SetNPTGamma0(v float64) {
	s.set(comm.Message{Field: FieldNPTGamma0, Values: []float64{v}})
}

func (s *Store) SetNPTGammaV(v float64) {
	s.set(comm.Message{Field: FieldNPTGammaV, Values: []float64{v}})
}

func (s *Store) SetLBCouplingGamma(v float64) {
	s.set(comm.Message{Field: FieldLBCouplingGamma, Values: []float64{v}})
}

// Seed* replace the variant's counter outright: reseeding a live stream
// resets it, it does not append.
func (s *Store) SeedLangevin(counter uint64) {
	s.set(comm.Message{Field: FieldLangevinSeed, Counter: counter})
}

func (s *Store) SeedDPD(counter uint64) {
	s.set(comm.Message{Field: FieldDPDSeed, Counter: counter})
}

func (s *Store) SeedLBCoupling(counter uint64) {
	s.set(comm.Message{Field: FieldLBCouplingSeed, Counter: counter})
}

func (s *Store) apply(msg comm.Message) {
	st := s.state
	switch msg.Field {
	case FieldTemperature:
		st.Temperature = msg.Values[0]
	case FieldSwitch:
		st.Switch = Variant(msg.Values[0])
	case FieldActOnVirtual:
		st.ActOnVirtual = msg.Values[0] != 0
	case FieldLangevinGamma:
		copy(st.LangevinGamma[:], msg.Values)
	case FieldLangevinGammaRt:
		copy(st.LangevinGammaRotation[:], msg.Values)
	case FieldNPTGamma0:
		st.NPTGamma0 = msg.Values[0]
	case FieldNPTGammaV:
		st.NPTGammaV = msg.Values[0]
	case FieldLBCouplingGamma:
		st.LBCouplingGamma = msg.Values[0]
	case FieldLangevinSeed:
		st.LangevinCounter = NewCounter(msg.Counter)
	case FieldDPDSeed:
		st.DPDCounter = NewCounter(msg.Counter)
	case FieldLBCouplingSeed:
		st.LBCouplingCounter = NewCounter(msg.Counter)
	}
}
