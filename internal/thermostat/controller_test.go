package thermostat_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lbmd/internal/comm"
	"github.com/san-kum/lbmd/internal/thermostat"
)

type fakeFluid struct {
	kt    float64
	gamma float64
}

func (f *fakeFluid) KT() float64                { return f.kt }
func (f *fakeFluid) SetCouplingGamma(g float64) { f.gamma = g }

func seed(v uint64) *uint64 { return &v }

var _ = Describe("Controller", func() {
	var ctrl *thermostat.Controller

	langevin := func() error {
		return ctrl.SetLangevin(thermostat.LangevinParams{
			KT:    1.0,
			Gamma: thermostat.UniformGamma(2.0),
			Seed:  seed(7),
		})
	}

	BeforeEach(func() {
		ctrl = thermostat.NewController(thermostat.NewStore(comm.Single()))
	})

	Describe("compatibility rules", func() {
		It("allows langevin and dpd together", func() {
			Expect(langevin()).To(Succeed())
			Expect(ctrl.SetDPD(thermostat.DPDParams{KT: 1.0, Seed: seed(3)})).To(Succeed())
			st := ctrl.Store().State()
			Expect(st.Switch.Has(thermostat.Langevin)).To(BeTrue())
			Expect(st.Switch.Has(thermostat.DPD)).To(BeTrue())
		})

		It("allows lb and dpd together", func() {
			Expect(ctrl.SetLB(thermostat.LBParams{Fluid: &fakeFluid{}})).To(Succeed())
			Expect(ctrl.SetDPD(thermostat.DPDParams{KT: 1.0, Seed: seed(3)})).To(Succeed())
		})

		It("rejects npt while langevin is active and leaves state unchanged", func() {
			Expect(langevin()).To(Succeed())
			before := *ctrl.Store().State()

			err := ctrl.SetNPT(thermostat.NPTParams{KT: 1.0, Gamma0: 1.0, GammaV: 1.0})
			var incompatible thermostat.IncompatibleError
			Expect(errors.As(err, &incompatible)).To(BeTrue())
			Expect(incompatible.Requested).To(Equal(thermostat.NPTIso))

			after := ctrl.Store().State()
			Expect(after.Switch).To(Equal(before.Switch))
			Expect(after.Temperature).To(Equal(before.Temperature))
			Expect(after.NPTGamma0).To(BeZero())
		})

		It("rejects langevin while lb is active", func() {
			Expect(ctrl.SetLB(thermostat.LBParams{Fluid: &fakeFluid{}})).To(Succeed())
			err := langevin()
			var incompatible thermostat.IncompatibleError
			Expect(errors.As(err, &incompatible)).To(BeTrue())
		})

		It("rejects anything next to npt", func() {
			Expect(ctrl.SetNPT(thermostat.NPTParams{KT: 1.0, Gamma0: 1.0, GammaV: 2.0})).To(Succeed())
			var incompatible thermostat.IncompatibleError
			Expect(errors.As(langevin(), &incompatible)).To(BeTrue())
			Expect(errors.As(ctrl.SetDPD(thermostat.DPDParams{KT: 1.0, Seed: seed(1)}), &incompatible)).To(BeTrue())
		})
	})

	Describe("seeding", func() {
		It("requires a seed on first activation", func() {
			err := ctrl.SetLangevin(thermostat.LangevinParams{KT: 1.0, Gamma: thermostat.UniformGamma(2.0)})
			var missing thermostat.MissingSeedError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(ctrl.Store().State().Switch).To(Equal(thermostat.Off))
		})

		It("reports the seeded counter value in the snapshot", func() {
			Expect(langevin()).To(Succeed())
			records := ctrl.Snapshot()
			Expect(records).To(HaveLen(1))
			Expect(records[0].Counter).NotTo(BeNil())
			Expect(*records[0].Counter).To(Equal(uint64(7)))
		})

		It("re-seeds rather than appending", func() {
			Expect(langevin()).To(Succeed())
			ctrl.Store().State().AdvanceCounters()
			ctrl.Store().State().AdvanceCounters()
			Expect(ctrl.Store().State().LangevinCounter.Value()).To(Equal(uint64(9)))

			Expect(langevin()).To(Succeed())
			Expect(ctrl.Store().State().LangevinCounter.Value()).To(Equal(uint64(7)))
		})

		It("accepts a re-activation without a seed once seeded", func() {
			Expect(langevin()).To(Succeed())
			err := ctrl.SetLangevin(thermostat.LangevinParams{KT: 2.0, Gamma: thermostat.UniformGamma(1.0)})
			Expect(err).NotTo(HaveOccurred())
			Expect(ctrl.Store().State().Temperature).To(Equal(2.0))
		})
	})

	Describe("validation", func() {
		It("rejects negative kT before any mutation", func() {
			err := ctrl.SetLangevin(thermostat.LangevinParams{KT: -1, Gamma: thermostat.UniformGamma(1), Seed: seed(1)})
			var arg thermostat.ArgumentError
			Expect(errors.As(err, &arg)).To(BeTrue())
			Expect(ctrl.Store().State().LangevinCounter).To(BeNil())
			Expect(ctrl.Store().State().Temperature).To(Equal(-1.0))
		})

		It("rejects negative gamma components", func() {
			err := ctrl.SetLangevin(thermostat.LangevinParams{
				KT:    1,
				Gamma: thermostat.Gamma{1, -2, 3},
				Seed:  seed(1),
			})
			var arg thermostat.ArgumentError
			Expect(errors.As(err, &arg)).To(BeTrue())
		})

		It("requires a fluid handle for lb coupling", func() {
			var arg thermostat.ArgumentError
			Expect(errors.As(ctrl.SetLB(thermostat.LBParams{}), &arg)).To(BeTrue())
		})
	})

	Describe("lb coupling", func() {
		It("needs no seed for an athermal fluid and zeroes the counter", func() {
			fluid := &fakeFluid{kt: 0}
			Expect(ctrl.SetLB(thermostat.LBParams{Fluid: fluid, Gamma: 0.5})).To(Succeed())
			st := ctrl.Store().State()
			Expect(st.LBCouplingCounter).NotTo(BeNil())
			Expect(st.LBCouplingCounter.Value()).To(BeZero())
			Expect(fluid.gamma).To(Equal(0.5))
		})

		It("requires a seed for a thermalized fluid", func() {
			err := ctrl.SetLB(thermostat.LBParams{Fluid: &fakeFluid{kt: 1.0}})
			var missing thermostat.MissingSeedError
			Expect(errors.As(err, &missing)).To(BeTrue())
		})
	})

	Describe("turn off", func() {
		It("yields a single off record", func() {
			Expect(langevin()).To(Succeed())
			ctrl.TurnOff()
			records := ctrl.Snapshot()
			Expect(records).To(HaveLen(1))
			Expect(records[0].Kind).To(Equal(thermostat.KindOff))
			Expect(ctrl.Store().State().Temperature).To(BeZero())
			Expect(ctrl.Store().State().ActOnVirtual).To(BeTrue())
		})
	})

	Describe("snapshot and restore", func() {
		It("round-trips langevin plus dpd through a fresh controller", func() {
			Expect(langevin()).To(Succeed())
			Expect(ctrl.SetDPD(thermostat.DPDParams{KT: 1.0, Seed: seed(11)})).To(Succeed())
			records := ctrl.Snapshot()
			Expect(records).To(HaveLen(2))
			Expect(records[0].Kind).To(Equal(thermostat.KindLangevin))
			Expect(records[1].Kind).To(Equal(thermostat.KindDPD))

			fresh := thermostat.NewController(thermostat.NewStore(comm.Single()))
			Expect(fresh.Restore(records)).To(Succeed())

			a, b := ctrl.Store().State(), fresh.Store().State()
			Expect(b.Switch).To(Equal(a.Switch))
			Expect(b.Temperature).To(Equal(a.Temperature))
			Expect(b.LangevinGamma).To(Equal(a.LangevinGamma))
			Expect(b.LangevinCounter.Value()).To(Equal(a.LangevinCounter.Value()))
			Expect(b.DPDCounter.Value()).To(Equal(a.DPDCounter.Value()))
		})

		It("ignores unknown record kinds", func() {
			Expect(ctrl.Restore([]thermostat.Record{{Kind: "brownian"}})).To(Succeed())
			Expect(ctrl.Store().State().Switch).To(Equal(thermostat.Off))
		})

		It("treats an empty input as a no-op", func() {
			Expect(langevin()).To(Succeed())
			Expect(ctrl.Restore(nil)).To(Succeed())
			Expect(ctrl.Store().State().Switch.Has(thermostat.Langevin)).To(BeTrue())
		})
	})

	Describe("suspend and resume", func() {
		It("restores the pre-suspend snapshot exactly", func() {
			Expect(langevin()).To(Succeed())
			before := ctrl.Snapshot()

			ctrl.Suspend()
			Expect(ctrl.Store().State().Switch).To(Equal(thermostat.Off))

			Expect(ctrl.Resume()).To(Succeed())
			Expect(ctrl.Snapshot()).To(Equal(before))
		})
	})
})
