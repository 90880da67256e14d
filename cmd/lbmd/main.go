package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/lbmd/internal/boundary"
	"github.com/san-kum/lbmd/internal/comm"
	"github.com/san-kum/lbmd/internal/config"
	"github.com/san-kum/lbmd/internal/geom"
	"github.com/san-kum/lbmd/internal/lattice"
	"github.com/san-kum/lbmd/internal/metrics"
	"github.com/san-kum/lbmd/internal/monitor"
	"github.com/san-kum/lbmd/internal/sim"
	"github.com/san-kum/lbmd/internal/thermostat"
	"github.com/san-kum/lbmd/internal/tui"
)

var (
	configFile string
	steps      int
	dt         float64
	addr       string
	interval   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lbmd",
		Short: "thermostatted molecular dynamics with LB boundaries",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and plot the temperature trace",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "override step count")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "override timestep")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run and stream stats over websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&interval, "interval", 50*time.Millisecond, "publish interval")

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "print the thermostat snapshot for a config",
		RunE:  printState,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, stateCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

// demoFluid is a stand-in LB fluid handle for the CLI; the real fluid lives
// in the LB subsystem.
type demoFluid struct {
	kt    float64
	gamma float64
}

func (f *demoFluid) KT() float64                { return f.kt }
func (f *demoFluid) SetCouplingGamma(g float64) { f.gamma = g }

func buildSimulation(cfg *config.Config) (*sim.Simulator, *boundary.System, []sim.Particle, error) {
	c := comm.Single()
	ctrl := thermostat.NewController(thermostat.NewStore(c))

	var bsys *boundary.System
	if cfg.Lattice.Substrate == "gpu" {
		bsys = boundary.NewSystem(boundary.SwitchGPU, c, nil, &boundary.GPUTarget{
			Grid:   boundary.GridParams{Dim: cfg.Lattice.Grid, Agrid: cfg.Lattice.Agrid},
			Device: boundary.NewHostDevice(),
		})
	} else {
		halo := &lattice.Halo{
			Grid:  cfg.Lattice.Grid,
			Agrid: cfg.Lattice.Agrid,
			Tau:   cfg.Lattice.Tau,
		}
		bsys = boundary.NewSystem(boundary.SwitchCPU, c, &boundary.CPUTarget{
			Halo:   halo,
			Fields: make([]lattice.Node, halo.HaloVolume()),
		}, nil)
	}

	for _, bc := range cfg.Boundaries {
		var shape geom.Shape
		switch bc.Shape {
		case "wall":
			shape = geom.NewWall(geom.Vec3(bc.Normal), bc.Dist)
		case "sphere":
			shape = geom.NewSphere(geom.Vec3(bc.Center), bc.Radius)
		default:
			return nil, nil, nil, fmt.Errorf("unknown boundary shape: %s", bc.Shape)
		}
		b := boundary.New(shape, geom.Vec3(bc.Velocity))
		b.SetChargeDensity(bc.ChargeDensity)
		bsys.Registry.Add(b)
	}

	if err := applyThermostat(ctrl, cfg.Thermostat); err != nil {
		return nil, nil, nil, err
	}

	s := sim.New(ctrl, bsys)
	s.AddMetric(metrics.NewKineticTemperature(cfg.Run.Mass))
	s.AddMetric(metrics.NewMomentumDrift(cfg.Run.Mass))

	return s, bsys, makeParticles(cfg), nil
}

func applyThermostat(ctrl *thermostat.Controller, tc config.ThermostatConfig) error {
	switch tc.Kind {
	case "", "off":
		ctrl.TurnOff()
		return nil
	case "langevin":
		g, err := config.GammaVec(tc.Gamma)
		if err != nil {
			return err
		}
		p := thermostat.LangevinParams{
			KT:           tc.KT,
			Gamma:        thermostat.Gamma(g),
			ActOnVirtual: tc.ActOnVirtual,
			Seed:         tc.Seed,
		}
		if len(tc.GammaRotation) > 0 {
			gr, err := config.GammaVec(tc.GammaRotation)
			if err != nil {
				return err
			}
			rot := thermostat.Gamma(gr)
			p.GammaRotation = &rot
		}
		return ctrl.SetLangevin(p)
	case "lb":
		gamma := 0.0
		if len(tc.Gamma) > 0 {
			gamma = tc.Gamma[0]
		}
		return ctrl.SetLB(thermostat.LBParams{
			Fluid:        &demoFluid{kt: tc.KT},
			Seed:         tc.Seed,
			ActOnVirtual: tc.ActOnVirtual,
			Gamma:        gamma,
		})
	case "npt_iso":
		return ctrl.SetNPT(thermostat.NPTParams{KT: tc.KT, Gamma0: tc.Gamma0, GammaV: tc.GammaV})
	case "dpd":
		return ctrl.SetDPD(thermostat.DPDParams{KT: tc.KT, Seed: tc.Seed})
	}
	return fmt.Errorf("unknown thermostat kind: %s", tc.Kind)
}

func makeParticles(cfg *config.Config) []sim.Particle {
	rng := rand.New(rand.NewSource(cfg.Run.Seed))
	box := geom.Vec3{
		float64(cfg.Lattice.Grid[0]) * cfg.Lattice.Agrid,
		float64(cfg.Lattice.Grid[1]) * cfg.Lattice.Agrid,
		float64(cfg.Lattice.Grid[2]) * cfg.Lattice.Agrid,
	}
	ps := make([]sim.Particle, cfg.Run.Particles)
	for i := range ps {
		ps[i].Pos = geom.Vec3{
			rng.Float64() * box[0],
			rng.Float64() * box[1],
			rng.Float64() * box[2],
		}
		ps[i].Vel = geom.Vec3{
			rng.NormFloat64(),
			rng.NormFloat64(),
			rng.NormFloat64(),
		}
	}
	return ps
}

func runConfig(cfg *config.Config) sim.Config {
	rc := sim.Config{
		Dt:         cfg.Run.Dt,
		Steps:      cfg.Run.Steps,
		Mass:       cfg.Run.Mass,
		PistonMass: cfg.Run.PistonMass,
	}
	if steps > 0 {
		rc.Steps = steps
	}
	if dt > 0 {
		rc.Dt = dt
	}
	return rc
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, bsys, particles, err := buildSimulation(cfg)
	if err != nil {
		return err
	}

	result, err := s.Run(context.Background(), particles, runConfig(cfg))
	if err != nil {
		return err
	}

	if len(result.Temperatures) > 1 {
		fmt.Println(asciigraph.Plot(result.Temperatures, asciigraph.Height(12), asciigraph.Width(72)))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	for name, v := range result.Metrics {
		fmt.Fprintf(w, "%s\t%.6f\n", name, v)
	}
	for i, b := range bsys.Registry.All() {
		f, err := bsys.Force(b)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "boundary %d force\t(%.4g, %.4g, %.4g)\n", i+1, f[0], f[1], f[2])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, bsys, particles, err := buildSimulation(cfg)
	if err != nil {
		return err
	}
	rc := runConfig(cfg)
	stepper, err := s.Stepper(particles, rc)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(tui.NewModel(stepper, bsys, rc.Steps)).Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, bsys, particles, err := buildSimulation(cfg)
	if err != nil {
		return err
	}
	stepper, err := s.Stepper(particles, runConfig(cfg))
	if err != nil {
		return err
	}

	srv := monitor.NewServer()
	state := s.Controller().Store().State()
	go func() {
		for range time.Tick(interval) {
			temp, t := stepper.Step()
			st := monitor.Stats{
				Step:           stepper.StepCount(),
				Time:           t,
				Temperature:    temp,
				ActiveVariants: state.Switch.String(),
			}
			for _, b := range bsys.Registry.All() {
				f, err := bsys.Force(b)
				if err != nil {
					continue
				}
				st.BoundaryForces = append(st.BoundaryForces, [3]float64{f[0], f[1], f[2]})
			}
			srv.Publish(st)
		}
	}()
	return srv.ListenAndServe(addr)
}

func printState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, _, _, err := buildSimulation(cfg)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(s.Controller().Snapshot())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
