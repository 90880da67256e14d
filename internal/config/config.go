package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt    = 0.01
	DefaultSteps = 1000
	DefaultKT    = 1.0
	DefaultGamma = 1.0
	DefaultAgrid = 1.0
	DefaultTau   = 0.01
)

type Config struct {
	Thermostat ThermostatConfig `yaml:"thermostat"`
	Lattice    LatticeConfig    `yaml:"lattice"`
	Boundaries []BoundaryConfig `yaml:"boundaries"`
	Run        RunConfig        `yaml:"run"`
}

type ThermostatConfig struct {
	Kind          string    `yaml:"kind"` // off, langevin, lb, npt_iso, dpd
	KT            float64   `yaml:"kt"`
	Gamma         []float64 `yaml:"gamma"` // one entry or three (anisotropic)
	GammaRotation []float64 `yaml:"gamma_rotation"`
	ActOnVirtual  bool      `yaml:"act_on_virtual"`
	Seed          *uint64   `yaml:"seed"`
	Gamma0        float64   `yaml:"gamma0"`
	GammaV        float64   `yaml:"gammav"`
}

type LatticeConfig struct {
	Substrate string  `yaml:"substrate"` // cpu or gpu
	Grid      [3]int  `yaml:"grid"`
	Agrid     float64 `yaml:"agrid"`
	Tau       float64 `yaml:"tau"`
}

type BoundaryConfig struct {
	Shape         string     `yaml:"shape"` // wall or sphere
	Normal        [3]float64 `yaml:"normal"`
	Dist          float64    `yaml:"dist"`
	Center        [3]float64 `yaml:"center"`
	Radius        float64    `yaml:"radius"`
	Velocity      [3]float64 `yaml:"velocity"`
	ChargeDensity float64    `yaml:"charge_density"`
}

type RunConfig struct {
	Dt         float64 `yaml:"dt"`
	Steps      int     `yaml:"steps"`
	Particles  int     `yaml:"particles"`
	Mass       float64 `yaml:"mass"`
	PistonMass float64 `yaml:"piston_mass"`
	Seed       int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	seed := uint64(42)
	return &Config{
		Thermostat: ThermostatConfig{
			Kind:  "langevin",
			KT:    DefaultKT,
			Gamma: []float64{DefaultGamma},
			Seed:  &seed,
		},
		Lattice: LatticeConfig{
			Substrate: "cpu",
			Grid:      [3]int{16, 16, 16},
			Agrid:     DefaultAgrid,
			Tau:       DefaultTau,
		},
		Run: RunConfig{
			Dt:        DefaultDt,
			Steps:     DefaultSteps,
			Particles: 64,
			Mass:      1.0,
			Seed:      1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GammaVec expands a one- or three-entry gamma list to per-axis components.
func GammaVec(vals []float64) ([3]float64, error) {
	switch len(vals) {
	case 1:
		return [3]float64{vals[0], vals[0], vals[0]}, nil
	case 3:
		return [3]float64{vals[0], vals[1], vals[2]}, nil
	}
	return [3]float64{}, fmt.Errorf("gamma needs 1 or 3 components, got %d", len(vals))
}
