package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Thermostat.Kind = "lb"
	cfg.Thermostat.Gamma = []float64{1, 2, 3}
	cfg.Lattice.Substrate = "gpu"
	cfg.Boundaries = []BoundaryConfig{
		{Shape: "wall", Normal: [3]float64{0, 0, 1}, Dist: 1.5, Velocity: [3]float64{0.1, 0, 0}},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Thermostat.Kind != "lb" {
		t.Errorf("kind = %q", got.Thermostat.Kind)
	}
	if len(got.Thermostat.Gamma) != 3 || got.Thermostat.Gamma[1] != 2 {
		t.Errorf("gamma = %v", got.Thermostat.Gamma)
	}
	if got.Lattice.Substrate != "gpu" {
		t.Errorf("substrate = %q", got.Lattice.Substrate)
	}
	if len(got.Boundaries) != 1 || got.Boundaries[0].Dist != 1.5 {
		t.Errorf("boundaries = %+v", got.Boundaries)
	}
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("run:\n  steps: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Steps != 50 {
		t.Errorf("steps = %d, want 50", cfg.Run.Steps)
	}
	if cfg.Run.Dt != DefaultDt {
		t.Errorf("dt = %v, want default %v", cfg.Run.Dt, DefaultDt)
	}
	if cfg.Thermostat.Kind != "langevin" {
		t.Errorf("kind = %q, want default langevin", cfg.Thermostat.Kind)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestGammaVec(t *testing.T) {
	got, err := GammaVec([]float64{2})
	if err != nil {
		t.Fatal(err)
	}
	if got != [3]float64{2, 2, 2} {
		t.Errorf("isotropic expansion = %v", got)
	}

	got, err = GammaVec([]float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got != [3]float64{1, 2, 3} {
		t.Errorf("anisotropic = %v", got)
	}

	for _, bad := range [][]float64{nil, {1, 2}, {1, 2, 3, 4}} {
		if _, err := GammaVec(bad); err == nil {
			t.Errorf("GammaVec(%v) accepted", bad)
		}
	}
}
