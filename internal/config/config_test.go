package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := []byte("gravity_constant: 0.25\ncontour_nodes: 24\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GravityConstant != 0.25 {
		t.Errorf("GravityConstant = %f, want 0.25", cfg.GravityConstant)
	}
	if cfg.ContourNodes != 24 {
		t.Errorf("ContourNodes = %d, want 24", cfg.ContourNodes)
	}
	// Untouched fields keep their defaults.
	if cfg.GrowthDuration != Default().GrowthDuration {
		t.Errorf("GrowthDuration = %f, want default %f", cfg.GrowthDuration, Default().GrowthDuration)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("contour_nodes: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for contour_nodes: 1")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
