package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTuningIsValid(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}
}

func TestLoadTuningEmptyPathReturnsDefaults(t *testing.T) {
	got, err := LoadTuning("")
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got != DefaultTuning() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestLoadTuningOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "lives: 5\nalien:\n  points: 750\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got.Lives != 5 {
		t.Errorf("Lives = %d, want 5", got.Lives)
	}
	if got.Alien.Points != 750 {
		t.Errorf("Alien.Points = %d, want 750", got.Alien.Points)
	}
	if got.Alien.SpawnTime != 40 {
		t.Errorf("Alien.SpawnTime = %v, want default 40", got.Alien.SpawnTime)
	}
	if got.StartWaveSize != 7 {
		t.Errorf("StartWaveSize = %d, want default 7", got.StartWaveSize)
	}
}

func TestLoadTuningRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "lives: 0\nmass:\n  min_mass_limit: -1\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadTuning(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "lives") || !strings.Contains(err.Error(), "mass limits") {
		t.Fatalf("error should mention both problems, got %v", err)
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("HYPERJUMP_TEST_FLAG", "true")
	if !GetEnvBool("HYPERJUMP_TEST_FLAG", false) {
		t.Error("expected true")
	}
	t.Setenv("HYPERJUMP_TEST_FLAG", "garbage")
	if GetEnvBool("HYPERJUMP_TEST_FLAG", false) {
		t.Error("unparsable value should fall back")
	}
}
