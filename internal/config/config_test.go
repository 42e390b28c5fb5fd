package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TimeScale != 0.3 {
		t.Errorf("expected time scale 0.3, got %f", cfg.TimeScale)
	}
	if cfg.StepInterval() != time.Second/60 {
		t.Errorf("step interval %v", cfg.StepInterval())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physvis.yaml")

	cfg := DefaultConfig()
	cfg.Primary = "block"
	cfg.Server.Addr = ":9000"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Primary != "block" || loaded.Server.Addr != ":9000" || loaded.Canvas.Width != DefaultWidth {
		t.Errorf("unexpected config %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("time_scale: 0.5\ncanvas:\n  width: 1024\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TimeScale != 0.5 || cfg.Canvas.Width != 1024 || cfg.Canvas.Height != DefaultHeight || cfg.StepRate != DefaultStepRate {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "canvas: [1, 2"},
		{"zero canvas", "canvas:\n  width: 0\n"},
		{"negative step rate", "step_rate: -1\n"},
		{"zero ppm", "pixels_per_meter: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProfiles(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ApplyProfile("realtime") || cfg.TimeScale != 1.0 {
		t.Errorf("realtime profile not applied: %v", cfg.TimeScale)
	}
	if cfg.ApplyProfile("nonexistent") {
		t.Error("expected false for nonexistent profile")
	}
	names := ListProfiles()
	if len(names) != len(Profiles) || names[0] != "hires" {
		t.Errorf("profiles %v", names)
	}
}
