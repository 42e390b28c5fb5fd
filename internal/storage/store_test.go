package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	samples := []sim.Telemetry{
		{ElapsedTime: 0.1, PositionX: 1, PositionY: 2, VelocityX: 3, VelocityY: -4},
		{ElapsedTime: 0.2, PositionX: 1.5, PositionY: 2, VelocityX: 3, VelocityY: -4.5},
	}
	id, err := s.Save(Run{Meta: RunMetadata{Scenario: "presets/incline.json", Primary: "block"}, Samples: samples})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != id || meta.Samples != 2 || meta.Duration != 0.2 || meta.Primary != "block" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if filepath.Dir(id) != "." || id[:8] != "incline_" {
		t.Errorf("unexpected id %q", id)
	}

	got, err := s.LoadTelemetry(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != samples[1] {
		t.Errorf("telemetry %+v", got)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if _, err := s.Save(Run{Meta: RunMetadata{Scenario: "spring"}}); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if !runs[0].Timestamp.After(runs[2].Timestamp) {
		t.Error("runs should be newest first")
	}

	empty, err := New(filepath.Join(dir, "missing")).List()
	if err != nil || len(empty) != 0 {
		t.Errorf("missing dir should list nothing: %v %v", empty, err)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.LoadTelemetry("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadTelemetrySkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "r")
	if err := os.MkdirAll(run, 0755); err != nil {
		t.Fatal(err)
	}
	data := "elapsed_time,position_x,position_y,velocity_x,velocity_y\n0.1,1,2,3,4\nx,1,2,3,4\n0.2,1\n"
	if err := os.WriteFile(filepath.Join(run, "telemetry.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := New(dir).LoadTelemetry("r")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].VelocityY != 4 {
		t.Errorf("telemetry %+v", got)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"incline", "incline"},
		{"dir/my scenario.yaml", "my_scenario"},
		{"", "run"},
		{"///", "run"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
