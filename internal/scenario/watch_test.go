package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(`{"objects": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Scenario, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(sc *Scenario, err error) {
			if err == nil {
				got <- sc
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case sc := <-got:
			if len(sc.Objects) != 1 || sc.Objects[0].ID != "late" {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("watch returned %v", err)
			}
			return
		case <-tick.C:
			// the watcher may not be registered yet on the first writes
			_ = os.WriteFile(path, []byte(`{"objects": [{"id": "late", "radius": 1, "shape": "circle"}]}`), 0644)
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "scene.json"), func(*Scenario, error) {})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
