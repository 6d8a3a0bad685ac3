package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	w := &Watcher{jars: map[string]bool{"/deps/lib.zip": true}}
	tests := []struct {
		path string
		want bool
	}{
		{"/out/pkg/Point.class", true},
		{"/out/pkg/Point.CLASS", true},
		{"/deps/other.jar", true},
		{"/deps/lib.zip", true},
		{"/deps/other.zip", false},
		{"/out/pkg/notes.txt", false},
		{"/out/pkg", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := w.relevant(tt.path); got != tt.want {
				t.Errorf("relevant(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRunDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := New([]string{dir}, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(changed []string) error {
			calls <- changed
			return nil
		})
	}()

	for _, name := range []string{"A.class", "B.class", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(sub, name), []byte{0xCA, 0xFE}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case changed := <-calls:
		for _, p := range changed {
			if filepath.Ext(p) != ".class" {
				t.Errorf("changed = %v, want only class files", changed)
			}
		}
		if len(changed) == 0 {
			t.Error("Expected at least one changed path")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change notification")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNewMissingRoot(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("Expected an error for a missing root")
	}
}
