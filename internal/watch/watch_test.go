package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestSupported(t *testing.T) {
	tests := map[string]bool{
		"talk.json":   true,
		"clip.MP4":    true,
		"a/b/c.mkv":   true,
		"notes.txt":   false,
		"noext":       false,
		"audio.wav":   true,
		"draft.json~": false,
	}
	for in, want := range tests {
		if got := Supported(in); got != want {
			t.Fatalf("Supported(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(t.TempDir(), nil, Options{}); err == nil {
		t.Fatalf("expected error for nil handler")
	}
	noop := func(context.Context, string) error { return nil }
	if _, err := New(filepath.Join(t.TempDir(), "missing"), noop, Options{}); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestWatcher_HandlesNewInputs(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)
	w, err := New(dir, func(_ context.Context, path string) error {
		got <- filepath.Base(path)
		return errors.New("handler errors are logged, not fatal")
	}, Options{Settle: 10 * time.Millisecond, MaxConcurrent: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var startErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		startErr = w.Start(ctx)
	}()

	for _, name := range []string{"notes.txt", "talk.json", "clip.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case name := <-got:
			seen[name] = true
		case <-deadline:
			t.Fatalf("timed out, handled %v", seen)
		}
	}
	if !seen["talk.json"] || !seen["clip.mp4"] {
		t.Fatalf("unexpected handled set %v", seen)
	}

	cancel()
	wg.Wait()
	if !errors.Is(startErr, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", startErr)
	}
	select {
	case name := <-got:
		t.Fatalf("unexpected extra handler call for %s", name)
	default:
	}
}
