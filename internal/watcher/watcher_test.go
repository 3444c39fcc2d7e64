package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/se-bastiaan/captionconvert/internal/logging"
)

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), nil, nil, 1)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatcherDispatchesCaptionFiles(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 10)
	handler := func(ctx context.Context, path string) error {
		seen <- path
		return nil
	}

	w, err := New(dir, handler, logging.Nop(), 1)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer func() {
		_ = w.Stop()
	}()
	w.settle = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	// give the event loop a moment before producing events
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	captionPath := filepath.Join(dir, "movie.vtt")
	if err := os.WriteFile(captionPath, []byte("WEBVTT\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case got := <-seen:
		if got != captionPath {
			t.Errorf("expected %s, got %s", captionPath, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	select {
	case extra := <-seen:
		t.Errorf("unexpected extra dispatch for %s", extra)
	default:
	}
}
