package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/handiism/ucdump/internal/cache"
	"github.com/handiism/ucdump/internal/model"
)

type recordingConverter struct {
	mu      sync.Mutex
	entries []model.CacheEntry
	calls   chan struct{}
}

func newRecordingConverter() *recordingConverter {
	return &recordingConverter{calls: make(chan struct{}, 16)}
}

func (r *recordingConverter) ConvertEntries(ctx context.Context, entries []model.CacheEntry) ([]model.Outcome, error) {
	r.mu.Lock()
	r.entries = append(r.entries, entries...)
	r.mu.Unlock()
	r.calls <- struct{}{}

	outcomes := make([]model.Outcome, len(entries))
	for i, e := range entries {
		outcomes[i] = model.Outcome{Entry: e, Stage: model.StageDone}
	}
	return outcomes, nil
}

func (r *recordingConverter) recorded() []model.CacheEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.CacheEntry(nil), r.entries...)
}

func startWatcher(t *testing.T, dir string, quiet time.Duration, conv Converter) *Watcher {
	t.Helper()
	w := New(dir, quiet, cache.NewLocator(".uc", cache.KeepLast, nil), conv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	})

	// Give fsnotify time to register the directory.
	time.Sleep(50 * time.Millisecond)
	return w
}

func waitCall(t *testing.T, conv *recordingConverter) {
	t.Helper()
	select {
	case <-conv.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for conversion")
	}
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	conv := newRecordingConverter()
	startWatcher(t, dir, 200*time.Millisecond, conv)

	path := filepath.Join(dir, "42-320-ab.uc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		f.Write([]byte("chunk"))
		time.Sleep(20 * time.Millisecond)
	}
	f.Close()

	waitCall(t, conv)

	// No second conversion should follow for the same burst of writes.
	select {
	case <-conv.calls:
		t.Error("file converted more than once")
	case <-time.After(400 * time.Millisecond):
	}

	got := conv.recorded()
	if len(got) != 1 || got[0].Identifier != "42" || got[0].SourcePath != path {
		t.Errorf("converted %+v, want one entry 42 at %s", got, path)
	}
}

func TestWatcher_IgnoresNonCacheFiles(t *testing.T) {
	dir := t.TempDir()
	conv := newRecordingConverter()
	w := startWatcher(t, dir, 50*time.Millisecond, conv)

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "index.uc"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "7.uc"), []byte("x"), 0644)

	waitCall(t, conv)
	time.Sleep(200 * time.Millisecond)

	got := conv.recorded()
	if len(got) != 1 || got[0].Identifier != "7" {
		t.Errorf("converted %+v, want only entry 7", got)
	}
	if n := w.Pending(); n != 0 {
		t.Errorf("Pending() = %d, want 0", n)
	}
}

func TestWatcher_CancelDropsPending(t *testing.T) {
	dir := t.TempDir()
	conv := newRecordingConverter()
	w := New(dir, time.Hour, cache.NewLocator(".uc", cache.KeepLast, nil), conv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	os.WriteFile(filepath.Join(dir, "1.uc"), []byte("x"), 0644)
	deadline := time.Now().Add(5 * time.Second)
	for w.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if w.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", w.Pending())
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.Pending() != 0 {
		t.Errorf("Pending() after cancel = %d, want 0", w.Pending())
	}
	if got := conv.recorded(); len(got) != 0 {
		t.Errorf("converted %+v after cancel, want none", got)
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), time.Millisecond, cache.NewLocator("", cache.KeepLast, nil), newRecordingConverter(), nil)
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
