package ledger

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeTemp(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCleanupRemovesAllRegistered(t *testing.T) {
	dir := t.TempDir()
	l := New(nil)
	paths := []string{
		writeTemp(t, dir, "input.mp4"),
		writeTemp(t, dir, "audio.wav"),
		writeTemp(t, dir, "subs.srt"),
	}
	for _, p := range paths {
		l.Register(p)
	}

	l.Cleanup()

	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("path %s still exists after cleanup", p)
		}
	}
	if got := l.Registered(); len(got) != 0 {
		t.Fatalf("expected empty ledger after cleanup, got %v", got)
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	l := New(nil)
	path := writeTemp(t, dir, "one.bin")
	l.Register(path)

	l.Cleanup()
	// Recreate the path; further sweeps must not touch it again.
	path = writeTemp(t, dir, "one.bin")
	l.Cleanup()
	l.Cleanup()

	if _, err := os.Stat(path); err != nil {
		t.Fatal("recreated path should survive repeated sweeps")
	}
}

func TestRegisterAfterCleanupOfSamePathIsIgnored(t *testing.T) {
	dir := t.TempDir()
	l := New(nil)
	path := writeTemp(t, dir, "done.bin")
	l.Register(path)
	l.Cleanup()

	// The path was already removed once for this job; it must not be
	// queued a second time.
	l.Register(path)
	if got := l.Registered(); len(got) != 0 {
		t.Fatalf("expected re-registration to be ignored, got %v", got)
	}
}

func TestRegisterIgnoresEmptyAndDuplicates(t *testing.T) {
	l := New(nil)
	l.Register("")
	l.Register("  ")
	l.Register("/tmp/a")
	l.Register("/tmp/a")
	if got := l.Registered(); len(got) != 1 {
		t.Fatalf("expected single entry, got %v", got)
	}
}

func TestConcurrentCleanup(t *testing.T) {
	dir := t.TempDir()
	l := New(nil)
	for i := 0; i < 20; i++ {
		l.Register(writeTemp(t, dir, filepath.Base(t.Name())+string(rune('a'+i))))
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Cleanup()
		}()
	}
	wg.Wait()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}
