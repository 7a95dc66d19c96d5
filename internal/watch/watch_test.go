package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestProjectFiles(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.tile.json", true},
		{"/x/B.JSON", true},
		{"a.png", false},
		{".tilesmith-123.tmp", false},
	}
	for _, tt := range tests {
		if got := ProjectFiles(tt.path); got != tt.want {
			t.Errorf("ProjectFiles(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestOnly(t *testing.T) {
	m := Only("/tmp/a/../a/tile.json")
	if !m("/tmp/a/tile.json") {
		t.Fatal("expected cleaned path to match")
	}
	if m("/tmp/a/other.json") {
		t.Fatal("unexpected match")
	}
}

func TestWatchFileReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tile.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchFile(path, DefaultDebounce)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"version":"1.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-w.Events:
		if filepath.Clean(got) != filepath.Clean(path) {
			t.Fatalf("event for %q", got)
		}
	case err := <-w.Errors:
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
}

func TestWatchFileWaitsForLastWrite(t *testing.T) {
	const window = 200 * time.Millisecond
	dir := t.TempDir()
	path := filepath.Join(dir, "tile.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchFile(path, window)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`{"version":`); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	final := `{"version":"1.0"}`
	if _, err := f.WriteAt([]byte(final), 0); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	lastWrite := time.Now()

	select {
	case got := <-w.Events:
		if since := time.Since(lastWrite); since < window/2 {
			t.Fatalf("event %v after the last write, want the window to pass first", since)
		}
		if filepath.Clean(got) != filepath.Clean(path) {
			t.Fatalf("event for %q", got)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != final {
			t.Fatalf("file at event time = %q", data)
		}
	case err := <-w.Errors:
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}

	select {
	case got := <-w.Events:
		t.Fatalf("writes inside one window reported twice, extra event for %q", got)
	case <-time.After(2 * window):
	}
}

func TestCloseClosesChannels(t *testing.T) {
	w, err := NewWatcher(nil, DefaultDebounce, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatal("events still open")
	}
	if err := w.Close(); err != nil {
		t.Fatal("second close should be a no-op")
	}
}
