package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "store.json"), 0)
	v, ok, err := s.Get("monaco_editor_state")
	if err != nil || ok || v != "" {
		t.Fatalf("expected empty miss, got %q %v %v", v, ok, err)
	}
}

func TestFileStoreSetGetRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	s := NewFileStore(path, 0)
	blob := `{"code":"<p>a.b</p>","isDarkMode":true}`
	if err := s.Set("monaco_editor_state", blob); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("other.key", "x"); err != nil {
		t.Fatalf("set dotted key: %v", err)
	}
	v, ok, err := s.Get("monaco_editor_state")
	if err != nil || !ok || v != blob {
		t.Fatalf("expected stored blob back, got %q %v %v", v, ok, err)
	}
	if v, _, _ := s.Get("other.key"); v != "x" {
		t.Fatalf("expected dotted key to round-trip, got %q", v)
	}
	if err := s.Remove("monaco_editor_state"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get("monaco_editor_state"); ok {
		t.Fatalf("expected key to be gone")
	}
	if v, _, _ := s.Get("other.key"); v != "x" {
		t.Fatalf("remove must not touch other keys")
	}
	if err := s.Remove("never-set"); err != nil {
		t.Fatalf("removing a missing key must be a no-op: %v", err)
	}
}

func TestFileStoreOverwrites(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "store.json"), 0)
	_ = s.Set("k", "first")
	_ = s.Set("k", "second")
	v, _, _ := s.Get("k")
	if v != "second" {
		t.Fatalf("expected overwrite, got %q", v)
	}
	data, _ := os.ReadFile(s.Path())
	if strings.Contains(string(data), "first") {
		t.Fatalf("stale value left in file: %s", data)
	}
}

func TestFileStoreQuota(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "store.json"), 32)
	err := s.Set("k", strings.Repeat("x", 64))
	if !errors.Is(err, ErrQuota) {
		t.Fatalf("expected ErrQuota, got %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Fatalf("rejected write must not be stored")
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path, 0)
	if _, _, err := s.Get("k"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if err := s.Set("k", "v"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("set over a corrupt file must fail, got %v", err)
	}
}

func TestMemStoreFail(t *testing.T) {
	m := NewMemStore()
	_ = m.Set("k", "v")
	if m.Len() != 1 {
		t.Fatalf("expected one key")
	}
	m.Fail = errors.New("unavailable")
	if _, _, err := m.Get("k"); err == nil {
		t.Fatalf("expected failure")
	}
}

func TestWatchReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := NewFileStore(path, 0)
	_ = s.Set("k", "v0")

	changed := make(chan struct{}, 4)
	w, err := Watch(path, func() { changed <- struct{}{} }, nil)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	_ = s.Set("k", "v1")
	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatalf("expected change notification")
	}
}
