// Package storage provides the key-value string store behind the editor's
// storage slot: a JSON file holding every key as a top-level field, the way
// a browser's localStorage holds them for an origin.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrQuota is returned by Set when the store would grow past its quota.
	ErrQuota = errors.New("storage quota exceeded")
	// ErrCorrupt is returned when the backing file is not a JSON object.
	ErrCorrupt = errors.New("storage file is not valid JSON")
)

// Store is a key-value string store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// FileStore keeps all keys in one JSON object file. Writes replace the file
// atomically so a concurrent reader sees either the old or the new content.
type FileStore struct {
	mu    sync.Mutex
	path  string
	quota int
}

// NewFileStore returns a store backed by path. quota limits the file size in
// bytes; zero disables the limit. The file is created on first Set.
func NewFileStore(path string, quota int) *FileStore {
	return &FileStore{path: path, quota: quota}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	if len(data) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%s: %w", s.path, ErrCorrupt)
	}
	return data, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	res := gjson.GetBytes(data, gjson.Escape(key))
	if !res.Exists() {
		return "", false, nil
	}
	if res.Type == gjson.String {
		return res.Str, true, nil
	}
	return res.Raw, true, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	out, err := sjson.SetBytes(data, gjson.Escape(key), value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if s.quota > 0 && len(out) > s.quota {
		return fmt.Errorf("set %s (%d bytes > %d): %w", key, len(out), s.quota, ErrQuota)
	}
	return s.write(out)
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	if !gjson.GetBytes(data, gjson.Escape(key)).Exists() {
		return nil
	}
	out, err := sjson.DeleteBytes(data, gjson.Escape(key))
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return s.write(out)
}

func (s *FileStore) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store.
type MemStore struct {
	mu    sync.Mutex
	items map[string]string
	// Fail, when set, is returned by every operation.
	Fail error
}

func NewMemStore() *MemStore { return &MemStore{items: map[string]string{}} }

func (m *MemStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return "", false, m.Fail
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.items[key] = value
	return nil
}

func (m *MemStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	delete(m.items, key)
	return nil
}

// Len reports how many keys are stored.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
