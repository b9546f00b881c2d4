package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Storage keys holding the session
const (
	KeyUser  = "vinteg_user"
	KeyToken = "vinteg_token"
)

// Storage is a string key/value store for session data
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStorage lives as long as the process, like a browser tab's storage
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileStorage keeps values in a JSON file so a remembered session survives restarts
type FileStorage struct {
	mu   sync.Mutex
	path string
}

var _ Storage = (*FileStorage)(nil)

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		// an unreadable file is replaced
		values = map[string]string{}
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return f.save(map[string]string{})
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStorage load] failed to read")
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "[FileStorage load] failed to decode")
	}
	return values, nil
}

// save writes through a temporary file so readers never see a partial file
func (f *FileStorage) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "[FileStorage save] failed to encode")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStorage save] failed to create directory")
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStorage save] failed to write")
	}
	return errors.Wrap(os.Rename(tmp, f.path), "[FileStorage save] failed to replace")
}
