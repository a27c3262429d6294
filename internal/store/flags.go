// Package store persists the two things the game keeps across runs: small
// per-device flags (the mute preference) and submitted scores.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"unicode/utf16"
)

// FlagStore is a string key-value store.
type FlagStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// HashCode returns the 31-multiplier hash of s over its UTF-16 code units,
// wrapped to 32 bits, in decimal. It scopes flag keys by game name.
func HashCode(s string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	return strconv.FormatInt(int64(h), 10)
}

// MemoryFlags keeps flags for the life of the process.
type MemoryFlags struct {
	mu    sync.RWMutex
	flags map[string]string
}

// NewMemoryFlags creates an empty in-memory flag store.
func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{flags: make(map[string]string)}
}

func (m *MemoryFlags) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.flags[key]
	return v, ok
}

func (m *MemoryFlags) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = value
	return nil
}

// FileFlags keeps flags in a JSON object on disk, rewritten on every Set.
type FileFlags struct {
	path string

	mu    sync.Mutex
	flags map[string]string
}

// OpenFileFlags loads path. A missing file starts empty.
func OpenFileFlags(path string) (*FileFlags, error) {
	f := &FileFlags{path: path, flags: make(map[string]string)}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, err
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.flags); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileFlags) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.flags[key]
	return v, ok
}

func (f *FileFlags) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[key] = value

	data, err := json.MarshalIndent(f.flags, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
