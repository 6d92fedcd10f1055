// Package memory keeps the per-profile key/value facts the assistant uses to
// personalize answers. The whole multi-profile mapping lives in one JSON file
// that is rewritten on every mutation.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Store is safe for concurrent use. A single mutex serializes every
// read-modify-write-persist cycle, regardless of profile.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]map[string]string
}

// Open loads the mapping stored at path. A missing file yields an empty
// store; a file that cannot be decoded yields *CorruptStateError.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load replaces the in-memory view with the file contents.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.data = map[string]map[string]string{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read memory file: %w", err)
	}

	data := map[string]map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return &CorruptStateError{Path: s.path, Err: err}
		}
	}
	for id, m := range data {
		if m == nil {
			data[id] = map[string]string{}
		}
	}

	s.data = data
	return nil
}

// Set stores value under key for profileID and persists the whole mapping
// before returning. On a failed write the in-memory view is left unchanged.
func (s *Store) Set(profileID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneData()
	if next[profileID] == nil {
		next[profileID] = map[string]string{}
	}
	next[profileID][key] = value

	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// GetAll returns a copy of the profile's facts, or an empty map.
func (s *Store) GetAll(profileID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.data[profileID]))
	maps.Copy(out, s.data[profileID])
	return out
}

// Clear empties the profile's facts and persists. Profiles without entries
// are left alone and nothing is written.
func (s *Store) Clear(profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data[profileID]) == 0 {
		return nil
	}

	next := s.cloneData()
	next[profileID] = map[string]string{}

	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Profiles lists the known profile ids in lexical order.
func (s *Store) Profiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.data))
}

func (s *Store) cloneData() map[string]map[string]string {
	next := make(map[string]map[string]string, len(s.data)+1)
	for id, m := range s.data {
		next[id] = maps.Clone(m)
	}
	return next
}

// persist writes to a temp file next to the target and renames it in place.
func (s *Store) persist(data map[string]map[string]string) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create memory dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace memory file: %w", err)
	}
	return nil
}
