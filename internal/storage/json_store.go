package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type fileStore struct {
	Version int               `json:"version"`
	Slots   map[string]string `json:"slots"`
}

// JSONStore keeps slots in a single JSON file. Values are written with
// 0600 permissions since one of them is the session credential.
type JSONStore struct {
	path  string
	store *fileStore
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.store = &fileStore{Version: 1, Slots: make(map[string]string)}
			return s.save()
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &fileStore{}
	if err := json.Unmarshal(data, s.store); err != nil {
		// An unreadable file is the same as no file: start over empty so
		// the session layer sees a logged-out state instead of an error.
		s.store = &fileStore{Version: 1, Slots: make(map[string]string)}
		return s.save()
	}
	if s.store.Slots == nil {
		s.store.Slots = make(map[string]string)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("storage not initialized")
	}
	value, ok := s.store.Slots[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *JSONStore) Set(key, value string) error {
	if s.store == nil {
		return fmt.Errorf("storage not initialized")
	}
	s.store.Slots[key] = value
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	if s.store == nil {
		return fmt.Errorf("storage not initialized")
	}
	delete(s.store.Slots, key)
	return s.save()
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not initialized")
	}
	keys := make([]string, 0, len(s.store.Slots))
	for k := range s.store.Slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Path returns the path to the underlying storage file.
//
// Concurrency note: JSONStore is not safe for concurrent use by multiple
// goroutines or multiple processes sharing the same path.
func (s *JSONStore) Path() string {
	return s.path
}
