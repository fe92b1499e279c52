package storage

import "errors"

// ErrKeyNotFound is returned when a slot has no persisted value.
var ErrKeyNotFound = errors.New("key not found")

// Provider is a keyed-slot persistence capability. The session layer is
// the only writer; the concrete mechanism (JSON file, SQLite) is swappable
// without touching session logic.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Slots
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	Path() string
}
