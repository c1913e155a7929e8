// Package kv provides the string-valued key-value storage that task state is
// persisted into. It mirrors the browser localStorage contract: synchronous
// access, whole-value reads and writes, no partial updates.
package kv

import (
	"errors"
	"fmt"
	"strings"
)

// Storage is a synchronous string key-value store.
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key
	// is absent.
	GetItem(key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error

	// SetItems stores every entry in items as one write.
	// Backends that support it apply the entries atomically.
	SetItems(items map[string]string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(key string) error

	// Clear deletes every key.
	Clear() error

	// Close releases the underlying resources.
	Close() error
}

// ErrClosed is returned by operations on a closed storage.
var ErrClosed = errors.New("storage closed")

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

// Options selects and configures a storage backend.
type Options struct {
	// Backend is one of the Backend* constants. Empty means file.
	Backend string

	// Path is the file path for the file and sqlite backends.
	Path string

	// DSN is the data source name for the mysql backend.
	DSN string
}

// Open creates the storage described by opts.
func Open(opts Options) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("file storage: path required")
		}
		return OpenFile(opts.Path)
	case BackendSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite storage: path required")
		}
		return OpenSQLite(opts.Path)
	case BackendMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("mysql storage: dsn required")
		}
		return OpenMySQL(opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
