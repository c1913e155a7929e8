package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// File is a Storage backed by a single JSON object file.
//
// Every read takes a shared lock and every write an exclusive lock on a
// sibling ".lock" file, so separate processes sharing the file never observe
// a half-written state. Writes go to a temp file that is renamed into place.
// A file that does not decode as a JSON object of strings reads as empty.
type File struct {
	mu     sync.Mutex
	path   string
	lock   *flock.Flock
	closed bool
}

// OpenFile opens (creating its directory if needed) the file storage at path.
func OpenFile(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the data file path.
func (f *File) Path() string {
	return f.path
}

// GetItem implements Storage.
func (f *File) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}

	if err := f.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer func() { _ = f.lock.Unlock() }()

	items, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

// SetItem implements Storage.
func (f *File) SetItem(key, value string) error {
	return f.SetItems(map[string]string{key: value})
}

// SetItems implements Storage.
func (f *File) SetItems(items map[string]string) error {
	return f.update(func(cur map[string]string) {
		for k, v := range items {
			cur[k] = v
		}
	})
}

// RemoveItem implements Storage.
func (f *File) RemoveItem(key string) error {
	return f.update(func(cur map[string]string) {
		delete(cur, key)
	})
}

// Clear implements Storage.
func (f *File) Clear() error {
	return f.update(func(cur map[string]string) {
		for k := range cur {
			delete(cur, k)
		}
	})
}

// Close implements Storage.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.lock.Close()
}

// update applies fn to the current contents under the exclusive lock and
// writes the result back.
func (f *File) update(fn func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer func() { _ = f.lock.Unlock() }()

	items, err := f.read()
	if err != nil {
		return err
	}
	fn(items)
	return f.write(items)
}

func (f *File) read() (map[string]string, error) {
	items := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return items, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return make(map[string]string), nil
	}
	return items, nil
}

func (f *File) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
