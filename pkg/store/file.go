package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend persists the store as a single file that is rewritten in full on every save
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for the store file at path
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Location returns the file path
func (b *FileBackend) Location() string {
	return b.path
}

// Read returns the file contents. A missing file is not an error.
func (b *FileBackend) Read() ([]byte, bool, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &IOError{Op: "read", Path: b.path, Err: err}
	}
	return data, true, nil
}

// Write replaces the file contents. The new contents go to a temporary file in the same
// directory which is synced and renamed over the store file, so readers see either the
// old or the new contents.
func (b *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(b.path)

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0750); err != nil {
		return &IOError{Op: "create directory for", Path: b.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: b.path, Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(op string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &IOError{Op: op, Path: b.path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}

	// Fsync to disk before the rename makes the new contents visible
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}

	if err := tmp.Chmod(0600); err != nil {
		return fail("chmod", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "close", Path: b.path, Err: err}
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "replace", Path: b.path, Err: err}
	}

	return nil
}
