package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Static errors for storage operations.
var (
	// ErrNoDestination is returned when no destination directory is given.
	ErrNoDestination = errors.New("destination directory is required")
	// ErrInvalidName is returned when an output name is not a plain file name.
	ErrInvalidName = errors.New("invalid output name")
)

// LocalStorage implements Storage on local disk.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates a LocalStorage writing into dir.
// The directory is created if it doesn't exist.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, ErrNoDestination
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	return &LocalStorage{dir: dir}, nil
}

// Dir returns the destination directory.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes data to <dir>/<name>. The file is written to a temporary
// name first and renamed into place once complete.
func (s *LocalStorage) Save(ctx context.Context, name string, data io.Reader) (Object, error) {
	select {
	case <-ctx.Done():
		return Object{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return Object{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	f, err := os.CreateTemp(s.dir, "."+name+"_*")
	if err != nil {
		return Object{}, fmt.Errorf("create temp file: %w", err)
	}

	tmpName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return Object{}, fmt.Errorf("write %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return Object{}, fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil { // #nosec G302 - output frames are meant to be shared
		_ = os.Remove(tmpName)
		return Object{}, fmt.Errorf("chmod %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return Object{}, fmt.Errorf("rename %s: %w", name, err)
	}

	return Object{Path: path}, nil
}
