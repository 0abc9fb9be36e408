// Package imagestore keeps uploaded item images on the local filesystem.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no image is stored under a name.
var ErrNotFound = errors.New("image not found")

// Local stores images as files below a base directory.
type Local struct {
	basePath string
}

// NewLocal creates the base directory if needed and returns a store over it.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &Local{basePath: basePath}, nil
}

// Dir returns the base directory.
func (s *Local) Dir() string {
	return s.basePath
}

// Save writes r under name, replacing any existing file. The write goes to a
// temporary file first so readers never see a partial image.
func (s *Local) Save(_ context.Context, name string, r io.Reader) error {
	path, err := s.safeJoin(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating image directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	tmp := f.Name()

	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(tmp); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(tmp); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		if rerr := os.Remove(tmp); rerr != nil {
			slog.Error("failed to remove file after rename error", "error", rerr)
		}
		return fmt.Errorf("renaming file: %w", err)
	}
	return nil
}

// Open returns a reader for the image stored under name.
func (s *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.safeJoin(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// Delete removes the image stored under name.
func (s *Local) Delete(_ context.Context, name string) error {
	path, err := s.safeJoin(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// safeJoin resolves name relative to basePath and rejects directory traversal.
func (s *Local) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt: %q", name)
	}
	return absPath, nil
}
