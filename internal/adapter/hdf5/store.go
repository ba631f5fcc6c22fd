// Package hdf5 persists ODIM trees as HDF5 files.
package hdf5

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/iris2odim/internal/odim"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

// Store creates containers sharing one compression setting.
type Store struct {
	level  int
	logger *slog.Logger
}

// NewStore returns a Store writing datasets with the given deflate level
// (0 disables compression).
func NewStore(level int, logger *slog.Logger) *Store {
	return &Store{level: level, logger: logger}
}

// NewContainer returns an empty container.
func (s *Store) NewContainer() (*Container, error) {
	return &Container{level: s.level, logger: s.logger}, nil
}

// Container holds one laid out object until it is saved.
type Container struct {
	level  int
	logger *slog.Logger
	root   *odim.Group
	closed bool
}

var errClosed = errors.New("container is closed")

// SetObject lays out obj. The container does not retain obj itself but
// shares its data arrays until Close.
func (c *Container) SetObject(obj domain.Object) error {
	if c.closed {
		return errClosed
	}
	root, err := odim.Encode(obj)
	if err != nil {
		return err
	}
	c.root = root
	return nil
}

// outputMode is the permission of saved files; temp files start owner-only.
const outputMode os.FileMode = 0o644

// Save writes the object to path. The file is written to a temporary name in
// the same directory and renamed into place, so path is never left partial.
func (c *Container) Save(ctx context.Context, path string) (err error) {
	if c.closed {
		return errClosed
	}
	if c.root == nil {
		return errors.New("no object set")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if err := writeFile(name, c.root, c.level); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(name, outputMode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	c.logger.Debug("odim file saved", "path", path, "compression", c.level)
	return nil
}

// Close drops the laid out tree. It is safe to call more than once.
func (c *Container) Close() error {
	c.root = nil
	c.closed = true
	return nil
}
