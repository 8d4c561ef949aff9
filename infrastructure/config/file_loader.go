// Package config loads engine configuration from the filesystem.
package config

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-radar/internal/ports"
)

var _ ports.ConfigLoader = (*FileLoader)(nil)

// FileLoader reads YAML configuration from a fixed file path. Decoding
// is strict: unknown fields fail the load so configuration typos are
// not silently ignored.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the given path. The file is read
// on every Load call, not cached.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load implements ports.ConfigLoader. A missing file surfaces as
// ports.ErrConfigNotFound; an empty file leaves the target untouched.
func (l *FileLoader) Load(ctx context.Context, config any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.NewConfigError(l.path, ports.ErrConfigNotFound)
		}
		return ports.NewConfigError(l.path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return ports.NewConfigError(l.path, err)
	}
	return nil
}
