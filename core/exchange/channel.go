// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package exchange

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

var ErrInvalidFileName = errors.New("invalid file name")

// FileChannel moves named JSON blobs in and out of the application.
type FileChannel interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// DirChannel is a FileChannel over a single directory.
// Names are plain file names; paths are rejected.
type DirChannel struct {
	Dir string
}

var _ FileChannel = DirChannel{}

func (c DirChannel) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := c.resolve(name)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

// Write stores data under name, replacing any existing file atomically.
func (c DirChannel) Write(ctx context.Context, name string, data []byte) error {
	path, err := c.resolve(name)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

func (c DirChannel) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}

	return filepath.Join(c.Dir, name), nil
}
