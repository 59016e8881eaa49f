// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package backend opens the rule-set store selected by the storage section of
// the configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/library/sqlite"
	"github.com/rs/zerolog/log"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is an open library.KeyValueStore and the function that releases it.
type Store struct {
	library.KeyValueStore

	Backend config.StorageBackend
	close   func() error
}

// Close releases the store. It is safe to call on every backend.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}

	return s.close()
}

// Open returns the store for kind. path is ignored by the memory backend.
func Open(ctx context.Context, kind config.StorageBackend, path string) (*Store, error) {
	switch kind {
	case config.MemoryBackend:
		return &Store{KeyValueStore: library.NewMemoryStore(), Backend: kind}, nil

	case config.FileBackend:
		fs, err := library.NewFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open rule set file: %w", err)
		}

		log.Info().Str("backend", string(kind)).Str("path", fs.Path()).Msg("Opened rule set storage")

		return &Store{KeyValueStore: fs, Backend: kind}, nil

	case config.SQLiteBackend:
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open rule set database: %w", err)
		}

		log.Info().Str("backend", string(kind)).Str("path", path).Msg("Opened rule set storage")

		return &Store{KeyValueStore: db, Backend: kind, close: db.Close}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
}

// FromConfig opens the store named by cfg.Storage.
func FromConfig(ctx context.Context, cfg *config.ServerConfig) (*Store, error) {
	return Open(ctx, cfg.Storage.Backend, cfg.Storage.Path)
}
