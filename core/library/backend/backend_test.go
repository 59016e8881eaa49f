// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/library/backend"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		kind config.StorageBackend
		path string
	}{
		{kind: config.MemoryBackend},
		{kind: config.FileBackend, path: filepath.Join(dir, "rulesets.json")},
		{kind: config.SQLiteBackend, path: filepath.Join(dir, "rulesets.db")},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()

			store, err := backend.Open(ctx, tt.kind, tt.path)
			require.NoError(t, err)

			t.Cleanup(func() { assert.NoError(t, store.Close()) })

			assert.Equal(t, tt.kind, store.Backend)

			lib := library.New(store)
			require.NoError(t, lib.Save(ctx, "Test", ruleset.Default()))

			names, err := lib.Names(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Test"}, names)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	_, err := backend.Open(context.Background(), "redis", "")
	require.ErrorIs(t, err, backend.ErrUnknownBackend)

	_, err = backend.Open(context.Background(), config.FileBackend, " ")
	require.ErrorIs(t, err, library.ErrPathRequired)

	_, err = backend.Open(context.Background(), config.SQLiteBackend, "")
	require.ErrorIs(t, err, library.ErrPathRequired)
}
