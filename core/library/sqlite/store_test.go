// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rulesets.db")

	store, err := Open(context.Background(), path)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "")
	require.ErrorIs(t, err, library.ErrPathRequired)
}

func TestOpenRunsMigrationsOnce(t *testing.T) {
	t.Parallel()

	store, path := openTestStore(t)

	// A second open must skip the recorded migration.
	again, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, again.Close())

	var count int

	err = store.db.QueryRow(`SELECT COUNT(*) FROM ` + migrationTable).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var table string

	err = store.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'entries'`).Scan(&table)
	require.NoError(t, err)
	assert.Equal(t, "entries", table)
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := openTestStore(t)

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "beta", []byte("2")))
	require.NoError(t, store.Set(ctx, "alpha", []byte("1")))
	require.NoError(t, store.Set(ctx, "beta", []byte("3")))

	got, ok, err := store.Get(ctx, "beta")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", string(got))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, keys)

	require.NoError(t, store.Delete(ctx, "alpha"))

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, keys)

	require.ErrorIs(t, store.Set(ctx, "", []byte("x")), ErrKeyRequired)
}

func TestStoreBacksLibrary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := openTestStore(t)
	lib := library.New(store)

	rules := ruleset.RuleSet{
		Substitutions: ruleset.FromPairs("peace", "rix", "good", "tek"),
		Suffix:        "-ak",
		Grammar:       ruleset.GrammarDoubleVowels,
	}

	require.NoError(t, lib.Save(ctx, "calm", rules))

	loaded, ok, err := lib.Load(ctx, "calm")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rules.Equal(loaded))
}

func TestNilStore(t *testing.T) {
	t.Parallel()

	var store *Store

	_, _, err := store.Get(context.Background(), "x")
	require.ErrorIs(t, err, ErrNotConfigured)
	require.NoError(t, store.Close())
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\nUP\n", extractUpMigration("-- +migrate Up\nUP\n-- +migrate Down\nDOWN"))
	assert.Equal(t, "PLAIN", extractUpMigration("PLAIN"))
}
