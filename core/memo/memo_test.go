// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package memo

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache(t *testing.T) {
	t.Parallel()

	t.Run("ValidSize_NoCompression", func(t *testing.T) {
		t.Parallel()

		cache, err := NewCache(3, false)
		require.NoError(t, err)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("ValidSize_WithCompression", func(t *testing.T) {
		t.Parallel()

		cache, err := NewCache(3, true)
		require.NoError(t, err)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("InvalidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := NewCache(0, false)
		require.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, cache)
	})
}

func TestCache_Eviction(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(2, false)
	require.NoError(t, err)

	assert.False(t, cache.Add([]byte("1"), "one"))
	assert.False(t, cache.Add([]byte("2"), "two"))

	// Touch 1 so that 2 becomes the oldest entry.
	_, ok := cache.Get([]byte("1"))
	require.True(t, ok)

	assert.True(t, cache.Add([]byte("3"), "three"))

	_, ok = cache.Get([]byte("2"))
	assert.False(t, ok, "least recently used entry should be evicted")

	got, ok := cache.Get([]byte("1"))
	assert.True(t, ok)
	assert.Equal(t, "one", got)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestCache_Compression(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(4, true)
	require.NoError(t, err)

	long := strings.Repeat("zyx qal mek ", 200)

	cache.Add([]byte("1"), long)
	cache.Add([]byte("2"), "")
	cache.Add([]byte("3"), "x")

	for key, want := range map[string]string{"1": long, "2": "", "3": "x"} {
		got, ok := cache.Get([]byte(key))
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(16, true)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 100 {
				key := []byte(strconv.Itoa(i*1000 + j))
				cache.Add(key, strconv.Itoa(j))
				cache.Get(key)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 16)
}

func TestCache_HashCollision(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(4, false)
	require.NoError(t, err)

	cache.hash = func([]byte) uint64 { return 7 }

	cache.Add([]byte("first"), "one")

	_, ok := cache.Get([]byte("second"))
	assert.False(t, ok, "a different key with the same hash must miss")

	cache.Add([]byte("second"), "two")

	got, ok := cache.Get([]byte("second"))
	require.True(t, ok)
	assert.Equal(t, "two", got)

	_, ok = cache.Get([]byte("first"))
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestKey(t *testing.T) {
	t.Parallel()

	base := ruleset.RuleSet{
		Substitutions: ruleset.FromPairs("a", "b", "c", "d"),
		Prefix:        "zy-",
		Grammar:       ruleset.GrammarNone,
	}

	reordered := base.Clone()
	reordered.Substitutions = ruleset.FromPairs("c", "d", "a", "b")

	shifted := base.Clone()
	shifted.Prefix = ""
	shifted.Suffix = "zy-"

	assert.Equal(t, Key("text", base), Key("text", base.Clone()))
	assert.NotEqual(t, Key("text", base), Key("text", reordered))
	assert.NotEqual(t, Key("text", base), Key("text", shifted))
	assert.NotEqual(t, Key("text", base), Key("text ", base))
}

func TestTranslator_MatchesEngine(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(8, true)
	require.NoError(t, err)

	memo := New(cache)
	rules := ruleset.RuleSet{
		Substitutions: ruleset.FromPairs("hello", "zyx", "friend", "vix"),
		Prefix:        "ko-",
		Grammar:       ruleset.GrammarReverse,
	}
	text := "Hello, my friend! How are you doing today?"

	want := translator.Translate(text, rules)

	assert.Equal(t, want, memo.Translate(text, rules))
	assert.Equal(t, want, memo.Translate(text, rules))

	stats := memo.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, translator.CountRuleApplications(text, rules), memo.CountRuleApplications(text, rules))
}

func TestTranslator_WithoutCache(t *testing.T) {
	t.Parallel()

	var nilMemo *Translator

	rules := ruleset.RuleSet{Substitutions: ruleset.FromPairs("cat", "dog"), Grammar: ruleset.GrammarNone}

	assert.Equal(t, "Dog", nilMemo.Translate("Cat", rules))
	assert.Equal(t, "Dog", New(nil).Translate("Cat", rules))
	assert.Equal(t, Stats{}, New(nil).Stats())
}
