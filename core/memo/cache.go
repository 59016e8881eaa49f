// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package memo

import (
	"bytes"
	"container/list"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache of translated strings
// that is safe for concurrent use.
//
// Entries are indexed by a 64-bit hash of their key and hold the full key, so
// a lookup only hits when the keys are byte-identical.
//
// Instances must be constructed with [NewCache]; the zero value is not ready for use.
// When created with compression enabled, values are stored zstd-compressed whenever
// that saves space, and are transparently decompressed by [Cache.Get].
type Cache struct {
	size      int                      // Maximum number of entries
	evictList *list.List               // Front is the most recently used entry
	items     map[uint64]*list.Element // Maps key hashes to their list elements
	hash      func([]byte) uint64
	lock      sync.Mutex
	zstdEnc   *zstd.Encoder // nil when compression is disabled
	zstdDec   *zstd.Decoder // nil when compression is disabled

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	hash       uint64
	key        []byte
	value      []byte
	compressed bool
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries   int    `json:"entries"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// NewCache creates a cache holding at most size entries.
//
// It returns ErrInvalidSize if size is not a positive integer.
func NewCache(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[uint64]*list.Element),
		hash:      xxhash.Sum64,
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores value under key, making it the most recently used entry.
// An entry whose key shares the hash of key is replaced.
//
// Add reports whether an older entry was evicted to make room.
func (c *Cache) Add(key []byte, value string) bool {
	stored, compressed := c.prepare(value)
	hash := c.hash(key)

	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[hash]; ok {
		c.evictList.MoveToFront(ent)

		cacheEnt := ent.Value.(*cacheEntry)
		cacheEnt.key = bytes.Clone(key)
		cacheEnt.value = stored
		cacheEnt.compressed = compressed

		return false
	}

	c.items[hash] = c.evictList.PushFront(&cacheEntry{
		hash:       hash,
		key:        bytes.Clone(key),
		value:      stored,
		compressed: compressed,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
		c.evictions.Add(1)
	}

	return evicted
}

// Get returns the value stored under key and marks it as most recently used.
func (c *Cache) Get(key []byte) (string, bool) {
	hash := c.hash(key)

	c.lock.Lock()

	ent, ok := c.items[hash]
	if !ok || !bytes.Equal(ent.Value.(*cacheEntry).key, key) {
		c.lock.Unlock()
		c.misses.Add(1)

		return "", false
	}

	c.evictList.MoveToFront(ent)

	cacheEnt := ent.Value.(*cacheEntry)
	stored, compressed := cacheEnt.value, cacheEnt.compressed

	c.lock.Unlock()

	value, ok := c.restore(stored, compressed)
	if !ok {
		c.misses.Add(1)

		return "", false
	}

	c.hits.Add(1)

	return value, true
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Purge drops every entry. Counters are kept.
func (c *Cache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	clear(c.items)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:   c.Len(),
		Capacity:  c.size,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *Cache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*cacheEntry).hash)
}

// prepare compresses value when compression is enabled and it saves space.
// It is safe to call without holding the lock, as zstd.Encoder supports
// concurrent EncodeAll calls.
func (c *Cache) prepare(value string) ([]byte, bool) {
	raw := []byte(value)

	if c.zstdEnc != nil && len(raw) > 0 {
		if packed := c.zstdEnc.EncodeAll(raw, nil); len(packed) < len(raw) {
			return packed, true
		}
	}

	return raw, false
}

// restore reverses prepare. A value that fails to decompress is treated as missing.
func (c *Cache) restore(stored []byte, compressed bool) (string, bool) {
	if !compressed {
		return string(stored), true
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return "", false
	}

	return string(decoded), true
}
