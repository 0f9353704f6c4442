// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a fixed-capacity least-recently-used cache that is
safe for concurrent use.

Two callers share it: the session store, which keeps live visitor sessions and
sweeps idle ones, and the page cache, which keeps rendered documents per
language and theme. For the latter, []byte and string values may be stored
zstd-compressed and are decompressed on the way out.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// EvictFunc is called after an entry leaves the cache, outside of the lock.
type EvictFunc func(key string, value any)

type payload int

const (
	payloadOther payload = iota
	payloadBytes
	payloadString
)

type entry struct {
	key        string
	value      any
	compressed bool
	kind       payload
}

// Cache is a fixed-capacity LRU cache keyed by strings.
// Construct it with [New]; the zero value is not usable.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	items    map[string]*list.Element
	onEvict  EvictFunc

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Option configures a Cache.
type Option func(*Cache) error

// WithCompression stores string and []byte values zstd-compressed whenever
// that makes them smaller.
func WithCompression() Option {
	return func(c *Cache) error {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return err
		}

		c.enc, c.dec = enc, dec

		return nil
	}
}

// WithEvictFunc registers fn to observe every removal, including capacity
// evictions and sweeps.
func WithEvictFunc(fn EvictFunc) Option {
	return func(c *Cache) error {
		c.onEvict = fn

		return nil
	}
}

// New creates a cache holding at most size entries.
func New(size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		capacity: size,
		order:    list.New(),
		items:    make(map[string]*list.Element, size),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Add stores value under key and marks it most recently used.
// It reports whether an older entry was evicted to make room.
func (c *Cache) Add(key string, value any) bool {
	stored, compressed, kind := c.pack(value)

	c.mu.Lock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)

		ent := el.Value.(*entry)
		ent.value, ent.compressed, ent.kind = stored, compressed, kind

		c.mu.Unlock()

		return false
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: stored, compressed: compressed, kind: kind})

	var evicted *entry
	if c.order.Len() > c.capacity {
		evicted = c.unlink(c.order.Back())
	}

	c.mu.Unlock()

	if evicted != nil {
		c.notify(evicted)

		return true
	}

	return false
}

// Get returns the value for key and marks it most recently used.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()

	el, ok := c.items[key]
	if !ok {
		c.mu.Unlock()

		return nil, false
	}

	c.order.MoveToFront(el)
	ent := *el.Value.(*entry)

	c.mu.Unlock()

	return c.unpack(ent)
}

// Peek returns the value for key without touching the LRU order.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()

	el, ok := c.items[key]
	if !ok {
		c.mu.Unlock()

		return nil, false
	}

	ent := *el.Value.(*entry)

	c.mu.Unlock()

	return c.unpack(ent)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()

	el, ok := c.items[key]
	if !ok {
		c.mu.Unlock()

		return false
	}

	ent := c.unlink(el)

	c.mu.Unlock()

	c.notify(ent)

	return true
}

// RemoveFunc deletes every entry for which match returns true and returns how
// many were removed. match runs under the cache lock and must not call back
// into the cache. Compressed values are passed in their stored form.
func (c *Cache) RemoveFunc(match func(key string, value any) bool) int {
	var removed []*entry

	c.mu.Lock()

	for el := c.order.Back(); el != nil; {
		prev := el.Prev()

		ent := el.Value.(*entry)
		if match(ent.key, ent.value) {
			removed = append(removed, c.unlink(el))
		}

		el = prev
	}

	c.mu.Unlock()

	for _, ent := range removed {
		c.notify(ent)
	}

	return len(removed)
}

// Purge removes every entry.
func (c *Cache) Purge() {
	c.RemoveFunc(func(string, any) bool { return true })
}

// Keys returns all keys from oldest to newest.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.order.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key)
	}

	return keys
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

func (c *Cache) unlink(el *list.Element) *entry {
	c.order.Remove(el)

	ent := el.Value.(*entry)
	delete(c.items, ent.key)

	return ent
}

func (c *Cache) notify(ent *entry) {
	if c.onEvict == nil {
		return
	}

	value, ok := c.unpack(*ent)
	if !ok {
		value = nil
	}

	c.onEvict(ent.key, value)
}

// pack runs without the lock; zstd.Encoder.EncodeAll is safe for concurrent use.
func (c *Cache) pack(value any) (any, bool, payload) {
	switch v := value.(type) {
	case []byte:
		if c.enc != nil && len(v) > 0 {
			if packed := c.enc.EncodeAll(v, nil); len(packed) < len(v) {
				return packed, true, payloadBytes
			}
		}

		return append([]byte(nil), v...), false, payloadBytes
	case string:
		if c.enc != nil && v != "" {
			if packed := c.enc.EncodeAll([]byte(v), nil); len(packed) < len(v) {
				return packed, true, payloadString
			}
		}

		return v, false, payloadString
	default:
		return value, false, payloadOther
	}
}

func (c *Cache) unpack(ent entry) (any, bool) {
	if !ent.compressed {
		if b, ok := ent.value.([]byte); ok && b != nil {
			return append([]byte(nil), b...), true
		}

		return ent.value, true
	}

	raw, err := c.dec.DecodeAll(ent.value.([]byte), nil)
	if err != nil {
		return nil, false
	}

	if ent.kind == payloadString {
		return string(raw), true
	}

	return raw, true
}
