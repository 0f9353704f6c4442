// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidSize(t *testing.T) {
	t.Parallel()

	cache, err := New(0)
	require.ErrorIs(t, err, ErrInvalidSize)
	assert.Nil(t, cache)
}

func TestAddEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var evicted []string

	cache, err := New(2, WithEvictFunc(func(key string, _ any) {
		evicted = append(evicted, key)
	}))
	require.NoError(t, err)

	assert.False(t, cache.Add("a", 1))
	assert.False(t, cache.Add("b", 2))

	// touching "a" makes "b" the oldest
	_, ok := cache.Get("a")
	require.True(t, ok)

	assert.True(t, cache.Add("c", 3))
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, []string{"a", "c"}, cache.Keys())

	_, ok = cache.Peek("b")
	assert.False(t, ok)
}

func TestAddUpdatesExistingKey(t *testing.T) {
	t.Parallel()

	cache, err := New(2)
	require.NoError(t, err)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("a", 10)

	value, ok := cache.Peek("a")
	require.True(t, ok)
	assert.Equal(t, 10, value)
	assert.Equal(t, []string{"b", "a"}, cache.Keys())
	assert.Equal(t, 2, cache.Len())
}

func TestPeekKeepsOrder(t *testing.T) {
	t.Parallel()

	cache, err := New(2)
	require.NoError(t, err)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Peek("a")
	cache.Add("c", 3)

	_, ok := cache.Peek("a")
	assert.False(t, ok, "peek must not refresh recency")
}

func TestRemoveAndRemoveFunc(t *testing.T) {
	t.Parallel()

	var evicted []string

	cache, err := New(5, WithEvictFunc(func(key string, _ any) {
		evicted = append(evicted, key)
	}))
	require.NoError(t, err)

	for i := range 5 {
		cache.Add(strconv.Itoa(i), i)
	}

	assert.True(t, cache.Remove("0"))
	assert.False(t, cache.Remove("0"))

	n := cache.RemoveFunc(func(_ string, value any) bool {
		return value.(int)%2 == 1
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"2", "4"}, cache.Keys())
	assert.Equal(t, []string{"0", "1", "3"}, evicted)

	cache.Purge()
	assert.Zero(t, cache.Len())
}

func TestCompressionRoundTrip(t *testing.T) {
	t.Parallel()

	cache, err := New(4, WithCompression())
	require.NoError(t, err)

	page := strings.Repeat("<section>مرحبا</section>", 200)

	cache.Add("page", page)
	cache.Add("bytes", []byte(page))
	cache.Add("tiny", "x")

	value, ok := cache.Get("page")
	require.True(t, ok)
	assert.Equal(t, page, value)

	value, ok = cache.Get("bytes")
	require.True(t, ok)
	assert.Equal(t, []byte(page), value)

	value, ok = cache.Get("tiny")
	require.True(t, ok)
	assert.Equal(t, "x", value)
}

func TestGetReturnsCopyOfBytes(t *testing.T) {
	t.Parallel()

	cache, err := New(1)
	require.NoError(t, err)

	original := []byte("abc")
	cache.Add("k", original)
	original[0] = 'z'

	value, _ := cache.Get("k")
	got := value.([]byte)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'z'

	again, _ := cache.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache, err := New(16, WithCompression())
	require.NoError(t, err)

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				key := strconv.Itoa((worker*200 + i) % 32)
				cache.Add(key, strings.Repeat(key, 64))
				cache.Get(key)
			}
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, cache.Len(), 16)
}
