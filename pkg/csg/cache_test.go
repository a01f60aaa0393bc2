package csg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermCacheFirstPutWins(t *testing.T) {
	c := newTermCache()
	first, second := leaf("first"), leaf("second")

	c.put(1, cacheEntry{term: first})
	c.put(1, cacheEntry{term: second})

	e, ok := c.get(1)
	require.True(t, ok)
	assert.Same(t, first, e.term)
	assert.Equal(t, 1, c.len())
}

func TestTermCacheRegisteredAbsent(t *testing.T) {
	c := newTermCache()
	c.put(7, cacheEntry{})

	e, ok := c.get(7)
	require.True(t, ok)
	assert.Nil(t, e.term)
	assert.Empty(t, e.terms())
}

func TestTermCacheMustGetMiss(t *testing.T) {
	c := newTermCache()
	_, err := c.mustGet(3)
	require.ErrorIs(t, err, ErrUnregisteredNode)
	assert.Contains(t, err.Error(), "#3")
}

func TestCacheEntryTerms(t *testing.T) {
	a, b := leaf("a"), leaf("b")
	assert.Equal(t, []*Term{a}, cacheEntry{term: a}.terms())
	assert.Equal(t, []*Term{a, b}, cacheEntry{spread: []*Term{a, b}, splice: true}.terms())
	assert.Empty(t, cacheEntry{splice: true}.terms())
}

func TestChildTableTakeClears(t *testing.T) {
	f := newFixture()
	a, b := f.cube(), f.sphere()
	ct := make(childTable)
	ct.track(9, a)
	ct.track(9, b)

	got := ct.take(9)
	assert.Len(t, got, 2)
	assert.Same(t, a, got[0])
	assert.Empty(t, ct.take(9))
}
