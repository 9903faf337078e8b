package compilecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestIsStableAndContentAddressed(t *testing.T) {
	a := Digest([]byte(`{"a":1}`))
	b := Digest([]byte(`{"a":1}`))
	c := Digest([]byte(`{"a":2}`))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	cache, err := Open(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	digest := Digest([]byte(`{"module":"demo"}`))
	_, ok, err := cache.Lookup(digest)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Store(digest, "demo", "define i32 @demo.main() { ret i32 0 }"))

	irText, ok, err := cache.Lookup(digest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, irText, "demo.main")
}

func TestStoreOverwritesSameDigest(t *testing.T) {
	cache, err := Open(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	digest := Digest([]byte(`{"module":"demo"}`))
	require.NoError(t, cache.Store(digest, "demo", "old"))
	require.NoError(t, cache.Store(digest, "demo", "new"))

	irText, ok, err := cache.Lookup(digest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", irText)
}
