package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("embed", "model", "text")
	assert.Equal(t, a, Key("embed", "model", "text"))
	assert.NotEqual(t, a, Key("embed", "mode", "ltext"))
	assert.NotEqual(t, a, Key("other", "model", "text"))
	assert.Contains(t, a, "clauseguard:v1:embed:")
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(0, time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(0, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)
	key := Key("embed", "x")

	require.NoError(t, c.Set(key, []byte("payload"), 0))
	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []byte("payload"), v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must be renamed away")
	assert.NotContains(t, entries[0].Name(), ":")

	require.NoError(t, c.Delete(key))
	require.NoError(t, c.Delete(key), "deleting a missing entry is not an error")
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	require.NoError(t, c.Set("old", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, ok := c.Get("old")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(c.path("bad"), []byte("{not json"), 0644))
	_, ok = c.Get("bad")
	assert.False(t, ok)
	_, err := os.Stat(c.path("bad"))
	assert.True(t, os.IsNotExist(err), "corrupt entries are removed")
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	require.NoError(t, disk.Set("k", []byte("v"), 0))

	c := NewLayeredCache(time.Hour, dir, time.Hour)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	mem := c.memory.(*MemoryCache)
	assert.Equal(t, 1, mem.Len())

	require.NoError(t, c.Clear())
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(0, time.Minute)
	vec := []float32{0.25, -1, 3.5}

	require.NoError(t, SetJSON(c, "v", vec, 0))
	var got []float32
	require.True(t, GetJSON(c, "v", &got))
	assert.Equal(t, vec, got)

	require.NoError(t, c.Set("bad", []byte("nope"), 0))
	assert.False(t, GetJSON(c, "bad", &got))
	assert.False(t, GetJSON(c, "missing", &got))
}

func TestNew(t *testing.T) {
	assert.IsType(t, NopCache{}, New(model.CacheConfig{Enabled: false}))
	assert.IsType(t, &MemoryCache{}, New(model.CacheConfig{Enabled: true}))
	assert.IsType(t, &LayeredCache{}, New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}))

	nop := NopCache{}
	require.NoError(t, nop.Set("k", []byte("v"), 0))
	_, ok := nop.Get("k")
	assert.False(t, ok)
}
