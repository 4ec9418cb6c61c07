package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splice/internal/driver"
)

func newCache(t *testing.T) *driver.DiskCache {
	t.Helper()
	c, err := driver.NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return c
}

func TestCacheKeyDependsOnFingerprint(t *testing.T) {
	a := driver.CacheKey([]byte("fn f() {}"), "x")
	b := driver.CacheKey([]byte("fn f() {}"), "y")
	c := driver.CacheKey([]byte("fn f() {}x"), "")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, driver.CacheKey([]byte("fn f() {}"), "x"))
	assert.Len(t, a.String(), 64)
}

func TestDiskCachePutGet(t *testing.T) {
	c := newCache(t)
	key := driver.CacheKey([]byte("a"), "")

	var got driver.CachePayload
	ok, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	want := driver.CachePayload{
		Schema:  1,
		Text:    []byte("struct AB;\n"),
		Changed: true,
		Env:     map[string]driver.EnvDep{"HOME": {Value: "/root", Set: true}},
	}
	require.NoError(t, c.Put(key, &want))
	ok, err = c.Get(key, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Text, got.Text)
	assert.Equal(t, want.Env, got.Env)
	assert.True(t, got.Changed)
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	c := newCache(t)
	key := driver.CacheKey([]byte("a"), "")
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), key.String()+".mp"), []byte{0xc1}, 0o644))
	var got driver.CachePayload
	_, err := c.Get(key, &got)
	assert.Error(t, err)
}

func TestPayloadValid(t *testing.T) {
	p := driver.CachePayload{Schema: 1, Env: map[string]driver.EnvDep{
		"SET":   {Value: "1", Set: true},
		"UNSET": {},
	}}
	assert.True(t, p.Valid(envFrom(map[string]string{"SET": "1"})))
	assert.False(t, p.Valid(envFrom(map[string]string{"SET": "2"})))
	assert.False(t, p.Valid(envFrom(map[string]string{"SET": "1", "UNSET": ""})))
	p.Schema = 0
	assert.False(t, p.Valid(envFrom(map[string]string{"SET": "1"})))
}

func TestExpandFileUsesCache(t *testing.T) {
	c := newCache(t)
	path := writeFile(t, t.TempDir(), "lib.rs", `struct [<A env!("V")>];`)
	run := func(v string) *driver.ExpandResult {
		res, err := driver.ExpandFile(context.Background(), path, driver.Options{
			Cache:     c,
			LookupEnv: envFrom(map[string]string{"V": v}),
		})
		require.NoError(t, err)
		return res
	}

	first := run("b")
	require.False(t, first.Cached)
	assert.Equal(t, "struct Ab;\n", string(first.Text))

	second := run("b")
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.True(t, second.Changed)
	assert.Nil(t, second.Output)

	third := run("c")
	assert.False(t, third.Cached, "changed env var must invalidate the entry")
	assert.Equal(t, "struct Ac;\n", string(third.Text))
}

func TestExpandFileCachesDiagnostics(t *testing.T) {
	c := newCache(t)
	path := writeFile(t, t.TempDir(), "lib.rs", `struct [<A env!("GONE")>];`)
	opts := driver.Options{Cache: c, LookupEnv: envFrom(nil)}

	first, err := driver.ExpandFile(context.Background(), path, opts)
	require.NoError(t, err)
	require.True(t, first.Failed())

	second, err := driver.ExpandFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.True(t, second.Failed())
	require.Equal(t, first.Bag.Len(), second.Bag.Len())
	a, b := first.Bag.Items()[0], second.Bag.Items()[0]
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Primary, b.Primary)
}

func TestExpandFileCacheKeyedByOptions(t *testing.T) {
	c := newCache(t)
	path := writeFile(t, t.TempDir(), "lib.rs", `struct [<A env!("GONE")>];`)
	_, err := driver.ExpandFile(context.Background(), path, driver.Options{Cache: c, LookupEnv: envFrom(nil)})
	require.NoError(t, err)

	res, err := driver.ExpandFile(context.Background(), path, driver.Options{Cache: c, LookupEnv: envFrom(nil), ErrorTokens: true})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Contains(t, string(res.Text), "compile_error!")
}

func TestDiskCachePrune(t *testing.T) {
	c := newCache(t)
	base := time.Now().Add(-time.Hour)
	var keys []driver.Digest
	for i, name := range []string{"old", "mid", "new"} {
		key := driver.CacheKey([]byte(name), "")
		require.NoError(t, c.Put(key, &driver.CachePayload{Schema: 1, Text: []byte(name)}))
		stamp := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(c.Dir(), key.String()+".mp"), stamp, stamp))
		keys = append(keys, key)
	}

	removed, err := c.Prune(1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	var p driver.CachePayload
	for i, key := range keys {
		ok, err := c.Get(key, &p)
		require.NoError(t, err)
		assert.Equal(t, i == 2, ok, "entry %d", i)
	}

	removed, err = c.Prune(5)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestDiskCacheDropAll(t *testing.T) {
	c := newCache(t)
	key := driver.CacheKey([]byte("x"), "")
	require.NoError(t, c.Put(key, &driver.CachePayload{Schema: 1}))
	require.NoError(t, c.DropAll())

	var p driver.CachePayload
	ok, err := c.Get(key, &p)
	require.NoError(t, err)
	assert.False(t, ok)
	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenDiskCacheUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	c, err := driver.OpenDiskCache("splice")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "splice", "expand"), c.Dir())
}
