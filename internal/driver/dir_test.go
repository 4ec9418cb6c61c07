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
	"splice/internal/pipeline"
)

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		writeFile(t, dir, rel, content)
	}
	return dir
}

func TestListFiles(t *testing.T) {
	dir := makeTree(t, map[string]string{
		"src/b.rs":      "",
		"src/a.rs":      "",
		"src/x/deep.rs": "",
		"target/gen.rs": "",
		"README.md":     "",
	})
	files, err := driver.ListFiles(dir, nil, []string{"target/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.rs", "src/b.rs", "src/x/deep.rs"}, files)

	files, err = driver.ListFiles(dir, []string{"src/*.rs", "src/**/*.rs"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.rs", "src/b.rs", "src/x/deep.rs"}, files, "overlapping patterns must not duplicate")

	_, err = driver.ListFiles(dir, []string{"src/[.rs"}, nil)
	assert.Error(t, err)
}

func TestExpandDir(t *testing.T) {
	dir := makeTree(t, map[string]string{
		"a.rs":     "struct [<A B>];",
		"b.rs":     `struct [<A env!("GONE")>];`,
		"sub/c.rs": "fn [<get_ c>]() {}",
	})
	rec := &pipeline.Recorder{}
	res, err := driver.ExpandDir(context.Background(), dir, driver.Options{
		LookupEnv: envFrom(nil),
		Progress:  rec,
		Jobs:      2,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)

	assert.Equal(t, "a.rs", res.Files[0].Path)
	assert.Equal(t, "struct AB;\n", string(res.Files[0].Text))
	assert.True(t, res.Files[1].Failed())
	assert.Equal(t, "sub/c.rs", res.Files[2].Path)
	assert.Equal(t, "fn get_c() {}\n", string(res.Files[2].Text))
	assert.Equal(t, 1, res.ErrorCount())
	assert.Equal(t, 1, res.Bag().Len())
	assert.True(t, res.Timings.Has(pipeline.StageExpand))

	final := make(map[string]pipeline.Status)
	queued := 0
	for _, ev := range rec.Events() {
		if ev.Status == pipeline.StatusQueued {
			queued++
		}
		if ev.Status.Final() {
			final[ev.File] = ev.Status
		}
	}
	assert.Equal(t, 3, queued)
	assert.Equal(t, map[string]pipeline.Status{
		"a.rs":     pipeline.StatusDone,
		"b.rs":     pipeline.StatusError,
		"sub/c.rs": pipeline.StatusDone,
	}, final)
}

func TestExpandDirOutDirAndCache(t *testing.T) {
	dir := makeTree(t, map[string]string{
		"src/lib.rs": "struct [<A B>];",
	})
	out := t.TempDir()
	cache := newCache(t)
	opts := driver.Options{LookupEnv: envFrom(nil), OutDir: out, Cache: cache}

	_, err := driver.ExpandDir(context.Background(), dir, opts)
	require.NoError(t, err)
	res, err := driver.ExpandDir(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.True(t, res.Files[0].Cached)

	data := readFile(t, filepath.Join(out, "src", "lib.rs"))
	assert.Equal(t, "struct AB;\n", data)
}

func TestExpandFilesMissingFile(t *testing.T) {
	dir := makeTree(t, map[string]string{"a.rs": "struct S;"})
	res, err := driver.ExpandFiles(context.Background(), dir, []string{"a.rs", "gone.rs"}, driver.Options{})
	require.NoError(t, err)
	assert.False(t, res.Files[0].Failed())
	assert.True(t, res.Files[1].Failed())
	assert.Equal(t, "gone.rs", res.Files[1].Path)
}

func TestExpandDirCancelled(t *testing.T) {
	dir := makeTree(t, map[string]string{"a.rs": "struct S;"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	res, err := driver.ExpandDir(ctx, dir, driver.Options{})
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Zero(t, res.ErrorCount())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
