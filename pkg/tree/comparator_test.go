package tree

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTree builds a memory backend; entries ending in "/" are directories
func memTree(t *testing.T, entries map[string]string) *storage.Billy {
	t.Helper()
	b := storage.NewMemory()
	for name, content := range entries {
		if dir, ok := cutDir(name); ok {
			require.NoError(t, b.Filesystem().MkdirAll(dir, 0755))
			continue
		}
		require.NoError(t, util.WriteFile(b.Filesystem(), name, []byte(content), 0644))
	}
	return b
}

func cutDir(name string) (string, bool) {
	if len(name) > 0 && name[len(name)-1] == '/' {
		return name[:len(name)-1], true
	}
	return "", false
}

func newComparator(exclude ...string) *Comparator {
	return New(compare.NewBinaryComparator(compare.DefaultBufferSize), nil, exclude)
}

type outcome struct {
	Kind models.ResultKind
	Path string
}

func outcomes(results []models.Result) []outcome {
	out := make([]outcome, 0, len(results))
	for _, r := range results {
		out = append(out, outcome{r.Kind, r.RelativePath})
	}
	return out
}

func TestCompareIdenticalFile(t *testing.T) {
	left := memTree(t, map[string]string{"a.txt": "hello"})
	right := memTree(t, map[string]string{"a.txt": "hello"})

	results, err := newComparator().Collect(context.Background(), left, right)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, models.IdenticalFiles, r.Kind)
	assert.Equal(t, "a.txt", r.Name)
	assert.Equal(t, int64(5), r.Size)
	assert.NotEmpty(t, r.Digest)
}

func TestCompareDifferingFile(t *testing.T) {
	left := memTree(t, map[string]string{"a.txt": "hello"})
	right := memTree(t, map[string]string{"a.txt": "world"})

	results, err := newComparator().Collect(context.Background(), left, right)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.DifferingFiles, results[0].Kind)
	assert.Equal(t, "content differs at byte offset 0", results[0].Reason)
	assert.Empty(t, results[0].Digest)
}

func TestCompareTypeMismatch(t *testing.T) {
	left := memTree(t, map[string]string{"x": "data"})
	right := memTree(t, map[string]string{"x/inner.txt": "data"})

	c := newComparator()
	results, err := c.Collect(context.Background(), left, right)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.TypeMismatch, results[0].Kind)
	assert.Equal(t, "x", results[0].Name)
	assert.Equal(t, "file vs directory", results[0].Reason)
	// Never descended into
	assert.Equal(t, 1, c.DirsCompared())
}

func TestCompareRecursesAndIgnoresUnshared(t *testing.T) {
	left := memTree(t, map[string]string{
		"d/f.txt":    "same",
		"d/only-l":   "left",
		"only-left/": "",
	})
	right := memTree(t, map[string]string{
		"d/f.txt":     "same",
		"d/only-r":    "right",
		"only-right/": "",
	})

	c := newComparator()
	results, err := c.Collect(context.Background(), left, right)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, models.IdenticalFiles, results[0].Kind)
	assert.Equal(t, "f.txt", results[0].Name)
	assert.Equal(t, "d/f.txt", results[0].RelativePath)
	assert.Equal(t, 2, c.DirsCompared())
}

func TestCompareEmptyAndDisjoint(t *testing.T) {
	t.Run("both empty", func(t *testing.T) {
		results, err := newComparator().Collect(context.Background(), storage.NewMemory(), storage.NewMemory())
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("no shared names", func(t *testing.T) {
		left := memTree(t, map[string]string{"a": "1", "sub/b": "2"})
		right := memTree(t, map[string]string{"c": "1", "other/b": "2"})

		results, err := newComparator().Collect(context.Background(), left, right)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("shared empty subdirectories", func(t *testing.T) {
		left := memTree(t, map[string]string{"e/": ""})
		right := memTree(t, map[string]string{"e/": ""})

		c := newComparator()
		results, err := c.Collect(context.Background(), left, right)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, 2, c.DirsCompared())
	})
}

func TestCompareOrderIsDepthFirstLexicographic(t *testing.T) {
	tree := map[string]string{
		"b.txt":     "b",
		"a/z.txt":   "z",
		"a/m/n.txt": "n",
		"a/c.txt":   "c",
		"C.txt":     "C",
	}
	left := memTree(t, tree)
	right := memTree(t, tree)

	results, err := newComparator().Collect(context.Background(), left, right)
	require.NoError(t, err)

	paths := make([]string, 0, len(results))
	for _, r := range results {
		paths = append(paths, r.RelativePath)
	}
	assert.Equal(t, []string{"C.txt", "a/c.txt", "a/m/n.txt", "a/z.txt", "b.txt"}, paths)
}

func TestCompareIsSymmetric(t *testing.T) {
	left := memTree(t, map[string]string{
		"same.txt":  "same",
		"diff.txt":  "one",
		"mixed":     "file",
		"dir/x.bin": "xx",
	})
	right := memTree(t, map[string]string{
		"same.txt":  "same",
		"diff.txt":  "two!",
		"mixed/":    "",
		"dir/x.bin": "yy",
	})

	forward, err := newComparator().Collect(context.Background(), left, right)
	require.NoError(t, err)
	backward, err := newComparator().Collect(context.Background(), right, left)
	require.NoError(t, err)

	assert.Equal(t, outcomes(forward), outcomes(backward))
	assert.Equal(t, []outcome{
		{models.DifferingFiles, "diff.txt"},
		{models.DifferingFiles, "dir/x.bin"},
		{models.TypeMismatch, "mixed"},
		{models.IdenticalFiles, "same.txt"},
	}, outcomes(forward))
}

func TestCompareTreeWithItself(t *testing.T) {
	tree := memTree(t, map[string]string{
		"a.txt":       "a",
		"nested/b":    "b",
		"nested/d/c":  "c",
		"empty-file":  "",
		"empty-dir/":  "",
		"nested/d/e/": "",
	})

	results, err := newComparator().Collect(context.Background(), tree, tree)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, models.IdenticalFiles, r.Kind, r.RelativePath)
	}
}

func TestCompareExclude(t *testing.T) {
	tree := map[string]string{
		"keep.txt":        "k",
		"skip.tmp":        "s",
		".git/HEAD":       "ref",
		"src/main.go":     "package main",
		"src/gen/out.go":  "generated",
		"docs/guide.md":   "guide",
		"docs/api/ref.md": "ref",
	}
	left := memTree(t, tree)
	right := memTree(t, tree)

	c := newComparator("*.tmp", ".git/", "**/gen", "docs/*.md")
	results, err := c.Collect(context.Background(), left, right)
	require.NoError(t, err)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.RelativePath)
	}
	assert.Equal(t, []string{"docs/api/ref.md", "keep.txt", "src/main.go"}, paths)
}

func TestCompareEmitErrorStopsWalk(t *testing.T) {
	left := memTree(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	right := memTree(t, map[string]string{"a": "1", "b": "2", "c": "3"})

	stop := errors.New("stop")
	calls := 0
	err := newComparator().Compare(context.Background(), left, right, func(models.Result) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestCompareCancelledContext(t *testing.T) {
	left := memTree(t, map[string]string{"a": "1"})
	right := memTree(t, map[string]string{"a": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newComparator().Collect(ctx, left, right)
	assert.ErrorIs(t, err, context.Canceled)
}

// failingBackend fails ReadDir for one directory
type failingBackend struct {
	storage.Backend
	failDir string
}

func (f *failingBackend) ReadDir(ctx context.Context, p string) ([]string, error) {
	if p == f.failDir {
		return nil, fs.ErrPermission
	}
	return f.Backend.ReadDir(ctx, p)
}

func TestCompareFilesystemError(t *testing.T) {
	tree := map[string]string{"ok.txt": "1", "locked/inner.txt": "2"}
	left := &failingBackend{Backend: memTree(t, tree), failDir: "locked"}
	right := memTree(t, tree)

	var emitted []models.Result
	err := newComparator().Compare(context.Background(), left, right, func(r models.Result) error {
		emitted = append(emitted, r)
		return nil
	})

	var fsErr *models.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "list", fsErr.Op)
	assert.Equal(t, "memory:/locked", fsErr.Path)
	assert.ErrorIs(t, err, fs.ErrPermission)
	// "locked" sorts before "ok.txt"; nothing was emitted before the failure
	assert.Empty(t, emitted)
}

func TestCompareDirsOnDisk(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	write := func(root, name, content string) {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	write(left, "a.txt", "hello")
	write(right, "a.txt", "hello")
	write(left, "sub/b.txt", "one")
	write(right, "sub/b.txt", "two")
	write(left, "mixed", "file")
	require.NoError(t, os.MkdirAll(filepath.Join(right, "mixed"), 0755))

	var results []models.Result
	err := CompareDirs(context.Background(), left, right, func(r models.Result) error {
		results = append(results, r)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []outcome{
		{models.IdenticalFiles, "a.txt"},
		{models.TypeMismatch, "mixed"},
		{models.DifferingFiles, "sub/b.txt"},
	}, outcomes(results))
}

func TestCompareDanglingSymlink(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(left, "missing"), filepath.Join(left, "link")))
	require.NoError(t, os.WriteFile(filepath.Join(right, "link"), []byte("x"), 0644))

	var results []models.Result
	err := CompareDirs(context.Background(), left, right, func(r models.Result) error {
		results = append(results, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.TypeMismatch, results[0].Kind)
	assert.Equal(t, "unresolvable entry vs file", results[0].Reason)
}

func TestCompareDirsInvalidRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	missing := filepath.Join(dir, "missing")

	tests := []struct {
		name  string
		left  string
		right string
		op    string
		path  string
	}{
		{"left is a file", file, dir, "list", file},
		{"right is a file", dir, file, "list", file},
		{"left is missing", missing, dir, "stat", missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := CompareDirs(context.Background(), tt.left, tt.right, func(models.Result) error {
				called = true
				return nil
			})

			var fsErr *models.FilesystemError
			require.ErrorAs(t, err, &fsErr)
			assert.Equal(t, tt.op, fsErr.Op)
			assert.Equal(t, tt.path, fsErr.Path)
			assert.False(t, called)
		})
	}
}
