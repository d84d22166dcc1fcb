package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movie.mkv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "clip.mp4"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	return dir
}

func TestTreeVirtualRoot(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.AddRoot("movies", writeTree(t)))

	root, err := tree.Lookup(VirtualRootID)
	require.NoError(t, err)
	assert.True(t, root.IsDir())
	assert.Equal(t, NoParentID, root.ParentID())

	children, err := tree.Children(root)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "movies", children[0].ID())
}

func TestLookupRejectsEscape(t *testing.T) {
	tree := NewTree()
	dir := writeTree(t)
	require.NoError(t, tree.AddRoot("movies", dir))

	obj, err := tree.Lookup("movies/../../../etc/passwd")
	if err == nil {
		// The escape attempt must resolve inside dir, never above it.
		assert.Contains(t, obj.FSPath(), dir)
	}
}

func TestRelevantChildrenExcludesOther(t *testing.T) {
	tree := NewTree()
	dir := writeTree(t)
	require.NoError(t, tree.AddRoot("movies", dir))

	root, err := tree.Lookup("movies")
	require.NoError(t, err)

	children, err := tree.RelevantChildren(root)
	require.NoError(t, err)
	for _, c := range children {
		assert.NotEqual(t, Other, c.FileType())
	}
	assert.Len(t, children, 2) // movie.mkv and sub/, notes.txt filtered out
}

func TestLookupIsIdempotent(t *testing.T) {
	tree := NewTree()
	dir := writeTree(t)
	require.NoError(t, tree.AddRoot("movies", dir))

	a, err := tree.Lookup("movies/movie.mkv")
	require.NoError(t, err)
	b, err := tree.Lookup("movies/movie.mkv")
	require.NoError(t, err)
	assert.Equal(t, a.FSPath(), b.FSPath())
	assert.Equal(t, a.FileType(), b.FileType())
}

func TestAddRootRejectsReservedNames(t *testing.T) {
	tree := NewTree()
	dir := writeTree(t)
	assert.Error(t, tree.AddRoot("0", dir))
	assert.Error(t, tree.AddRoot("-1", dir))
	assert.Error(t, tree.AddRoot("a/b", dir))
}
