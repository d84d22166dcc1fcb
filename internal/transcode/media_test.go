package transcode

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMediaSizeMatchesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	m := NewFileMedia(path)
	size := m.Size()
	assert.Equal(t, int64(10), size.Available)
	require.True(t, size.Total.Ok)
	assert.Equal(t, int64(10), size.Total.Value)
}

func TestFileMediaReadRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	m := NewFileMedia(path)
	rc, err := m.ReadRange(context.Background(), 2, 5)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "234", string(got))
}
