package transcode

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempMediaFile(t *testing.T) (*MediaFile, *os.File) {
	f, err := os.CreateTemp(t.TempDir(), "mf-")
	require.NoError(t, err)
	mf := newMediaFile(f, nil)
	t.Cleanup(func() { mf.Release() })
	return mf, f
}

func TestMediaFileReadWaitsForGrowth(t *testing.T) {
	mf, f := tempMediaFile(t)
	_, err := f.WriteString("hello ")
	require.NoError(t, err)
	mf.refreshSize()

	rc, err := mf.ReadRange(context.Background(), 0, Unbounded)
	require.NoError(t, err)
	defer rc.Close()

	buf := make([]byte, 6)
	n, err := io.ReadFull(rc, buf)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "hello ", string(buf))

	done := make(chan struct{})
	go func() {
		defer close(done)
		n2, err2 := rc.Read(buf[:5])
		assert.NoError(t, err2)
		assert.Equal(t, "world", string(buf[:n2]))
	}()

	time.Sleep(20 * time.Millisecond)
	_, err = f.WriteString("world")
	require.NoError(t, err)
	mf.refreshSize()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader did not wake after refreshSize")
	}
}

func TestMediaFileEOFWhenRangeExceedsFinalSize(t *testing.T) {
	mf, f := tempMediaFile(t)
	_, err := f.WriteString("abc")
	require.NoError(t, err)
	mf.markComplete()

	rc, err := mf.ReadRange(context.Background(), 0, 10)
	require.NoError(t, err)
	defer rc.Close()

	buf := make([]byte, 10)
	n, err := rc.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))

	n2, err := rc.Read(buf)
	assert.Equal(t, 0, n2)
	assert.ErrorIs(t, err, io.EOF)
}

func TestMediaFileEOFMismatchWhenCompleteButUnderReportedSize(t *testing.T) {
	mf, f := tempMediaFile(t)
	_, err := f.WriteString("abc")
	require.NoError(t, err)
	mf.mu.Lock()
	mf.size = 5 // pretend a bigger size was reported than the file actually holds
	mf.complete = true
	mf.mu.Unlock()

	rc, err := mf.ReadRange(context.Background(), 0, 5)
	require.NoError(t, err)
	defer rc.Close()

	buf := make([]byte, 3)
	n, err := rc.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = rc.Read(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short read")
}

func TestMediaFileRetainReleaseRefcount(t *testing.T) {
	mf, _ := tempMediaFile(t)
	mf.Retain()
	mf.Release()
	// still referenced once (from newMediaFile); file must remain open.
	_, err := mf.file.Stat()
	assert.NoError(t, err)
}
