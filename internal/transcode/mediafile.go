package transcode

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/anacrolix/generics"

	"github.com/kevincox/rustymedia/internal/rmerr"
)

// MediaFile is the growing-file handle backing a transcoded Media: one
// writer (ffmpeg, monitored at 1Hz) and any number of positional readers.
// All of size/complete/waiters live behind one mutex; once complete is
// set, size is final and no writer touches the file again.
type MediaFile struct {
	file *os.File
	cmd  *exec.Cmd

	mu       sync.Mutex
	size     int64
	complete bool
	waiters  []chan struct{}

	refcount  atomic.Int32
	closeOnce sync.Once
}

func newMediaFile(file *os.File, cmd *exec.Cmd) *MediaFile {
	mf := &MediaFile{file: file, cmd: cmd}
	mf.refcount.Store(1) // held by the cache entry until eviction.
	return mf
}

// Retain and Release track who still needs the anonymous backing file:
// the cache holds one reference from creation to eviction, each in-flight
// reader holds one more, and the drop of the last one closes the file.
func (m *MediaFile) Retain() { m.refcount.Add(1) }

func (m *MediaFile) Release() {
	if m.refcount.Add(-1) != 0 {
		return
	}
	m.closeOnce.Do(func() {
		m.mu.Lock()
		complete := m.complete
		m.mu.Unlock()
		if !complete && m.cmd != nil && m.cmd.Process != nil {
			_ = m.cmd.Process.Kill()
		}
		_ = m.file.Close()
	})
}

func (m *MediaFile) Size() Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.complete {
		return Size{Available: m.size, Total: generics.Some(m.size)}
	}
	return Size{Available: m.size}
}

// Wait blocks until the producing process has exited, or ctx is done.
func (m *MediaFile) Wait(ctx context.Context) error {
	for {
		m.mu.Lock()
		if m.complete {
			m.mu.Unlock()
			return nil
		}
		ch := m.addWaiter()
		m.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *MediaFile) refreshSize() {
	fi, err := m.file.Stat()
	if err != nil {
		return
	}
	m.mu.Lock()
	m.size = fi.Size()
	m.wakeAllLocked()
	m.mu.Unlock()
}

func (m *MediaFile) markComplete() {
	m.refreshSize()
	m.mu.Lock()
	m.complete = true
	m.wakeAllLocked()
	m.mu.Unlock()
}

func (m *MediaFile) wakeAllLocked() {
	for _, w := range m.waiters {
		close(w)
	}
	m.waiters = nil
}

// addWaiter must be called with m.mu held; it registers the caller to be
// woken on the next progress tick or completion.
func (m *MediaFile) addWaiter() chan struct{} {
	ch := make(chan struct{})
	m.waiters = append(m.waiters, ch)
	return ch
}

func (m *MediaFile) ReadRange(ctx context.Context, start, end int64) (io.ReadCloser, error) {
	m.Retain()
	return &mediaFileReader{mf: m, ctx: ctx, offset: start, end: end}, nil
}

type mediaFileReader struct {
	mf     *MediaFile
	ctx    context.Context
	offset int64
	end    int64
}

func (r *mediaFileReader) Read(p []byte) (int, error) {
	for {
		if r.end != Unbounded && r.offset >= r.end {
			return 0, io.EOF
		}

		want := len(p)
		if want > ChunkSize {
			want = ChunkSize
		}
		if r.end != Unbounded {
			if remaining := r.end - r.offset; int64(want) > remaining {
				want = int(remaining)
			}
		}

		n, err := r.mf.file.ReadAt(p[:want], r.offset)
		if n > 0 {
			r.offset += int64(n)
			return n, nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}

		// n == 0: either genuinely at EOF of what's been written so far,
		// or the writer hasn't caught up yet.
		r.mf.mu.Lock()
		if !r.mf.complete {
			ch := r.mf.addWaiter()
			r.mf.mu.Unlock()
			select {
			case <-ch:
				continue
			case <-r.ctx.Done():
				return 0, r.ctx.Err()
			}
		}
		finalSize := r.mf.size
		r.mf.mu.Unlock()
		if r.end != Unbounded && finalSize > r.end {
			finalSize = r.end
		}
		if finalSize > r.offset {
			n2, _ := r.mf.file.ReadAt(p[:want], r.offset)
			if n2 > 0 {
				r.offset += int64(n2)
				return n2, nil
			}
			return 0, fmt.Errorf("%w: offset %d, reported size %d", rmerr.EOFMismatch, r.offset, finalSize)
		}
		return 0, io.EOF
	}
}

func (r *mediaFileReader) Close() error {
	r.mf.Release()
	return nil
}
