// Package transcode runs ffmpeg to produce a Media handle whose body is
// still being written, and serves byte-range reads against it while it
// grows. It also supplies the passthrough Media for already-compatible
// sources.
package transcode

import (
	"context"
	"io"
	"os"

	"github.com/anacrolix/generics"
)

// ChunkSize bounds a single positional read against a growing file.
const ChunkSize = 256 * 1024

// Unbounded marks an open-ended range: "read until the producer is done".
const Unbounded int64 = 1<<63 - 1

// Size reports how many bytes are available to read right now, and the
// final size once known. Total is unset until the producer completes.
type Size struct {
	Available int64
	Total     generics.Option[int64]
}

// Media is the opaque byte source behind every /video/ response: a plain
// file for passthrough, or a MediaFile for an in-progress transcode.
type Media interface {
	Size() Size
	ReadRange(ctx context.Context, start, end int64) (io.ReadCloser, error)
}

// FileMedia serves a static file verbatim. It holds only a path and opens a
// fresh *os.File per range request, so concurrent readers never contend on
// a shared file offset.
type FileMedia struct {
	path string
}

func NewFileMedia(path string) *FileMedia { return &FileMedia{path: path} }

func (f *FileMedia) Size() Size {
	fi, err := os.Stat(f.path)
	if err != nil {
		return Size{}
	}
	return Size{Available: fi.Size(), Total: generics.Some(fi.Size())}
}

func (f *FileMedia) ReadRange(ctx context.Context, start, end int64) (io.ReadCloser, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	length := end - start
	if end == Unbounded {
		fi, statErr := fh.Stat()
		if statErr == nil {
			length = fi.Size() - start
		}
	}
	return &sectionReadCloser{sr: io.NewSectionReader(fh, start, length), f: fh}, nil
}

type sectionReadCloser struct {
	sr *io.SectionReader
	f  *os.File
}

func (s *sectionReadCloser) Read(p []byte) (int, error) { return s.sr.Read(p) }
func (s *sectionReadCloser) Close() error               { return s.f.Close() }
