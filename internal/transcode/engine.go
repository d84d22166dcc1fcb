package transcode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/anacrolix/log"

	"github.com/kevincox/rustymedia/internal/config"
	"github.com/kevincox/rustymedia/internal/mediafmt"
	"github.com/kevincox/rustymedia/internal/rmerr"
)

// Engine spawns ffmpeg against an Input and returns a MediaFile whose
// backing file grows as the process writes to it.
type Engine struct {
	Logger log.Logger
}

// Transcode creates an anonymous temp file, wires ffmpeg's stdout directly
// to it, and starts a 1Hz monitor goroutine that tracks the file's growth.
// The returned MediaFile carries the single reference the caller (normally
// the cache) is responsible for releasing.
func (e *Engine) Transcode(ctx context.Context, in mediafmt.Input, source, target mediafmt.Format) (*MediaFile, error) {
	tmp, err := os.CreateTemp("", "rustymedia-transcode-")
	if err != nil {
		return nil, fmt.Errorf("creating transcode temp file: %w", err)
	}
	// Unlink immediately: the fd stays valid for as long as anyone holds
	// it open, but no directory entry survives a crash or restart.
	name := tmp.Name()
	if err := os.Remove(name); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("unlinking transcode temp file: %w", err)
	}

	args := buildArgs(in, source, target)
	cmd := exec.CommandContext(context.Background(), config.FFmpegBinary(), args...)
	cmd.Stdout = tmp
	if in.Stream != nil {
		cmd.Stdin = in.Stream
	}
	var stderr logWriter
	stderr.log = e.Logger
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: %v", rmerr.EncoderSpawnFailed, err)
	}

	mf := newMediaFile(tmp, cmd)
	go e.monitor(mf, cmd)
	return mf, nil
}

// monitor polls the growing file once a second until the process exits,
// waking any readers suspended on lack of data each tick.
func (e *Engine) monitor(mf *MediaFile, cmd *exec.Cmd) {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			if err != nil {
				e.Logger.Levelf(log.Warning, "ffmpeg exited: %v", err)
			}
			mf.markComplete()
			return
		case <-ticker.C:
			mf.refreshSize()
		}
	}
}

// logWriter forwards ffmpeg's stderr, line-buffered, to the engine's logger.
// ffmpeg is noisy; keeping this separate from cmd.Stdout matters since
// stdout is the transcoded stream itself.
type logWriter struct {
	log log.Logger
	buf []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := w.buf[:i]
		w.buf = w.buf[i+1:]
		if len(line) > 0 {
			w.log.Levelf(log.Debug, "ffmpeg: %s", line)
		}
	}
	return len(p), nil
}

var _ io.Writer = (*logWriter)(nil)
