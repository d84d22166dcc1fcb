// Package config holds the handful of process-level overrides that aren't
// worth a flag: where to find the ffmpeg/ffprobe binaries.
package config

import "os"

// FFmpegBinary returns the ffmpeg executable to invoke, honouring the
// FFMPEG_BINARY environment override, defaulting to "ffmpeg" on PATH.
func FFmpegBinary() string {
	if v := os.Getenv("FFMPEG_BINARY"); v != "" {
		return v
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable to invoke, honouring the
// FFPROBE_BINARY environment override, defaulting to "ffprobe" on PATH.
func FFprobeBinary() string {
	if v := os.Getenv("FFPROBE_BINARY"); v != "" {
		return v
	}
	return "ffprobe"
}
