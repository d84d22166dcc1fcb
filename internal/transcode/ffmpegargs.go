package transcode

import "github.com/kevincox/rustymedia/internal/mediafmt"

func sameAudio(s, t mediafmt.Format) bool {
	return s.Audio.Ok && t.Audio.Ok && s.Audio.Value == t.Audio.Value &&
		s.Audio.Value != mediafmt.AudioOther
}

func sameVideo(s, t mediafmt.Format) bool {
	return s.Video.Ok && t.Video.Ok && s.Video.Value == t.Video.Value &&
		s.Video.Value != mediafmt.VideoOther
}

func audioEncoderArgs(c mediafmt.AudioCodec) []string {
	switch c {
	case mediafmt.AAC:
		return []string{"-c:a", "aac"}
	case mediafmt.FLAC:
		return []string{"-c:a", "flac"}
	case mediafmt.MP3:
		return []string{"-c:a", "libmp3lame"}
	case mediafmt.Opus:
		return []string{"-c:a", "libopus", "-strict", "-2"}
	case mediafmt.Vorbis:
		return []string{"-c:a", "libvorbis"}
	default:
		return []string{"-c:a", "aac"}
	}
}

func videoEncoderArgs(c mediafmt.VideoCodec) []string {
	switch c {
	case mediafmt.H264:
		return []string{"-c:v", "libx264", "-preset", "ultrafast", "-bsf:v", "h264_mp4toannexb"}
	case mediafmt.HEVC:
		return []string{"-c:v", "libx265", "-preset", "ultrafast"}
	case mediafmt.VP8:
		// libvpx has no -preset; -deadline/-speed are its fast-encode knobs.
		return []string{"-c:v", "libvpx", "-deadline", "realtime", "-speed", "6"}
	default:
		return []string{"-c:v", "libx264", "-preset", "ultrafast", "-bsf:v", "h264_mp4toannexb"}
	}
}

func containerArgs(c mediafmt.Container) []string {
	switch c {
	case mediafmt.MKV:
		return []string{"-f", "matroska"}
	case mediafmt.MOV, mediafmt.MP4:
		return []string{"-movflags", "+frag_keyframe", "-f", "mp4"}
	case mediafmt.MPEGTS:
		return []string{"-f", "mpegts"}
	case mediafmt.WEBM:
		return []string{"-f", "webm"}
	case mediafmt.WAV:
		return []string{"-f", "wav"}
	default:
		return []string{"-f", "matroska"}
	}
}

// buildArgs assembles the ffmpeg command line: copy any track whose codec
// already matches the target, encode the rest. It omits the leading
// binary name; the output is "pipe:1" (stdout), which the caller wires
// directly to the anonymous temp file.
func buildArgs(in mediafmt.Input, source, target mediafmt.Format) []string {
	var args []string
	if in.Stream == nil {
		args = append(args, "-nostdin", "-i", in.Path)
	} else {
		args = append(args, "-i", "pipe:0")
	}

	if sameAudio(source, target) {
		args = append(args, "-c:a", "copy")
	} else if target.Audio.Ok {
		args = append(args, audioEncoderArgs(target.Audio.Value)...)
	}

	if sameVideo(source, target) {
		args = append(args, "-c:v", "copy")
	} else if target.Video.Ok {
		args = append(args, videoEncoderArgs(target.Video.Value)...)
	}

	args = append(args, containerArgs(target.Container)...)
	args = append(args, "pipe:1")
	return args
}
