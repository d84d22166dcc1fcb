// Package mediafmt models the closed set of container/codec tuples a
// renderer can accept, detects the format of a source, and plans a
// compatible transcode target. It has no I/O dependencies of its own beyond
// the probe, and no knowledge of the content tree or HTTP layer.
package mediafmt

import "github.com/anacrolix/generics"

// Container is the closed set of muxer containers the planner understands,
// plus Other for anything ffprobe reports that we don't have a symbol for.
type Container int

const (
	ContainerOther Container = iota
	MKV
	MOV
	MP4
	MPEGTS
	WEBM
	WAV
)

func (c Container) String() string {
	switch c {
	case MKV:
		return "MKV"
	case MOV:
		return "MOV"
	case MP4:
		return "MP4"
	case MPEGTS:
		return "MPEGTS"
	case WEBM:
		return "WEBM"
	case WAV:
		return "WAV"
	default:
		return "Other"
	}
}

// VideoCodec is the closed set of video codecs the planner understands.
type VideoCodec int

const (
	VideoOther VideoCodec = iota
	H264
	HEVC
	VP8
)

func (c VideoCodec) String() string {
	switch c {
	case H264:
		return "H264"
	case HEVC:
		return "HEVC"
	case VP8:
		return "VP8"
	default:
		return "Other"
	}
}

// AudioCodec is the closed set of audio codecs the planner understands.
type AudioCodec int

const (
	AudioOther AudioCodec = iota
	AAC
	FLAC
	MP3
	Opus
	Vorbis
)

func (c AudioCodec) String() string {
	switch c {
	case AAC:
		return "AAC"
	case FLAC:
		return "FLAC"
	case MP3:
		return "MP3"
	case Opus:
		return "Opus"
	case Vorbis:
		return "Vorbis"
	default:
		return "Other"
	}
}

// Other carries the detected-but-unmapped codec/container name. An Other
// value must never appear as a transcode target; planning always
// substitutes a concrete symbol from the device's allow-list or a
// hard-coded fallback.
type Other struct {
	Name string
}

// Format is the (container, video?, audio?) triple describing a stream.
// Video and audio are optional: a source (or target) may have no video or
// no audio track.
type Format struct {
	Container      Container
	ContainerOther Other // meaningful only when Container == ContainerOther

	Video      generics.Option[VideoCodec]
	VideoOther Other // meaningful only when Video.Value == VideoOther

	Audio      generics.Option[AudioCodec]
	AudioOther Other // meaningful only when Audio.Value == AudioOther
}
