package mediafmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/anacrolix/ffprobe"
	"github.com/anacrolix/generics"

	"github.com/kevincox/rustymedia/internal/config"
	"github.com/kevincox/rustymedia/internal/rmerr"
)

// Input is what the content tree hands the probe (and the transcode
// engine): either a filesystem path ffprobe/ffmpeg can open directly with
// -i, or a byte stream to be fed over stdin via pipe:0.
type Input struct {
	Path   string
	Stream io.Reader
}

func (in Input) isStream() bool { return in.Path == "" && in.Stream != nil }

// Probe detects the Format of an Input by invoking ffprobe.
func Probe(ctx context.Context, in Input) (Format, error) {
	if in.isStream() {
		return probeStream(ctx, in.Stream)
	}
	return probePath(ctx, in.Path)
}

// probePath handles the common filesystem-path case via anacrolix/ffprobe.
func probePath(ctx context.Context, path string) (Format, error) {
	info, err := ffprobe.Run(path)
	if err != nil {
		return Format{}, fmt.Errorf("%w: ffprobe %q: %v", rmerr.ProbeFailed, path, err)
	}
	return parseProbeInfo(info.Format, info.Streams)
}

// probeStream spawns ffprobe directly, piping the stream over stdin, since
// anacrolix/ffprobe.Run only knows how to probe a path.
func probeStream(ctx context.Context, r io.Reader) (Format, error) {
	cmd := exec.CommandContext(ctx, config.FFprobeBinary(),
		"-i", "pipe:0",
		"-of", "json",
		"-show_streams",
		"-show_entries", "format=format_name",
	)
	cmd.Stdin = r
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return Format{}, fmt.Errorf("%w: ffprobe stdin: %v", rmerr.ProbeFailed, err)
	}

	var raw struct {
		Format  map[string]interface{}   `json:"format"`
		Streams []map[string]interface{} `json:"streams"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return Format{}, fmt.Errorf("%w: parsing ffprobe json: %v", rmerr.ProbeFailed, err)
	}
	return parseProbeInfo(raw.Format, raw.Streams)
}

func parseProbeInfo(format map[string]interface{}, streams []map[string]interface{}) (Format, error) {
	f := Format{}

	name, _ := format["format_name"].(string)
	f.Container, f.ContainerOther = containerFromName(name)

	// Iterated in reverse, first winner per kind: ffprobe lists streams in
	// file order, and the last video/audio stream is the one served.
	for i := len(streams) - 1; i >= 0; i-- {
		s := streams[i]
		codecType, _ := s["codec_type"].(string)
		codecName, _ := s["codec_name"].(string)
		switch codecType {
		case "video":
			if !f.Video.Ok {
				v, other := videoFromName(codecName)
				f.Video = generics.Some(v)
				f.VideoOther = other
			}
		case "audio":
			if !f.Audio.Ok {
				a, other := audioFromName(codecName)
				f.Audio = generics.Some(a)
				f.AudioOther = other
			}
		case "subtitle":
			// ignored
		}
	}

	return f, nil
}

// containerFromName maps ffprobe's format_name:
// "matroska"|"matroska,webm" -> MKV; "mov"|"mov,mp4,m4a,3gp,3g2,mj2" -> MOV;
// "mpegts" -> MPEGTS; "wav" -> WAV; anything else -> ContainerOther. The
// compound forms are ffprobe's actual format_name values (several demuxer
// aliases joined by commas), matched as a whole rather than token-by-token
// so a lone "webm" elsewhere in a longer name can't be mistaken for a
// distinct WEBM container, which this probe never produces.
func containerFromName(name string) (Container, Other) {
	switch name {
	case "matroska", "matroska,webm":
		return MKV, Other{}
	case "mov", "mov,mp4,m4a,3gp,3g2,mj2":
		return MOV, Other{}
	case "mpegts":
		return MPEGTS, Other{}
	case "wav":
		return WAV, Other{}
	default:
		return ContainerOther, Other{Name: name}
	}
}

func videoFromName(name string) (VideoCodec, Other) {
	switch strings.ToLower(name) {
	case "h264":
		return H264, Other{}
	case "hevc":
		return HEVC, Other{}
	case "vp8":
		return VP8, Other{}
	default:
		return VideoOther, Other{Name: name}
	}
}

func audioFromName(name string) (AudioCodec, Other) {
	switch strings.ToLower(name) {
	case "aac":
		return AAC, Other{}
	case "flac":
		return FLAC, Other{}
	case "mp3":
		return MP3, Other{}
	case "opus":
		return Opus, Other{}
	case "vorbis":
		return Vorbis, Other{}
	default:
		return AudioOther, Other{Name: name}
	}
}
