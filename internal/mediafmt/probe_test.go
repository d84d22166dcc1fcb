package mediafmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeInfoPicksLastStreamPerKind(t *testing.T) {
	format := map[string]interface{}{"format_name": "matroska,webm"}
	streams := []map[string]interface{}{
		{"codec_type": "video", "codec_name": "h264"},
		{"codec_type": "video", "codec_name": "hevc"}, // later stream wins per reverse-iteration rule
		{"codec_type": "audio", "codec_name": "aac"},
	}
	f, err := parseProbeInfo(format, streams)
	require.NoError(t, err)
	assert.Equal(t, MKV, f.Container)
	require.True(t, f.Video.Ok)
	assert.Equal(t, HEVC, f.Video.Value) // reverse iteration: the last stream in the list wins
}

func TestParseProbeInfoUnknownCodecIsOther(t *testing.T) {
	format := map[string]interface{}{"format_name": "some_weird_muxer"}
	streams := []map[string]interface{}{
		{"codec_type": "video", "codec_name": "mpeg4"},
	}
	f, err := parseProbeInfo(format, streams)
	require.NoError(t, err)
	assert.Equal(t, ContainerOther, f.Container)
	assert.Equal(t, "some_weird_muxer", f.ContainerOther.Name)
	require.True(t, f.Video.Ok)
	assert.Equal(t, VideoOther, f.Video.Value)
	assert.Equal(t, "mpeg4", f.VideoOther.Name)
}

func TestParseProbeInfoIgnoresSubtitleStreams(t *testing.T) {
	format := map[string]interface{}{"format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
	streams := []map[string]interface{}{
		{"codec_type": "subtitle", "codec_name": "subrip"},
		{"codec_type": "audio", "codec_name": "aac"},
	}
	f, err := parseProbeInfo(format, streams)
	require.NoError(t, err)
	require.True(t, f.Audio.Ok)
	assert.Equal(t, AAC, f.Audio.Value)
	assert.False(t, f.Video.Ok)
}
