package mediafmt

import (
	"testing"

	"github.com/anacrolix/generics"
	"github.com/stretchr/testify/assert"
)

func TestCompatibleEmptyDeviceAcceptsAnything(t *testing.T) {
	f := Format{Container: MKV, Video: generics.Some(HEVC), Audio: generics.Some(FLAC)}
	assert.True(t, Compatible(f, Device{}))
}

func TestCompatibleRejectsDisallowedCodec(t *testing.T) {
	f := Format{Container: MP4, Video: generics.Some(HEVC), Audio: generics.Some(AAC)}
	d := Device{Containers: []Container{MP4}, Video: []VideoCodec{H264}, Audio: []AudioCodec{AAC}}
	assert.False(t, Compatible(f, d))
}

func TestPlanIsIdentityWhenCompatible(t *testing.T) {
	f := Format{Container: MP4, Video: generics.Some(H264), Audio: generics.Some(AAC)}
	d := Device{Containers: []Container{MP4}, Video: []VideoCodec{H264}, Audio: []AudioCodec{AAC}}
	assert.Equal(t, f, Plan(f, d))
}

func TestPlanResultIsAlwaysCompatible(t *testing.T) {
	sources := []Format{
		{Container: MKV, Video: generics.Some(HEVC), Audio: generics.Some(FLAC)},
		{Container: WEBM, Video: generics.Some(VP8), Audio: generics.Some(Vorbis)},
		{Container: MPEGTS, Audio: generics.Some(MP3)},
	}
	devices := []Device{
		{},
		{Containers: []Container{MP4}, Video: []VideoCodec{H264}, Audio: []AudioCodec{AAC}},
		{Containers: []Container{WEBM}, Video: []VideoCodec{VP8}, Audio: []AudioCodec{Opus}},
	}
	for _, s := range sources {
		for _, d := range devices {
			plan := Plan(s, d)
			assert.True(t, Compatible(plan, d), "plan %+v not compatible with device %+v", plan, d)
		}
	}
}

func TestPlanSubstitutesUnsupportedVideoCodec(t *testing.T) {
	s := Format{Container: MP4, Video: generics.Some(HEVC), Audio: generics.Some(AAC)}
	d := Device{Containers: []Container{MP4}, Video: []VideoCodec{H264}, Audio: []AudioCodec{AAC}}
	plan := Plan(s, d)
	assert.True(t, plan.Video.Ok)
	assert.Equal(t, H264, plan.Video.Value)
}
