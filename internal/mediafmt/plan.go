package mediafmt

import "github.com/anacrolix/generics"

// Device is a renderer's capability allow-list: an empty list means
// "accept anything".
type Device struct {
	Containers []Container
	Video      []VideoCodec
	Audio      []AudioCodec
}

func containsContainer(list []Container, c Container) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func containsVideo(list []VideoCodec, c VideoCodec) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func containsAudio(list []AudioCodec, c AudioCodec) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

// Compatible reports whether format is directly servable to device
// without any transcode: the container must be allowed, and each track
// the format carries must use an allowed codec.
func Compatible(f Format, d Device) bool {
	if len(d.Containers) > 0 && !containsContainer(d.Containers, f.Container) {
		return false
	}
	if f.Video.Ok && len(d.Video) > 0 && !containsVideo(d.Video, f.Video.Value) {
		return false
	}
	if f.Audio.Ok && len(d.Audio) > 0 && !containsAudio(d.Audio, f.Audio.Value) {
		return false
	}
	return true
}

// Plan computes the transcode target for source format s aimed at device
// d: each part of s that d accepts is kept, each part it rejects is
// replaced with d's first-listed choice. A part that would stay Other is
// replaced too: by d's first choice, or by MKV, H264 or AAC when d lists
// none. When s is already Compatible with d, Plan returns s unchanged
// (the passthrough case).
func Plan(s Format, d Device) Format {
	if Compatible(s, d) {
		return s
	}

	t := Format{}

	// len(d.Containers) == 0 means "accept anything", so the source
	// container is never the reason a transcode was needed.
	if len(d.Containers) == 0 || containsContainer(d.Containers, s.Container) {
		t.Container = s.Container
		t.ContainerOther = s.ContainerOther
	} else {
		t.Container = d.Containers[0]
	}
	if t.Container == ContainerOther {
		t.Container = MKV
		t.ContainerOther = Other{}
	}

	if v, ok := s.Video.Value, s.Video.Ok; ok {
		switch {
		case v != VideoOther && (len(d.Video) == 0 || containsVideo(d.Video, v)):
			t.Video = generics.Some(v)
		case len(d.Video) > 0:
			t.Video = generics.Some(d.Video[0])
		default:
			t.Video = generics.Some(H264)
		}
	}

	if a, ok := s.Audio.Value, s.Audio.Ok; ok {
		switch {
		case a != AudioOther && (len(d.Audio) == 0 || containsAudio(d.Audio, a)):
			t.Audio = generics.Some(a)
		case len(d.Audio) > 0:
			t.Audio = generics.Some(d.Audio[0])
		default:
			t.Audio = generics.Some(AAC)
		}
	}

	return t
}
