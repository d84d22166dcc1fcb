// Package device identifies a requesting renderer's capability profile
// from its User-Agent header. Profiles are a closed, hard-coded table;
// there is no negotiation protocol to speak of.
package device

import (
	"net/http"
	"regexp"

	"github.com/kevincox/rustymedia/internal/mediafmt"
)

// Profile names a recognized renderer capability set.
type Profile int

const (
	Safe Profile = iota
	Chromecast
	ChromecastUltra
	All
)

func (p Profile) String() string {
	switch p {
	case Chromecast:
		return "Chromecast"
	case ChromecastUltra:
		return "ChromecastUltra"
	case All:
		return "All"
	default:
		return "Safe"
	}
}

// matchers is evaluated in order; the first regexp that matches the
// User-Agent header wins. An empty pattern always matches and must stay
// last: it is the default-unknown-renderer fallback.
var matchers = []struct {
	profile Profile
	pattern *regexp.Regexp
}{
	{ChromecastUltra, regexp.MustCompile(`(?i)aarch64.*CrKey/`)},
	{Chromecast, regexp.MustCompile(` CrKey/`)},
	{All, regexp.MustCompile(`^VLC/`)},
	{Safe, regexp.MustCompile(``)},
}

// IdentifyUA maps a raw User-Agent header to a Profile.
func IdentifyUA(ua string) Profile {
	for _, m := range matchers {
		if m.pattern.MatchString(ua) {
			return m.profile
		}
	}
	return Safe
}

// Identify is the HTTP entrypoint: pulls the User-Agent off the request
// and resolves it to a mediafmt.Device allow-list.
func Identify(r *http.Request) mediafmt.Device {
	return Capabilities(IdentifyUA(r.UserAgent()))
}

// Capabilities returns the allow-list for a Profile. An empty Containers
// (or Video/Audio) slice means "anything the source provides is
// acceptable", per mediafmt.Compatible.
func Capabilities(p Profile) mediafmt.Device {
	switch p {
	case Chromecast:
		return mediafmt.Device{
			Containers: []mediafmt.Container{mediafmt.MKV},
			Video:      []mediafmt.VideoCodec{mediafmt.H264, mediafmt.VP8},
			Audio:      []mediafmt.AudioCodec{mediafmt.Vorbis, mediafmt.AAC, mediafmt.FLAC, mediafmt.MP3, mediafmt.Opus},
		}
	case ChromecastUltra:
		return mediafmt.Device{
			Containers: []mediafmt.Container{mediafmt.MKV},
			Video:      []mediafmt.VideoCodec{mediafmt.H264, mediafmt.HEVC, mediafmt.VP8},
			Audio:      []mediafmt.AudioCodec{mediafmt.Vorbis, mediafmt.FLAC, mediafmt.MP3},
		}
	case All:
		return mediafmt.Device{}
	default: // Safe
		return mediafmt.Device{
			Containers: []mediafmt.Container{mediafmt.MKV},
			Video:      []mediafmt.VideoCodec{mediafmt.H264},
			Audio:      []mediafmt.AudioCodec{mediafmt.AAC, mediafmt.MP3},
		}
	}
}
