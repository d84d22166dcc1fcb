package dms

import (
	"net/http"
	"testing"

	"github.com/anacrolix/generics"
	"github.com/stretchr/testify/assert"

	"github.com/kevincox/rustymedia/internal/transcode"
)

func TestParseRangeNoHeaderReturnsWholeBody(t *testing.T) {
	start, end, status := parseRange("", transcode.Size{Available: 100})
	assert.Equal(t, int64(0), start)
	assert.Equal(t, transcode.Unbounded, end)
	assert.Equal(t, http.StatusOK, status)
}

func TestParseRangeStartEnd(t *testing.T) {
	start, end, status := parseRange("bytes=100-199", transcode.Size{Available: 1000, Total: generics.Some(int64(1000))})
	assert.Equal(t, int64(100), start)
	assert.Equal(t, int64(200), end) // half-open
	assert.Equal(t, http.StatusPartialContent, status)
}

func TestParseRangeOpenEnded(t *testing.T) {
	start, end, status := parseRange("bytes=500-", transcode.Size{Available: 1000})
	assert.Equal(t, int64(500), start)
	assert.Equal(t, int64(1000), end) // clamped to what's currently available
	assert.Equal(t, http.StatusPartialContent, status)
}

func TestParseRangeStartBeyondAvailableFallsBack(t *testing.T) {
	start, end, status := parseRange("bytes=2000-2100", transcode.Size{Available: 1000})
	assert.Equal(t, int64(0), start)
	assert.Equal(t, transcode.Unbounded, end)
	assert.Equal(t, http.StatusOK, status)
}

func TestParseRangeEndClampedToAvailable(t *testing.T) {
	start, end, status := parseRange("bytes=100-5000", transcode.Size{Available: 1000})
	assert.Equal(t, int64(100), start)
	assert.Equal(t, int64(1000), end)
	assert.Equal(t, http.StatusPartialContent, status)
}

func TestParseRangeSuffixIgnored(t *testing.T) {
	start, end, status := parseRange("bytes=-500", transcode.Size{Available: 1000})
	assert.Equal(t, int64(0), start)
	assert.Equal(t, transcode.Unbounded, end)
	assert.Equal(t, http.StatusOK, status)
}
