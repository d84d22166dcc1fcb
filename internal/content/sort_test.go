package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanOrderDigitMagnitude(t *testing.T) {
	assert.True(t, humanLess("bar 2", "bar 10"))
	assert.False(t, humanLess("bar 10", "bar 2"))
}

func TestHumanOrderLeadingZeroTiebreak(t *testing.T) {
	assert.True(t, humanLess("bar 02", "bar 10"))
	assert.True(t, humanLess("bar 7", "bar 07"))
	assert.False(t, humanLess("bar 07", "bar 7"))
}

func TestHumanOrderPrefix(t *testing.T) {
	assert.True(t, humanLess("bar", "bar 10"))
}

func TestHumanOrderFullSequence(t *testing.T) {
	names := []string{"clip 10.mkv", "clip 07.mkv", "clip 2.mkv", "clip 7.mkv"}
	objs := make([]*Object, len(names))
	for i, n := range names {
		objs[i] = &Object{title: n}
	}
	sortHuman(objs)
	var got []string
	for _, o := range objs {
		got = append(got, o.title)
	}
	assert.Equal(t, []string{"clip 2.mkv", "clip 7.mkv", "clip 07.mkv", "clip 10.mkv"}, got)
}

func TestHumanOrderStableForEqualTitles(t *testing.T) {
	objs := []*Object{
		{title: "same", id: "a"},
		{title: "same", id: "b"},
	}
	sortHuman(objs)
	assert.Equal(t, "a", objs[0].id)
	assert.Equal(t, "b", objs[1].id)
}
