package contentid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Format(t *testing.T) {
	id := New(TypeTranscript)
	assert.Len(t, id, 11)
	assert.Equal(t, "tr-", id[:3])
	assert.True(t, IsValid(id))
}

func TestNew_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New(TypeNote)
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestNew_PanicsOnUnknownType(t *testing.T) {
	assert.Panics(t, func() { New("xx") })
}

func TestParse_RoundTrip(t *testing.T) {
	id := New(TypeTranscript)
	parsed, err := Parse(id)
	require.NoError(t, err)
	assert.Equal(t, TypeTranscript, parsed.Type)
	assert.Equal(t, id, parsed.String())
	assert.Len(t, parsed.Timestamp, 4)
	assert.Len(t, parsed.Random, 4)
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"",
		"tr-short",
		"tr-toolongsuffix",
		"xx-a1b2c3d4",  // unknown type
		"tra-1b2c3d4",  // missing dash position
		"tr-a1b2c3d!",  // non-base62 character
	}
	for _, id := range cases {
		_, err := Parse(id)
		assert.Error(t, err, "expected %q to be rejected", id)
		assert.False(t, IsValid(id))
	}
}
