// Package contentid generates short human-readable identifiers for stored
// content.
//
// ID format: <type:2>-<base62_ts:4><base62_rand:4> (11 chars including dash)
//
// Content types:
//   - tr = transcript
//   - nt = explanation note
//
// The timestamp component is seconds since epoch modulo 62^4 (~171 day
// cycle); the random component provides 14M+ combinations.
package contentid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"
)

// Content type prefixes.
const (
	TypeTranscript = "tr"
	TypeNote       = "nt"
)

const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// base62Max is 62^4, used for timestamp wrapping.
const base62Max = 62 * 62 * 62 * 62

var validTypes = map[string]bool{
	TypeTranscript: true,
	TypeNote:       true,
}

var (
	ErrInvalidFormat = errors.New("invalid content ID format")
	ErrInvalidType   = errors.New("invalid content type")
)

// ContentID is a parsed content identifier.
type ContentID struct {
	Type      string // tr or nt
	Timestamp string // base62 timestamp (4 chars)
	Random    string // base62 random component (4 chars)
	Raw       string // original ID string
}

// String returns the raw ID.
func (c ContentID) String() string {
	return c.Raw
}

// New generates a content ID for the given type.
// Panics if contentType is not a valid type constant.
func New(contentType string) string {
	if !validTypes[contentType] {
		panic(fmt.Sprintf("contentid: invalid content type: %q", contentType))
	}

	ts := encodeBase62(uint64(time.Now().Unix()) % base62Max)
	return fmt.Sprintf("%s-%s%s", contentType, ts, randomBase62(4))
}

// Parse validates and parses a content ID string.
func Parse(id string) (ContentID, error) {
	if len(id) != 11 {
		return ContentID{}, fmt.Errorf("%w: expected 11 characters, got %d", ErrInvalidFormat, len(id))
	}
	if id[2] != '-' {
		return ContentID{}, fmt.Errorf("%w: missing dash at position 2", ErrInvalidFormat)
	}

	prefix := id[:2]
	if !validTypes[prefix] {
		return ContentID{}, fmt.Errorf("%w: unknown type %q", ErrInvalidType, prefix)
	}

	suffix := id[3:]
	if !isBase62(suffix) {
		return ContentID{}, fmt.Errorf("%w: suffix contains invalid characters", ErrInvalidFormat)
	}

	return ContentID{
		Type:      prefix,
		Timestamp: suffix[:4],
		Random:    suffix[4:],
		Raw:       id,
	}, nil
}

// IsValid reports whether id is a well-formed content ID.
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

func encodeBase62(n uint64) string {
	out := make([]byte, 4)
	for i := 3; i >= 0; i-- {
		out[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(out)
}

// randomBase62 uses rejection sampling to avoid modulo bias.
func randomBase62(length int) string {
	out := make([]byte, length)
	// 248 is the largest multiple of 62 below 256; bytes at or above it
	// are rejected so the alphabet stays uniform.
	const maxUnbiased = 248

	for i := 0; i < length; {
		var b [1]byte
		if _, err := rand.Read(b[:]); err != nil {
			out[i] = base62Alphabet[0]
			i++
			continue
		}
		if b[0] < maxUnbiased {
			out[i] = base62Alphabet[b[0]%62]
			i++
		}
	}
	return string(out)
}

func isBase62(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
