package formbytes

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StringToBytes returns the raw UTF-8 bytes of s. Go strings are already byte
// sequences, so this is a straight conversion, but it exists as a named
// counterpart to BytesToString so callers don't have to remember which
// direction is lossless and which is validating.
func StringToBytes(s string) []byte {
	return []byte(s)
}

// BytesToString decodes b as text for use in header values.
//
// The wire format for header values is nominally ASCII, but real senders
// occasionally include raw high-bit bytes (a misencoded filename, for
// instance). Rather than transcoding those bytes through a lossy single-byte
// charset that would silently mangle any byte sequence that wasn't actually
// latin-1, this validates b as UTF-8 using a real decoder. If b is valid
// UTF-8, the decoded string is returned. If it is not, the original bytes are
// preserved opaquely as a Go string (which is itself just a byte sequence) so
// that a later call to StringToBytes round-trips exactly, without ever
// claiming the bytes meant something they didn't.
func BytesToString(b []byte) string {
	if !utf8.Valid(b) {
		return string(b)
	}
	dec := unicode.UTF8.NewDecoder()
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// Merge concatenates the given byte slices into a single newly allocated
// slice, copying every input. The inputs are never retained or mutated.
func Merge(chunks ...[]byte) []byte {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// Equal reports whether a and b hold the same bytes.
func Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}
