package streamsearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-formdata/internal/streamsearch"
)

// feedAll splits haystack into chunks of the given size (0 means feed it in
// a single call), runs it through a fresh Search for needle, and returns
// every token Feed produced plus the lookbehind End() would flush.
func feedAll(needle, haystack string, chunkSize int) (tokens []streamsearch.Token, tail []byte) {
	s := streamsearch.New([]byte(needle))
	h := []byte(haystack)

	if chunkSize <= 0 {
		tokens = append(tokens, s.Feed(h)...)
	} else {
		for i := 0; i < len(h); i += chunkSize {
			end := i + chunkSize
			if end > len(h) {
				end = len(h)
			}
			tokens = append(tokens, s.Feed(h[i:end])...)
		}
	}
	tail = s.End()
	return tokens, tail
}

func assertConservation(t *testing.T, needleLen int, haystack string, tokens []streamsearch.Token, lookbehind []byte) {
	t.Helper()

	total := 0
	matches := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case streamsearch.Data:
			require.NotEmpty(t, tok.Data, "Data tokens must never be empty")
			total += len(tok.Data)
		case streamsearch.Match:
			matches++
		}
	}
	total += matches * needleLen
	total += len(lookbehind)

	assert.Equal(t, len(haystack), total, "data + matches*needleLen + lookbehind must equal total bytes fed")
}

// withTail appends the flushed lookbehind, if any, as a final Data token -
// the same thing streamsearch.TokenStream does on source EOF.
func withTail(tokens []streamsearch.Token, tail []byte) []streamsearch.Token {
	if len(tail) == 0 {
		return tokens
	}
	return append(tokens, streamsearch.Token{Kind: streamsearch.Data, Data: tail})
}

func TestStreamSearch_NoMatch(t *testing.T) {
	for _, chunkSize := range []int{0, 1, 3} {
		tokens, tail := feedAll("0", "123456789", chunkSize)

		assert.Empty(t, tail, "chunk size %d", chunkSize)
		segs := streamsearch.Segments(tokens)
		require.Len(t, segs, 1, "chunk size %d", chunkSize)
		for _, tok := range tokens {
			assert.Equal(t, streamsearch.Data, tok.Kind)
		}
		assert.Equal(t, "123456789", string(segs[0]))

		assertConservation(t, 1, "123456789", tokens, tail)
	}
}

func TestStreamSearch_MatchesAtEnd(t *testing.T) {
	for _, chunkSize := range []int{0, 1, 3} {
		tokens, tail := feedAll("9", "1234567899", chunkSize)

		segs := streamsearch.Segments(withTail(tokens, tail))
		want := []string{"12345678", "", ""}
		require.Len(t, segs, len(want), "chunk size %d", chunkSize)
		for i := range want {
			assert.Equal(t, want[i], string(segs[i]), "chunk size %d segment %d", chunkSize, i)
		}

		assertConservation(t, 1, "1234567899", tokens, tail)
	}
}

func TestStreamSearch_Hello(t *testing.T) {
	for _, chunkSize := range []int{0, 1, 3} {
		tokens, tail := feedAll("hello", "hello world", chunkSize)

		segs := streamsearch.Segments(withTail(tokens, tail))
		want := []string{"", " world"}
		require.Len(t, segs, len(want), "chunk size %d", chunkSize)
		for i := range want {
			assert.Equal(t, want[i], string(segs[i]), "chunk size %d segment %d", chunkSize, i)
		}

		assertConservation(t, 5, "hello world", tokens, tail)
	}
}

// TestStreamSearch_PartialPrefixHeldAsLookbehind exercises the case where the
// stream ends mid-way through what could be the start of a match. Without an
// explicit End() flush, the tentative suffix must remain in the lookbehind
// rather than be reported as Data - otherwise the byte-conservation
// invariant breaks and the trailing byte is double-counted.
func TestStreamSearch_PartialPrefixHeldAsLookbehind(t *testing.T) {
	for _, chunkSize := range []int{0, 1, 3} {
		tokens, tail := feedAll("ab", "12a45678a", chunkSize)

		segs := streamsearch.Segments(tokens)
		require.Len(t, segs, 1, "chunk size %d", chunkSize)
		for _, tok := range tokens {
			assert.Equal(t, streamsearch.Data, tok.Kind)
		}
		assert.Equal(t, "12a45678", string(segs[0]))
		assert.Equal(t, "a", string(tail))

		assertConservation(t, 2, "12a45678a", tokens, tail)
	}
}

func TestStreamSearch_BoundaryStraddlingMatch(t *testing.T) {
	needle := "\r\n--boundary\r\n"
	haystack := "some binary data\r\n--boundary\rnot really\r\nmore binary data\r\n--boundary\r\n"

	for _, chunkSize := range []int{0, 1, 3} {
		tokens, tail := feedAll(needle, haystack, chunkSize)

		segs := streamsearch.Segments(withTail(tokens, tail))
		require.Len(t, segs, 2, "chunk size %d", chunkSize)
		assert.Equal(t, "some binary data\r\n--boundary\rnot really\r\nmore binary data", string(segs[0]))
		assert.Equal(t, "", string(segs[1]))

		assertConservation(t, len(needle), haystack, tokens, tail)
	}
}

func TestStreamSearch_NoNeedleInData(t *testing.T) {
	needle := "--bnd"
	haystack := "preamble --b --bn --bnd-- tail --bnd more --bnd end"

	for _, chunkSize := range []int{0, 1, 3} {
		tokens, tail := feedAll(needle, haystack, chunkSize)

		for _, tok := range tokens {
			if tok.Kind == streamsearch.Data {
				assert.NotContains(t, string(tok.Data), needle)
			}
		}
		assertConservation(t, len(needle), haystack, tokens, tail)
	}
}

func TestStreamSearch_EmptyChunksTolerated(t *testing.T) {
	s := streamsearch.New([]byte("bnd"))

	tokens := s.Feed(nil)
	assert.Empty(t, tokens)

	tokens = s.Feed([]byte{})
	assert.Empty(t, tokens)

	tokens = s.Feed([]byte("xx bnd yy"))
	require.Len(t, tokens, 3)

	tail := s.End()
	assert.Empty(t, tail)
}
