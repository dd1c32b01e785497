package streamsearch

import (
	"context"
	"errors"
	"io"
)

// ByteSource is a pull-based source of owned byte chunks. Next returns
// io.EOF (wrapped or bare, checked with errors.Is) once the source is
// exhausted; any other error is a source failure and must not be retried.
//
// Implementations are read linearly by exactly one caller at a time; a
// second concurrent reader is undefined behavior.
type ByteSource interface {
	Next(ctx context.Context) ([]byte, error)
}

// TokenStream pulls chunks from a ByteSource, feeds them to a Search, and
// yields the resulting tokens one at a time. On source EOF it flushes
// Search.End() as one final Data token (if non-empty) before terminating.
//
// A TokenStream is not safe for concurrent use; it has exactly one consumer.
type TokenStream struct {
	src    ByteSource
	search *Search
	queue  []Token
	done   bool
}

// NewTokenStream wraps src with search into a pull token sequence.
func NewTokenStream(src ByteSource, search *Search) *TokenStream {
	return &TokenStream{src: src, search: search}
}

// Next returns the next token, or io.EOF once the stream is exhausted. Any
// other error indicates the underlying source failed; the TokenStream must
// not be used further after an error.
func (ts *TokenStream) Next(ctx context.Context) (Token, error) {
	for len(ts.queue) == 0 {
		if ts.done {
			return Token{}, io.EOF
		}

		chunk, err := ts.src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				ts.done = true
				if tail := ts.search.End(); len(tail) > 0 {
					ts.queue = append(ts.queue, Token{Kind: Data, Data: tail})
				}
				continue
			}
			return Token{}, err
		}

		ts.queue = ts.search.Feed(chunk)
	}

	tok := ts.queue[0]
	ts.queue = ts.queue[1:]
	return tok, nil
}

// Segments groups a complete token list into one byte slice per inter-match
// run, including an entry for the prologue (before the first match) and the
// epilogue (after the last match). A run with no Data tokens produces an
// empty (but present) slice, matching the convention that every gap between
// matches - even an empty one - is a reportable segment.
func Segments(tokens []Token) [][]byte {
	segs := make([][]byte, 0, 1)
	cur := []byte{}
	for _, t := range tokens {
		switch t.Kind {
		case Data:
			cur = append(cur, t.Data...)
		case Match:
			segs = append(segs, cur)
			cur = []byte{}
		}
	}
	segs = append(segs, cur)
	return segs
}
