package formdata

import (
	"context"
	"io"

	"github.com/zostay/go-formdata/internal/streamsearch"
)

// ByteSource is the abstract pull-based byte source this package reads from.
// Next must return io.EOF once the source is exhausted; any other error is
// treated as a SourceError and terminates the parse or re-emit in progress.
//
// A ByteSource is read by exactly one caller, linearly, one Next call at a
// time. A second concurrent reader is undefined behavior.
type ByteSource = streamsearch.ByteSource

// readerSource adapts an io.Reader into a ByteSource by reading fixed-size
// chunks, so a header can be split from a body without assuming the whole
// payload fits in memory.
type readerSource struct {
	r         io.Reader
	chunkSize int
}

// FromReader wraps r as a ByteSource that reads chunkSize bytes at a time.
// This is the only concrete ByteSource this package ships; any other
// environment-specific byte stream (an HTTP request body, a socket, a
// platform-specific streaming primitive) is expected to implement ByteSource
// directly rather than going through an io.Reader adapter.
func FromReader(r io.Reader, chunkSize int) ByteSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &readerSource{r: r, chunkSize: chunkSize}
}

func (s *readerSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, s.chunkSize)
	n, err := s.r.Read(buf)
	if n > 0 {
		// io.Reader may return n > 0 and a non-nil err (including io.EOF) in
		// the same call; the data must still be delivered before the error
		// surfaces on the next Next call.
		return buf[:n], nil
	}
	if err != nil {
		return nil, err
	}
	return buf[:0], nil
}
