package formdata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zostay/go-formdata/internal/streamsearch"
)

// PartIterator drives one multipart/form-data payload to completion,
// yielding one Part at a time. It implements the PROLOGUE -> HEADERS -> BODY
// -> (HEADERS | TERMINATED) state machine of RFC 2046 section 5.1.1 framing
// on top of a single streamsearch.TokenStream keyed on "--" + boundary.
//
// A PartIterator is not safe for concurrent use; it and the Part.Body it
// hands out share the same underlying byte source and must be driven by
// exactly one goroutine at a time.
type PartIterator struct {
	ctx   context.Context
	outer *streamsearch.TokenStream
	cfg   config

	started       bool
	terminated    bool
	cur           *partBody
	collectBodies bool
}

// StreamMultipart begins parsing src as multipart/form-data delimited by
// boundary, yielding parts whose Body is a live cursor into the shared
// scanner: each part's body must be read (or abandoned, which the iterator
// then drains on its behalf) before the next call to Next.
func StreamMultipart(ctx context.Context, src ByteSource, boundary string, opts ...Option) *PartIterator {
	cfg := applyOptions(opts)
	needle := append([]byte("--"), boundary...)
	outer := streamsearch.NewTokenStream(src, streamsearch.New(needle))
	return &PartIterator{ctx: ctx, outer: outer, cfg: cfg}
}

// IterateMultipart is StreamMultipart with each part's body collected into
// memory before it is handed back, bounded by WithMaxCollectedPartSize.
func IterateMultipart(ctx context.Context, src ByteSource, boundary string, opts ...Option) *PartIterator {
	pi := StreamMultipart(ctx, src, boundary, opts...)
	pi.collectBodies = true
	return pi
}

// ParseMultipart collects the entire payload into a slice of parts, each
// with an eagerly-read body.
func ParseMultipart(ctx context.Context, src ByteSource, boundary string, opts ...Option) ([]*Part, error) {
	pi := IterateMultipart(ctx, src, boundary, opts...)
	var parts []*Part
	for {
		p, err := pi.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return parts, nil
			}
			return nil, err
		}
		parts = append(parts, p)
	}
}

// Next advances to and returns the next part, or io.EOF once the closing
// delimiter has been reached. If the previous part's body was not fully
// read, Next drains and discards its remaining bytes first so they are not
// mistaken for the following part's header block.
func (pi *PartIterator) Next() (*Part, error) {
	if pi.terminated {
		return nil, io.EOF
	}

	if pi.cur != nil {
		if err := pi.cur.drain(); err != nil {
			pi.terminated = true
			return nil, err
		}
	}
	pi.cur = nil

	if !pi.started {
		pi.started = true
		if err := pi.skipPrologue(); err != nil {
			pi.terminated = true
			return nil, err
		}
	}

	hb, err := readHeaderBlock(pi.ctx, pi.outer, pi.cfg.maxHeaderLen)
	if err != nil {
		pi.terminated = true
		return nil, err
	}
	if hb.terminated {
		pi.terminated = true
		return nil, io.EOF
	}

	part, err := buildPart(hb.lines)
	if err != nil {
		pi.terminated = true
		return nil, err
	}

	body := &partBody{it: pi, trimmer: streamsearch.New(crlf)}
	body.processData(hb.bodyLead)
	pi.cur = body
	part.Body = body

	if pi.collectBodies {
		buf, err := collectBody(body, pi.cfg.maxCollectLen)
		if err != nil {
			pi.terminated = true
			return nil, err
		}
		part.Body = bytes.NewReader(buf)
	}

	return part, nil
}

// skipPrologue discards tokens until the first boundary match, per the
// PROLOGUE state: anything before the first delimiter is ignorable.
func (pi *PartIterator) skipPrologue() error {
	for {
		tok, err := pi.outer.Next(pi.ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: source ended before the first boundary", ErrMalformedFraming)
			}
			return &SourceError{Err: err}
		}
		if tok.Kind == streamsearch.Match {
			return nil
		}
	}
}

// partBody is the lazy, single-consumer io.Reader backing Part.Body in
// StreamMultipart. It implements the BODY state's trailing-CRLF trim: a
// second streamsearch.Search keyed on CRLF filters the raw body Data tokens,
// holding the most recent CRLF back by one token so that, if the very next
// thing is the closing boundary, that CRLF is dropped rather than forwarded
// as body content.
type partBody struct {
	it      *PartIterator
	trimmer *streamsearch.Search

	pending     []byte
	pendingCRLF bool
	done        bool
	err         error
}

func (b *partBody) Read(p []byte) (int, error) {
	for len(b.pending) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		if b.done {
			return 0, io.EOF
		}
		b.pull()
	}
	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	return n, nil
}

// drain reads and discards the remainder of the body. Used when the
// enclosing PartIterator advances past a part whose body the caller never
// fully consumed.
func (b *partBody) drain() error {
	for !b.done && b.err == nil {
		b.pending = b.pending[:0]
		b.pull()
	}
	b.pending = nil
	return b.err
}

// pull fetches exactly one token from the outer boundary scanner and
// updates pending/pendingCRLF/done accordingly.
func (b *partBody) pull() {
	tok, err := b.it.outer.Next(b.it.ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			b.err = fmt.Errorf("%w: source ended before the closing boundary", ErrMalformedFraming)
		} else {
			b.err = &SourceError{Err: err}
		}
		return
	}

	switch tok.Kind {
	case streamsearch.Match:
		// The next boundary has arrived: any pending CRLF is exactly the
		// trailer the RFC mandates before the delimiter and is dropped, but
		// genuine residual lookbehind (an incomplete CRLF the trimmer never
		// got to resolve) is still body content.
		b.pendingCRLF = false
		if tail := b.trimmer.End(); len(tail) > 0 {
			b.pending = append(b.pending, tail...)
		}
		b.done = true
	case streamsearch.Data:
		b.processData(tok.Data)
	}
}

func (b *partBody) processData(data []byte) {
	for _, it := range b.trimmer.Feed(data) {
		switch it.Kind {
		case streamsearch.Match:
			if b.pendingCRLF {
				b.pending = append(b.pending, crlf...)
			}
			b.pendingCRLF = true
		case streamsearch.Data:
			if b.pendingCRLF {
				b.pending = append(b.pending, crlf...)
				b.pendingCRLF = false
			}
			b.pending = append(b.pending, it.Data...)
		}
	}
}

// collectBody reads r to completion, bounded by maxLen (no bound if maxLen
// <= 0), for IterateMultipart/ParseMultipart.
func collectBody(r io.Reader, maxLen int) ([]byte, error) {
	if maxLen <= 0 {
		return io.ReadAll(r)
	}
	buf, err := io.ReadAll(io.LimitReader(r, int64(maxLen)+1))
	if err != nil {
		return nil, err
	}
	if len(buf) > maxLen {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrPartTooLarge, maxLen)
	}
	return buf, nil
}
