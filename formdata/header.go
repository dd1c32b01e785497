package formdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zostay/go-formdata/formbytes"
	"github.com/zostay/go-formdata/internal/streamsearch"
)

// crlf is the needle the header-block extractor and the body trimmer both
// search for.
var crlf = []byte("\r\n")

// headerBlock is the result of reading one part's header section off the
// boundary-level token stream.
type headerBlock struct {
	// terminated is true when the bytes immediately following the
	// boundary match begin with "--": the multipart closing delimiter,
	// meaning there are no more parts.
	terminated bool

	// lines holds each raw header line, decoded to text, in wire order.
	lines []string

	// bodyLead holds whatever bytes were already read past the
	// header-terminating blank line; they are the first bytes of the body
	// and must be fed into body processing before asking the driver for
	// more chunks.
	bodyLead []byte
}

// readHeaderBlock pulls tokens from the boundary-level token stream and
// extracts one part's header block: it feeds every Data token through a
// nested CRLF StreamSearch and watches for two CRLF matches with no header
// content between them.
func readHeaderBlock(ctx context.Context, outer *streamsearch.TokenStream, maxHeaderLen int) (*headerBlock, error) {
	lineScanner := streamsearch.New(crlf)

	var lines []string
	var curLine []byte
	var bodyLead []byte
	headersDone := false
	sawFirstToken := false
	sawDelimiterCRLF := false
	total := 0

	for !headersDone {
		tok, err := outer.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: source ended while reading part headers", ErrMalformedFraming)
			}
			return nil, &SourceError{Err: err}
		}

		if tok.Kind == streamsearch.Match {
			// A boundary arrived where header content was expected: either
			// two boundaries back to back (an empty header block) or the
			// header block never reached its terminating blank line.
			return nil, fmt.Errorf("%w: unexpected boundary while reading part headers", ErrMalformedFraming)
		}

		data := tok.Data
		if !sawFirstToken {
			sawFirstToken = true
			if len(data) >= 2 && data[0] == '-' && data[1] == '-' {
				return &headerBlock{terminated: true}, nil
			}
		}

		// An inter-boundary Data token spans the header block and the body
		// that follows it, since the outer scanner only breaks on boundaries.
		// Tally only the bytes that land before the blank line - whatever of
		// this token ends up in bodyLead must not count against the header
		// size ceiling.
		bodyLeadBefore := len(bodyLead)

		for _, it := range lineScanner.Feed(data) {
			if headersDone {
				// Bytes after the blank line belong to the body; the CRLF
				// that triggered headersDone itself was already consumed as
				// part of detecting the blank line, but any further tokens
				// in this same Feed call are body content and must be
				// reconstructed verbatim.
				if it.Kind == streamsearch.Data {
					bodyLead = append(bodyLead, it.Data...)
				} else {
					bodyLead = append(bodyLead, crlf...)
				}
				continue
			}

			switch it.Kind {
			case streamsearch.Data:
				curLine = append(curLine, it.Data...)
			case streamsearch.Match:
				if !sawDelimiterCRLF {
					// The first CRLF after a boundary match is the
					// delimiter line's own terminator, not a header line -
					// there is never any content before it to turn into a
					// header, and it must never be mistaken for the blank
					// line that ends the header block.
					sawDelimiterCRLF = true
					curLine = nil
					continue
				}
				if len(curLine) == 0 {
					headersDone = true
				} else {
					lines = append(lines, formbytes.BytesToString(curLine))
					curLine = nil
				}
			}
		}

		if maxHeaderLen > 0 {
			total += len(data) - (len(bodyLead) - bodyLeadBefore)
			if total > maxHeaderLen {
				return nil, fmt.Errorf("%w: exceeds %d bytes", ErrHeaderTooLarge, maxHeaderLen)
			}
		}
	}

	// Whatever the inner scanner is still holding back as lookbehind is
	// unambiguously body content now: headers are done, and the trailing
	// scanner was only ever searching for CRLF.
	bodyLead = formbytes.Merge(bodyLead, lineScanner.End())

	return &headerBlock{lines: lines, bodyLead: bodyLead}, nil
}

// buildPart turns a raw header-line list into a Part, applying this format's
// header-value parsing rules.
func buildPart(lines []string) (*Part, error) {
	p := &Part{
		HeaderLines:  append([]string(nil), lines...),
		ExtraHeaders: map[string]string{},
	}

	var sawDisposition bool
	for _, line := range lines {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil, fmt.Errorf("%w: header line %q has no ':'", ErrMalformedHeader, line)
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])

		switch strings.ToLower(name) {
		case "content-disposition":
			sawDisposition = true
			pd, err := parseContentDisposition(value)
			if err != nil {
				return nil, err
			}
			p.Name = pd.name
			if pd.hasFilename {
				p.Filename = pd.filename
			}
		case "content-type":
			p.ContentType = value
		case "content-length":
			p.ContentLength = value
		case "content-transfer-encoding":
			p.ContentTransferEncoding = value
		default:
			p.ExtraHeaders[strings.ToLower(name)] = value
		}
	}

	if !sawDisposition {
		return nil, fmt.Errorf("%w: missing Content-Disposition header", ErrMalformedHeader)
	}

	return p, nil
}
