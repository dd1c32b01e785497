package formdata

import (
	"fmt"
	"io"
	"time"

	"github.com/araddon/dateparse"
)

// Part describes a single part of a multipart/form-data payload. Its only
// variable-size field is Body. In StreamMultipart it is a live cursor into
// the shared scanner and must be read before the enclosing PartIterator is
// advanced again; in IterateMultipart and ParseMultipart it is a
// *bytes.Reader over an already-collected buffer.
//
// A Part's zero value is only useful as a target for a transform's mutation;
// Name must be non-empty for a Part to be valid.
type Part struct {
	// Name is the "name" parameter from Content-disposition. Required.
	Name string

	// Filename is the "filename" parameter from Content-disposition, if any.
	Filename string

	// ContentType is the Content-type header value, verbatim, if any.
	ContentType string

	// ContentLength is the Content-length header value, verbatim and
	// unvalidated, if any.
	ContentLength string

	// ContentTransferEncoding is the Content-transfer-encoding header value,
	// if any. Conventionally one of binary, 8bit, quoted-printable, base64,
	// or 7bit, but this package does not enforce that set; it is passed
	// through for the caller to act on.
	ContentTransferEncoding string

	// HeaderLines holds the exact header lines as received, minus their
	// terminating CRLF, in wire order. When present, it is the authoritative
	// source for re-serializing the part; see BuildHeaderLines.
	HeaderLines []string

	// ExtraHeaders holds any header beyond the fixed fields above, keyed by
	// lowercased header name, with the raw (untrimmed-of-surrounding-space
	// handling aside) value string.
	ExtraHeaders map[string]string

	// Body is this part's content. Single consumer, non-restartable: once the
	// enclosing PartIterator is asked for the next part, a Body obtained from
	// StreamMultipart becomes terminal and returns (0, io.EOF) on every
	// subsequent Read.
	Body io.Reader
}

// Date parses the "date" entry of ExtraHeaders, if present, using a permissive
// parser that tolerates the wide variety of date formats real senders emit.
// It returns an error if no such header is present or if it cannot be parsed.
func (p *Part) Date() (time.Time, error) {
	v, ok := p.ExtraHeaders["date"]
	if !ok {
		return time.Time{}, fmt.Errorf("formdata: part %q has no date header", p.Name)
	}
	return dateparse.ParseAny(v)
}
