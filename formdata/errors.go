package formdata

import (
	"errors"
	"fmt"
)

// Errors surfaced while parsing multipart framing or headers. Wrap one of
// these with fmt.Errorf("%w: ...") to add detail without losing
// errors.Is compatibility.
var (
	// ErrMalformedFraming is returned when the multipart framing itself is
	// broken: the source ended before the closing delimiter, or two boundary
	// matches were found back to back with no header block between them.
	ErrMalformedFraming = errors.New("formdata: malformed multipart framing")

	// ErrMalformedHeader is returned when a part's header block cannot be
	// parsed: a header line is missing its colon, Content-Disposition is
	// missing or does not parse, or a required parameter is absent.
	ErrMalformedHeader = errors.New("formdata: malformed part header")

	// ErrHeaderTooLarge is returned when a part's header block exceeds
	// WithMaxHeaderLength.
	ErrHeaderTooLarge = errors.New("formdata: header block too large")

	// ErrPartTooLarge is returned by IterateMultipart/ParseMultipart when a
	// collected part body exceeds WithMaxCollectedPartSize. StreamMultipart
	// never returns it, since it never collects a body.
	ErrPartTooLarge = errors.New("formdata: part body too large")
)

// SourceError wraps a failure reported by the caller's ByteSource. It is
// distinct from the parser's own framing/header errors so callers can tell
// "the wire format was bad" from "the transport beneath us broke."
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string { return fmt.Sprintf("formdata: source error: %s", e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// TransformError wraps a failure returned by a caller-supplied FilterFunc or
// TransformFunc during re-emission.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("formdata: filter/transform error: %s", e.Err)
}
func (e *TransformError) Unwrap() error { return e.Err }
