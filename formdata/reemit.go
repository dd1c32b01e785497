package formdata

import (
	"context"
	"errors"
	"io"

	"github.com/zostay/go-formdata/formbytes"
)

// FilterKeep is the verdict a FilterFunc returns for a part.
type FilterKeep struct {
	// Ok is false to drain and skip the part.
	Ok bool
	// Stop, if true, ends re-emission after this part is disposed of (kept
	// or dropped).
	Stop bool
}

// FilterFunc decides whether a part survives into the output stream.
type FilterFunc func(ctx context.Context, part *Part) (FilterKeep, error)

// TransformResult is the verdict a TransformFunc returns for a part it kept.
type TransformResult struct {
	// Part is the (possibly mutated) part to serialize. A nil Part discards
	// it, equivalent to a filter rejecting it after the fact.
	Part *Part
	// Stop, if true, ends re-emission after this part is serialized.
	Stop bool
}

// TransformFunc mutates a kept part before it is serialized. Implementations
// may read part.Body to completion; GetReadableFormDataStream always
// collects the body before calling Transform so a transform that inspects
// or replaces the body never races the underlying scanner.
type TransformFunc func(ctx context.Context, part *Part) (TransformResult, error)

// ReEmitOptions configures GetReadableFormDataStream.
type ReEmitOptions struct {
	// Boundary is the input payload's boundary. Required.
	Boundary string
	// OutputBoundary is the boundary to write. Defaults to Boundary if
	// empty.
	OutputBoundary string
	// Filter, if set, is applied to every part before Transform.
	Filter FilterFunc
	// Transform, if set, is applied to every part Filter kept.
	Transform TransformFunc
	// Options are forwarded to the underlying IterateMultipart call driving
	// the input side of the pipeline.
	Options []Option
}

// GetReadableFormDataStream parses src as multipart/form-data under
// opts.Boundary, applies Filter then Transform to each part in turn, and
// serializes the kept/transformed parts into a new multipart/form-data
// stream under opts.OutputBoundary. Output is produced on an io.Pipe fed by
// a goroutine, the idiomatic Go shape for a pull io.Reader backed by a
// push-style producer loop.
//
// The returned boundary is always opts.OutputBoundary (or opts.Boundary if
// that was empty); callers constructing an outer Content-Type header should
// use it rather than opts.OutputBoundary directly, in case the latter was
// left unset.
func GetReadableFormDataStream(ctx context.Context, src ByteSource, opts ReEmitOptions) (io.Reader, string, error) {
	outBoundary := opts.OutputBoundary
	if outBoundary == "" {
		outBoundary = opts.Boundary
	}

	pr, pw := io.Pipe()

	go func() {
		err := runReEmit(ctx, src, opts, outBoundary, pw)
		pw.CloseWithError(err)
	}()

	return pr, outBoundary, nil
}

func runReEmit(ctx context.Context, src ByteSource, opts ReEmitOptions, outBoundary string, w io.Writer) error {
	pi := IterateMultipart(ctx, src, opts.Boundary, opts.Options...)

	first := true
	for {
		part, err := pi.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		keep := true
		stop := false

		if opts.Filter != nil {
			verdict, ferr := opts.Filter(ctx, part)
			if ferr != nil {
				return &TransformError{Err: ferr}
			}
			keep = verdict.Ok
			stop = verdict.Stop
		}

		if keep && opts.Transform != nil {
			result, terr := opts.Transform(ctx, part)
			if terr != nil {
				return &TransformError{Err: terr}
			}
			part = result.Part
			keep = part != nil
			stop = stop || result.Stop
			if keep {
				// A transform may leave HeaderLines set to the stale wire
				// bytes while mutating fixed fields. Fixed fields win -
				// HeaderLines is always regenerated for anything that passed
				// through a transform, never trusted verbatim.
				part.HeaderLines = nil
			}
		}

		if keep {
			if err := writePart(w, part, outBoundary, first); err != nil {
				return err
			}
			first = false
		}

		if stop {
			break
		}
	}

	return writeCloseDelimiter(w, outBoundary, first)
}

// writePart serializes one part: the delimiter (without a leading CRLF for
// the very first part), header lines, the blank line, then the raw body
// bytes.
func writePart(w io.Writer, part *Part, boundary string, first bool) error {
	if err := writeDelimiter(w, boundary, first); err != nil {
		return err
	}

	lines := part.HeaderLines
	if lines == nil {
		lines = BuildHeaderLines(part)
	}
	for _, line := range lines {
		if _, err := w.Write(formbytes.StringToBytes(line + "\r\n")); err != nil {
			return err
		}
	}
	if _, err := w.Write(crlf); err != nil {
		return err
	}

	if part.Body != nil {
		if _, err := io.Copy(w, part.Body); err != nil {
			return err
		}
	}
	return nil
}

func writeDelimiter(w io.Writer, boundary string, first bool) error {
	prefix := "\r\n--"
	if first {
		prefix = "--"
	}
	_, err := w.Write(formbytes.StringToBytes(prefix + boundary + "\r\n"))
	return err
}

func writeCloseDelimiter(w io.Writer, boundary string, first bool) error {
	prefix := "\r\n--"
	if first {
		prefix = "--"
	}
	_, err := w.Write(formbytes.StringToBytes(prefix + boundary + "--"))
	return err
}
