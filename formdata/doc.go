// Package formdata is a streaming parser and re-emitter for
// multipart/form-data payloads (RFC 7578 / RFC 2046 section 5.1.1). It
// locates part boundaries without ever buffering a whole part, exposes each
// part's headers as soon as they are read, and streams each part's body as a
// lazy io.Reader.
//
// The three entry points are StreamMultipart (lazy bodies), IterateMultipart
// (bodies collected into memory as each part is reached), and ParseMultipart
// (collects every part up front). GetReadableFormDataStream runs the
// opposite direction: it re-serializes a filtered and transformed sequence
// of parts into a new multipart/form-data byte stream, optionally under a
// different boundary.
//
// This package does not decode Content-transfer-encoding, does not parse
// nested multipart bodies, and does not negotiate charsets: it passes
// everything but the framing itself through verbatim. It is not safe for
// concurrent use - a PartIterator and the io.Reader bodies it hands out are
// meant for a single goroutine at a time.
package formdata
