// Package streamsearch implements a streaming Boyer-Moore-Horspool scanner
// that splits an arbitrarily chunked byte stream on a literal needle.
//
// A Search instance owns a lookbehind buffer of at most len(needle) bytes so
// that a match straddling two Feed calls is never missed, and so that
// non-match bytes are reported as early as the algorithm can prove they can
// no longer be part of a match. Nothing here knows anything about multipart
// framing; Search just splits a byte stream on a needle.
package streamsearch
