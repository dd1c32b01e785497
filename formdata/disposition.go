package formdata

import (
	"fmt"
	"strings"
)

// parsedDisposition is the result of parsing a Content-Disposition header
// value for a multipart/form-data part.
type parsedDisposition struct {
	name        string
	filename    string
	hasFilename bool
}

// parseContentDisposition implements the quoted-parameter grammar this
// format requires: semicolon-separated tokens, the first of which must be
// the literal "form-data"; every later token is key=value, where value is
// either a bare run of characters or a double-quoted string in which \
// escapes the following character (only \ and " are meaningful escapes -
// any other escaped byte reproduces verbatim). name is mandatory; filename
// is optional.
//
// This is hand-written rather than built on the standard library's
// mime.ParseMediaType because that function's escape handling differs from
// the grammar above and it collapses every failure into one generic error,
// where this state machine needs to distinguish "not form-data" (the
// multipart terminator case, detected earlier in readHeaderBlock) from a
// genuinely malformed disposition.
func parseContentDisposition(value string) (*parsedDisposition, error) {
	tokens := splitUnquoted(value, ';')
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty Content-Disposition", ErrMalformedHeader)
	}

	first := strings.TrimSpace(tokens[0])
	if first != "form-data" {
		return nil, fmt.Errorf("%w: Content-Disposition must begin with form-data, got %q", ErrMalformedHeader, first)
	}

	pd := &parsedDisposition{}
	for _, raw := range tokens[1:] {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}

		eq := indexUnquotedByte(tok, '=')
		if eq < 0 {
			return nil, fmt.Errorf("%w: disposition parameter %q is missing '='", ErrMalformedHeader, tok)
		}

		key := strings.ToLower(strings.TrimSpace(tok[:eq]))
		val, err := unquoteParamValue(strings.TrimSpace(tok[eq+1:]))
		if err != nil {
			return nil, err
		}

		switch key {
		case "name":
			pd.name = val
		case "filename":
			pd.filename = val
			pd.hasFilename = true
		}
	}

	if pd.name == "" {
		return nil, fmt.Errorf("%w: Content-Disposition is missing the required name parameter", ErrMalformedHeader)
	}

	return pd, nil
}

// splitUnquoted splits s on sep, treating any double-quoted segment
// (including its \-escapes) as opaque so a separator byte inside quotes is
// never treated as a boundary.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				cur.WriteByte(s[i])
				continue
			}
			if c == '"' {
				inQuotes = false
			}
			continue
		}

		switch {
		case c == '"':
			inQuotes = true
			cur.WriteByte(c)
		case c == sep:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// indexUnquotedByte returns the index of the first occurrence of b in s that
// is not inside a double-quoted segment, or -1 if there is none.
func indexUnquotedByte(s string, b byte) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			if c == '\\' && i+1 < len(s) {
				i++
				continue
			}
			if c == '"' {
				inQuotes = false
			}
			continue
		}
		if c == '"' {
			inQuotes = true
			continue
		}
		if c == b {
			return i
		}
	}
	return -1
}

// unquoteParamValue decodes a parameter value that is either a bare token or
// a double-quoted string with \-escapes. A quote that opens but never closes
// is reported as malformed.
func unquoteParamValue(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if raw[0] != '"' {
		return raw, nil
	}
	if len(raw) < 2 || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("%w: mismatched quotes in parameter value %q", ErrMalformedHeader, raw)
	}

	inner := raw[1 : len(raw)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			b.WriteByte(inner[i])
			continue
		}
		if c == '"' {
			return "", fmt.Errorf("%w: unescaped quote in parameter value %q", ErrMalformedHeader, raw)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// escapeParamValue is the inverse of unquoteParamValue's inner decoding: it
// backslash-escapes " and \ so the result can be safely wrapped in quotes by
// BuildHeaderLines.
func escapeParamValue(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
