package formdata_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zostay/go-formdata/formdata"
)

// errorSource is a ByteSource that returns a fixed error after yielding a
// prefix of bytes, used to exercise SourceError propagation.
type errorSource struct {
	data []byte
	pos  int
	err  error
}

func (s *errorSource) Next(ctx context.Context) ([]byte, error) {
	if s.pos >= len(s.data) {
		return nil, s.err
	}
	n := len(s.data) - s.pos
	chunk := s.data[s.pos : s.pos+n]
	s.pos += n
	return chunk, nil
}

func newBuf(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

// parseAll runs ParseMultipart over payload under every chunk size in
// sizes, asserting each chunking produces an identical parts slice (same
// fixed fields, same body bytes) and returning the first chunking's result.
func parseAll(t *testing.T, payload string, boundary string, sizes []int) []*formdata.Part {
	t.Helper()

	var reference []*formdata.Part
	var referenceBodies []string

	for _, sz := range sizes {
		src := formdata.FromReader(bytes.NewReader([]byte(payload)), sz)
		parts, err := formdata.ParseMultipart(context.Background(), src, boundary)
		require.NoError(t, err, "chunk size %d", sz)

		bodies := make([]string, len(parts))
		for i, p := range parts {
			bodies[i] = readAll(t, p.Body)
			p.Body = bytes.NewReader([]byte(bodies[i]))
		}

		if reference == nil {
			reference = parts
			referenceBodies = bodies
			continue
		}

		require.Equal(t, len(reference), len(parts), "chunk size %d: part count differs", sz)
		for i := range parts {
			require.Equal(t, reference[i].Name, parts[i].Name, "chunk size %d part %d name", sz, i)
			require.Equal(t, reference[i].Filename, parts[i].Filename, "chunk size %d part %d filename", sz, i)
			require.Equal(t, reference[i].ContentType, parts[i].ContentType, "chunk size %d part %d content-type", sz, i)
			require.Equal(t, referenceBodies[i], bodies[i], "chunk size %d part %d body", sz, i)
		}
	}
	return reference
}
