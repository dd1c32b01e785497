package formdata

// Conservative round-number defaults for chunk size, header length and
// collected part size. The chunk size is overridden through FromReader's
// chunkSize argument; the other two are overridable via an Option.
const (
	// DefaultChunkSize is the chunk size FromReader uses when none is given.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default ceiling on the combined size of a
	// part's header block before parsing gives up with ErrHeaderTooLarge.
	// Zero or negative disables the limit.
	DefaultMaxHeaderLength = 1 << 20

	// DefaultMaxCollectedPartSize bounds how large a single part body may
	// grow when collected eagerly by IterateMultipart or ParseMultipart.
	// StreamMultipart is unaffected: its bodies are never collected by this
	// package. Zero or negative disables the limit.
	DefaultMaxCollectedPartSize = 32 << 20
)

// config holds the options every entry point accepts.
type config struct {
	maxHeaderLen  int
	maxCollectLen int
}

func defaultConfig() config {
	return config{
		maxHeaderLen:  DefaultMaxHeaderLength,
		maxCollectLen: DefaultMaxCollectedPartSize,
	}
}

// Option configures StreamMultipart, IterateMultipart, and ParseMultipart.
type Option func(*config)

// WithMaxHeaderLength overrides DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) Option {
	return func(c *config) { c.maxHeaderLen = n }
}

// WithMaxCollectedPartSize overrides DefaultMaxCollectedPartSize. It has no
// effect on StreamMultipart, whose bodies are never collected.
func WithMaxCollectedPartSize(n int) Option {
	return func(c *config) { c.maxCollectLen = n }
}

func applyOptions(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
