package source

// Compression of a file opened with [Open].
type Compression int

const (
	// Auto picks the compression from the file extension: ".gz" is gzip, ".zst" and ".zstd" are
	// zstd, anything else is read as is.
	Auto Compression = iota
	// None reads the file as is.
	None
	Gzip
	Zstd
)

// DefaultMaxLineSize is the default limit of a single line in bytes.
const DefaultMaxLineSize = 1024 * 1024

// Config is a config of line sources.
type Config struct {
	maxLineSize int
	compression Compression
}

// MaxLineSize sets the maximum size of a line in bytes. Reading a longer line fails with
// [bufio.ErrTooLong].
func (c *Config) MaxLineSize(size int) {
	if size < 1 {
		panic("max line size can't be < 1")
	}
	c.maxLineSize = size
}

// Compression sets the compression of files opened with [Open].
func (c *Config) Compression(compression Compression) {
	if compression < Auto || compression > Zstd {
		panic("unknown compression")
	}
	c.compression = compression
}

func newConfig(configFuncs ...func(c *Config)) *Config {
	cfg := Config{}
	cfg.MaxLineSize(DefaultMaxLineSize)
	cfg.Compression(Auto)
	for _, cf := range configFuncs {
		if cf != nil {
			cf(&cfg)
		}
	}
	return &cfg
}
