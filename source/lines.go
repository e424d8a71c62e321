// Package source provides line sources for readers: plain [io.Reader] streams and files, which
// may be compressed with gzip or zstd.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/teenjuna/lineq/internal"
)

var _ internal.Source = (*Lines)(nil)

// Lines reads "\n" or "\r\n" terminated lines from a stream. The last line doesn't need a
// terminator.
type Lines struct {
	name    string
	scanner *bufio.Scanner
	closers []io.Closer
}

// NewReader returns a line source reading from r. Closing the source closes r if it implements
// [io.Closer].
func NewReader(r io.Reader, configFuncs ...func(c *Config)) *Lines {
	cfg := newConfig(configFuncs...)
	lines := newLines(r, cfg)
	if closer, ok := r.(io.Closer); ok {
		lines.closers = append(lines.closers, closer)
	}
	return lines
}

// Open opens the file at path and returns a line source reading from it. Compressed files are
// decompressed on the fly according to [Config.Compression].
func Open(path string, configFuncs ...func(c *Config)) (*Lines, error) {
	cfg := newConfig(configFuncs...)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	compression := cfg.compression
	if compression == Auto {
		compression = detectCompression(path)
	}

	var (
		r       io.Reader = file
		closers           = []io.Closer{file}
	)
	switch compression {
	case Gzip:
		gr, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		r = gr
		closers = append([]io.Closer{gr}, closers...)
	case Zstd:
		zr, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("open zstd: %w", err)
		}
		r = zr
		closers = append([]io.Closer{zr.IOReadCloser()}, closers...)
	}

	lines := newLines(r, cfg)
	lines.name = path
	lines.closers = closers

	return lines, nil
}

func newLines(r io.Reader, cfg *Config) *Lines {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(cfg.maxLineSize, 64*1024)), cfg.maxLineSize)
	return &Lines{scanner: scanner}
}

// Next returns the next line, or [io.EOF] if there are no more lines.
func (l *Lines) Next() (string, error) {
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Name returns the path of the file, or an empty string for sources created by [NewReader].
func (l *Lines) Name() string {
	return l.name
}

// Close releases the underlying stream.
func (l *Lines) Close() error {
	errs := make([]error, 0)
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	l.closers = nil
	return errors.Join(errs...)
}

func detectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}
