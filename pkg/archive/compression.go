// pkg/archive/compression.go
package archive

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression selects the codec wrapped around the NAR stream
type Compression string

const (
	XZ   Compression = "xz"
	Zstd Compression = "zstd"
)

// Extension is the file extension of binary packages using the default codec
const Extension = ".nar.xz"

const zstdExtension = ".nar.zst"

// ParseCompression parses a codec name. An empty name selects xz.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "xz":
		return XZ, nil
	case "zstd", "zst":
		return Zstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want xz or zstd)", s)
	}
}

// CompressionOf returns the codec implied by an archive file name
func CompressionOf(path string) (Compression, error) {
	switch {
	case strings.HasSuffix(path, Extension):
		return XZ, nil
	case strings.HasSuffix(path, zstdExtension):
		return Zstd, nil
	default:
		return "", fmt.Errorf("%s: not a binary package (want %s or %s)", path, Extension, zstdExtension)
	}
}

// Extension returns the archive file extension for the codec
func (c Compression) Extension() string {
	if c == Zstd {
		return zstdExtension
	}
	return Extension
}

func (c Compression) newWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case XZ:
		return xz.NewWriter(w)
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

func (c Compression) newReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case XZ:
		xr, err := xz.NewReader(bufio.NewReader(r))
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}
