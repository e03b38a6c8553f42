// Package compression opens single-file compressed streams (.gz, .bz2, .xz)
// with a bound on the decompressed size.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/sett/internal/security"
	"github.com/ulikunitz/xz"
)

// MaxDecompressedSize is the most data a compressed stream may expand to.
const MaxDecompressedSize = 64 * 1024 * 1024

// Kind identifies a compression format.
type Kind string

const (
	KindNone  Kind = ""
	KindGzip  Kind = "gz"
	KindBzip2 Kind = "bz2"
	KindXz    Kind = "xz"
)

// Detect returns the compression kind of a filename and the name with the
// compression extension removed ("tartans.csv.xz" -> KindXz, "tartans.csv").
func Detect(name string) (Kind, string) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".gz", ".gzip":
		return KindGzip, strings.TrimSuffix(name, filepath.Ext(name))
	case ".bz2":
		return KindBzip2, strings.TrimSuffix(name, filepath.Ext(name))
	case ".xz":
		return KindXz, strings.TrimSuffix(name, filepath.Ext(name))
	default:
		return KindNone, name
	}
}

// NewReader wraps r so that reads return decompressed data for kind.
// The returned reader fails once more than MaxDecompressedSize bytes have
// been produced. KindNone returns r size-limited but otherwise unchanged.
func NewReader(r io.Reader, kind Kind) (io.Reader, error) {
	var dec io.Reader
	switch kind {
	case KindNone:
		dec = r
	case KindGzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dec = gzr
	case KindBzip2:
		dec = bzip2.NewReader(r)
	case KindXz:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dec = xzr
	default:
		return nil, fmt.Errorf("unsupported compression: %s", kind)
	}

	return security.NewLimitedReader(dec, MaxDecompressedSize), nil
}
