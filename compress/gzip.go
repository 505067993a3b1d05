package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipDecoder decompresses gzip sources, the most common on-disk form of
// exported performance traces.
type GzipDecoder struct{}

var _ Decoder = (*GzipDecoder)(nil)

// NewGzipDecoder creates a new gzip decoder.
func NewGzipDecoder() GzipDecoder {
	return GzipDecoder{}
}

// WrapReader returns a reader yielding the decompressed stream of r.
//
// Fails immediately if the gzip header is invalid; body corruption surfaces
// through later Read calls.
func (d GzipDecoder) WrapReader(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}
