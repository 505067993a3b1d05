package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Decoder decompresses S2 and Snappy framed sources. The s2 reader handles
// both framings, so one decoder covers either identifier.
type S2Decoder struct{}

var _ Decoder = (*S2Decoder)(nil)

// NewS2Decoder creates a new S2 decoder.
func NewS2Decoder() S2Decoder {
	return S2Decoder{}
}

// WrapReader returns a reader yielding the decompressed stream of r.
func (d S2Decoder) WrapReader(r io.Reader) (io.Reader, error) {
	return s2.NewReader(r), nil
}
