package compress

import "io"

// NoOpDecoder passes plain-text sources through untouched.
type NoOpDecoder struct{}

var _ Decoder = (*NoOpDecoder)(nil)

// NewNoOpDecoder creates a new pass-through decoder.
func NewNoOpDecoder() NoOpDecoder {
	return NoOpDecoder{}
}

// WrapReader returns r unchanged.
func (d NoOpDecoder) WrapReader(r io.Reader) (io.Reader, error) {
	return r, nil
}
