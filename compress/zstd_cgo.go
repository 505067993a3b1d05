//go:build cgozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// WrapReader returns a reader yielding the decompressed stream of r.
func (d ZstdDecoder) WrapReader(r io.Reader) (io.Reader, error) {
	return gozstd.NewReader(r), nil
}
