//go:build !cgozstd

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// WrapReader returns a reader yielding the decompressed stream of r.
//
// A fresh decoder is created per source; trace loads are long-lived single
// streams, so decoder pooling buys nothing here. Concurrency is pinned to 1
// because the loader consumes the stream from a single goroutine anyway.
func (d ZstdDecoder) WrapReader(r io.Reader) (io.Reader, error) {
	decoder, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false),
	)
	if err != nil {
		return nil, err
	}

	return decoder.IOReadCloser(), nil
}
