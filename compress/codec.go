package compress

import (
	"fmt"
	"io"

	"github.com/perfkit/tracestream/errs"
	"github.com/perfkit/tracestream/format"
)

// Decoder wraps a raw source stream in a decompressing reader.
//
// Implementations are stateless; the returned reader owns all decompression
// state for one source. The reader reports decompression failures (truncated
// or corrupt input) through its Read method.
type Decoder interface {
	// WrapReader returns a reader yielding the decompressed byte stream of r.
	WrapReader(r io.Reader) (io.Reader, error)
}

// ForType returns the Decoder for the given compression type.
//
// Returns:
//   - Decoder: Stateless decoder for the compression type
//   - error: errs.ErrUnknownCompression for types without a registered codec
func ForType(typ format.CompressionType) (Decoder, error) {
	switch typ {
	case format.CompressionNone:
		return NoOpDecoder{}, nil
	case format.CompressionGzip:
		return GzipDecoder{}, nil
	case format.CompressionZstd:
		return ZstdDecoder{}, nil
	case format.CompressionS2:
		return S2Decoder{}, nil
	case format.CompressionLZ4:
		return LZ4Decoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrUnknownCompression, typ)
	}
}
