package compress

// ZstdDecoder decompresses Zstandard sources.
//
// Two implementations exist behind build tags, mirroring the two zstd
// libraries this module depends on:
//   - default: pure-Go klauspost/compress/zstd
//   - cgozstd tag: valyala/gozstd bindings to libzstd, for workloads where
//     cgo is acceptable and decompression throughput dominates
type ZstdDecoder struct{}

var _ Decoder = (*ZstdDecoder)(nil)

// NewZstdDecoder creates a new Zstandard decoder.
func NewZstdDecoder() ZstdDecoder {
	return ZstdDecoder{}
}
