// Package compress provides transparent decompression of trace sources.
//
// Performance-trace documents are routinely stored compressed (a gzipped
// trace is the common case), so the file transport sniffs the magic bytes of
// the source and wraps it in the matching streaming decoder before any text
// reaches the loader. Plain-text sources pass through untouched.
//
// Supported formats:
//   - Gzip (klauspost/compress/gzip)
//   - Zstandard (klauspost/compress/zstd, or valyala/gozstd under the
//     cgozstd build tag)
//   - S2 / Snappy framed (klauspost/compress/s2)
//   - LZ4 frame (pierrec/lz4)
//
// Detection is purely content-based; file extensions are never consulted.
package compress
