package compress

import (
	"bufio"
	"bytes"
	"io"

	"github.com/perfkit/tracestream/format"
)

// magicLen is the longest prefix needed to identify any supported format.
// S2/Snappy framed streams start with a 10-byte magic chunk.
const magicLen = 10

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}

	// S2 and Snappy share the same frame header; the 6-byte identifier that
	// follows differs ("sNaPpY" vs "S2sTwO") but s2.Reader accepts both.
	magicS2Frame = []byte{0xff, 0x06, 0x00, 0x00}
)

// Detect identifies the compression type from the leading bytes of a source.
// Sources matching no known magic are reported as CompressionNone.
func Detect(prefix []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(prefix, magicGzip):
		return format.CompressionGzip
	case bytes.HasPrefix(prefix, magicZstd):
		return format.CompressionZstd
	case bytes.HasPrefix(prefix, magicLZ4):
		return format.CompressionLZ4
	case bytes.HasPrefix(prefix, magicS2Frame):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

// Sniff peeks at the head of r, identifies its compression type, and returns
// a reader yielding the decompressed text stream. No bytes are lost: the
// peeked prefix is replayed into the wrapped decoder.
//
// Sources shorter than the longest magic are valid; whatever prefix exists
// is matched against the known magics.
//
// Returns:
//   - format.CompressionType: Detected compression type
//   - io.Reader: Decompressing reader over r (r itself for plain sources)
//   - error: Peek failure other than EOF, or decoder initialization failure
func Sniff(r io.Reader) (format.CompressionType, io.Reader, error) {
	br := bufio.NewReader(r)

	prefix, err := br.Peek(magicLen)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return format.CompressionNone, nil, err
	}

	typ := Detect(prefix)

	decoder, err := ForType(typ)
	if err != nil {
		return typ, nil, err
	}

	wrapped, err := decoder.WrapReader(br)
	if err != nil {
		return typ, nil, err
	}

	return typ, wrapped, nil
}
