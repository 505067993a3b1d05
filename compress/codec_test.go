package compress

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"

	"github.com/perfkit/tracestream/errs"
	"github.com/perfkit/tracestream/format"
)

var sampleTrace = []byte(`{"traceEvents":[{"name":"frame","ph":"B","ts":100},{"name":"frame","ph":"E","ts":250}]}`)

// ==============================================================================
// Fixture Helpers
// ==============================================================================

func gzipCompress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func zstdCompress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func s2Compress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func lz4Compress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// ==============================================================================
// Detection
// ==============================================================================

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   format.CompressionType
	}{
		{"gzip", gzipCompress(t, sampleTrace), format.CompressionGzip},
		{"zstd", zstdCompress(t, sampleTrace), format.CompressionZstd},
		{"s2", s2Compress(t, sampleTrace), format.CompressionS2},
		{"lz4", lz4Compress(t, sampleTrace), format.CompressionLZ4},
		{"plain json", sampleTrace, format.CompressionNone},
		{"empty", nil, format.CompressionNone},
		{"short", []byte{0x1f}, format.CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Detect(tt.prefix))
		})
	}
}

// ==============================================================================
// Sniff Round-Trips
// ==============================================================================

func TestSniffRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		compress func(*testing.T, []byte) []byte
		want     format.CompressionType
	}{
		{"gzip", gzipCompress, format.CompressionGzip},
		{"zstd", zstdCompress, format.CompressionZstd},
		{"s2", s2Compress, format.CompressionS2},
		{"lz4", lz4Compress, format.CompressionLZ4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := tt.compress(t, sampleTrace)

			typ, r, err := Sniff(bytes.NewReader(source))
			require.NoError(t, err)
			require.Equal(t, tt.want, typ)

			decoded, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, sampleTrace, decoded)
		})
	}
}

func TestSniffPlainPassthrough(t *testing.T) {
	typ, r, err := Sniff(bytes.NewReader(sampleTrace))
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, typ)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, sampleTrace, data)
}

func TestSniffShortPlainSource(t *testing.T) {
	// Shorter than any magic; must pass through, not fail.
	typ, r, err := Sniff(bytes.NewReader([]byte("[]")))
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, typ)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("[]"), data)
}

func TestForTypeUnknown(t *testing.T) {
	_, err := ForType(format.CompressionType(0xff))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
}

func TestForTypeAllKnown(t *testing.T) {
	for _, typ := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionGzip,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		d, err := ForType(typ)
		require.NoError(t, err, "type %v", typ)
		require.NotNil(t, d)
	}
}
