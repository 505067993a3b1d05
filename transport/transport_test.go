package transport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/perfkit/tracestream/errs"
	"github.com/perfkit/tracestream/format"
	"github.com/perfkit/tracestream/loader"
)

// sinkWriter collects everything pumped into it.
type sinkWriter struct {
	buf    bytes.Buffer
	writes int
	closed bool
	err    error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.writes++

	return s.buf.Write(p)
}

func (s *sinkWriter) Close() error {
	s.closed = true
	return nil
}

// recordingDelegate records lifecycle callbacks; cancelOnChunk makes it
// request cancellation from inside the first chunk callback.
type recordingDelegate struct {
	starts        int
	chunks        int
	finishes      int
	failures      []format.TransportErrorCode
	totals        []int64
	cancelOnChunk bool
}

func (d *recordingDelegate) TransferStarted() { d.starts++ }

func (d *recordingDelegate) ChunkTransferred(src loader.ChunkSource) {
	d.chunks++
	d.totals = append(d.totals, src.TotalSize())
	if d.cancelOnChunk {
		src.Cancel()
	}
}

func (d *recordingDelegate) TransferFinished() { d.finishes++ }

func (d *recordingDelegate) TransferFailed(src loader.ChunkSource, code format.TransportErrorCode) {
	d.failures = append(d.failures, code)
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func TestFileReaderPlainSource(t *testing.T) {
	doc := `[{"a":1},{"b":2}]`
	path := writeTempFile(t, "trace.json", []byte(doc))

	sink := &sinkWriter{}
	delegate := &recordingDelegate{}
	r, err := NewFileReader(path, sink, WithDelegate(delegate), WithChunkSize(4))
	require.NoError(t, err)

	require.NoError(t, r.Run())
	require.Equal(t, doc, sink.buf.String())
	require.True(t, sink.closed)
	require.Equal(t, 1, delegate.starts)
	require.Equal(t, 1, delegate.finishes)
	require.Empty(t, delegate.failures)
	require.GreaterOrEqual(t, delegate.chunks, len(doc)/4)
	require.Equal(t, int64(len(doc)), delegate.totals[0], "total is the raw file size")
}

func TestFileReaderGzipSource(t *testing.T) {
	doc := `{"traceEvents":[{"name":"frame","ts":100}]}`

	var compressed bytes.Buffer
	gw := gzip.NewWriter(&compressed)
	_, err := gw.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	path := writeTempFile(t, "trace.json.gz", compressed.Bytes())

	sink := &sinkWriter{}
	r, err := NewFileReader(path, sink)
	require.NoError(t, err)

	require.NoError(t, r.Run())
	require.Equal(t, doc, sink.buf.String(), "text arrives decompressed")
	require.Equal(t, int64(compressed.Len()), r.TotalSize())
	require.Equal(t, int64(compressed.Len()), r.LoadedSize(), "progress counts raw bytes")
}

func TestFileReaderNotFound(t *testing.T) {
	sink := &sinkWriter{}
	delegate := &recordingDelegate{}
	r, err := NewFileReader(filepath.Join(t.TempDir(), "missing.json"), sink, WithDelegate(delegate))
	require.NoError(t, err)

	require.Error(t, r.Run())
	require.Equal(t, []format.TransportErrorCode{format.TransportErrNotFound}, delegate.failures)
	require.Zero(t, delegate.finishes)
	require.False(t, sink.closed)
}

func TestFileReaderCancelMidTransfer(t *testing.T) {
	doc := strings.Repeat(`{"a":1},`, 100)
	path := writeTempFile(t, "trace.json", []byte("["+doc+"]"))

	sink := &sinkWriter{}
	delegate := &recordingDelegate{cancelOnChunk: true}
	r, err := NewFileReader(path, sink, WithDelegate(delegate), WithChunkSize(16))
	require.NoError(t, err)

	err = r.Run()
	require.ErrorIs(t, err, errs.ErrLoadCancelled)
	require.Equal(t, 1, delegate.chunks, "no chunks after cancellation")
	require.Equal(t, []format.TransportErrorCode{format.TransportErrAborted}, delegate.failures)
	require.Zero(t, delegate.finishes)
}

func TestStreamReaderUnknownTotal(t *testing.T) {
	doc := `[{"a":1}]`

	sink := &sinkWriter{}
	delegate := &recordingDelegate{}
	r, err := NewStreamReader(strings.NewReader(doc), sink,
		WithDelegate(delegate), WithName("devtools-stream"), WithChunkSize(3))
	require.NoError(t, err)

	require.NoError(t, r.Run())
	require.Equal(t, doc, sink.buf.String())
	require.Equal(t, "devtools-stream", r.Name())
	for _, total := range delegate.totals {
		require.Zero(t, total, "stream sources report no total")
	}
}

func TestFileReaderStopsWhenLoaderRejects(t *testing.T) {
	path := writeTempFile(t, "trace.json", []byte(`[{"a":1}]`))

	sink := &sinkWriter{err: errs.ErrSessionDone}
	delegate := &recordingDelegate{}
	r, err := NewFileReader(path, sink, WithDelegate(delegate))
	require.NoError(t, err)

	require.ErrorIs(t, r.Run(), errs.ErrSessionDone)
	require.Equal(t, []format.TransportErrorCode{format.TransportErrAborted}, delegate.failures)
}

func TestClassifyOpenError(t *testing.T) {
	require.Equal(t, format.TransportErrNotFound, classifyOpenError(os.ErrNotExist))
	require.Equal(t, format.TransportErrNotReadable, classifyOpenError(os.ErrPermission))
	require.Equal(t, format.TransportErrOther, classifyOpenError(os.ErrClosed))
}

func TestInvalidTransportOptions(t *testing.T) {
	sink := &sinkWriter{}

	_, err := NewFileReader("x", sink, WithChunkSize(0))
	require.Error(t, err)
	_, err = NewStreamReader(strings.NewReader(""), sink, WithDelegate(nil))
	require.Error(t, err)
}
