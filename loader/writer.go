package loader

import (
	"io"

	"github.com/perfkit/tracestream/format"
)

// ArrayWriter brackets an externally-driven sequence of pre-serialized
// record fragments with '[' and ']' on a destination stream, producing a
// document the Loader can read back.
//
// Only the transfer boundaries are handled here: the caller driving the
// transfer writes the record fragments (and the joining commas) itself, and
// owns per-fragment error handling. The first write error is latched and
// reported by Err.
type ArrayWriter struct {
	w   io.Writer
	err error
}

var _ TransferDelegate = (*ArrayWriter)(nil)

// NewArrayWriter creates an ArrayWriter targeting w.
func NewArrayWriter(w io.Writer) *ArrayWriter {
	return &ArrayWriter{w: w}
}

// TransferStarted writes the opening '['.
func (aw *ArrayWriter) TransferStarted() {
	aw.write([]byte{'['})
}

// TransferFinished writes the closing ']'.
func (aw *ArrayWriter) TransferFinished() {
	aw.write([]byte{']'})
}

// ChunkTransferred is a no-op; fragment writing is the caller's job.
func (aw *ArrayWriter) ChunkTransferred(ChunkSource) {}

// TransferFailed is a no-op; the caller owns transfer error handling.
func (aw *ArrayWriter) TransferFailed(ChunkSource, format.TransportErrorCode) {}

// Err returns the first error encountered writing a bracket, if any.
func (aw *ArrayWriter) Err() error {
	return aw.err
}

func (aw *ArrayWriter) write(p []byte) {
	if aw.err != nil {
		return
	}
	_, aw.err = aw.w.Write(p)
}
