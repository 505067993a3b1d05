// Package transport delivers trace documents to the loader as ordered text
// fragments.
//
// Two pumps are provided: FileReader for on-disk sources (known total size,
// exact progress, transparent decompression of gzip/zstd/s2/lz4 traces) and
// StreamReader for network-style sources of unknown length. Both push
// fixed-size chunks into an io.WriteCloser — normally a loader.Loader — and
// report their lifecycle to any number of loader.TransferDelegate observers.
//
// Delivery is strictly ordered and single-producer: Run drives the whole
// transfer from the calling goroutine, so the loader's serialization
// requirement holds by construction. Cancellation is cooperative: a delegate
// (or the loader's cancel callback) calls Cancel on the source, and the pump
// notices before reading the next chunk.
package transport

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/perfkit/tracestream/compress"
	"github.com/perfkit/tracestream/errs"
	"github.com/perfkit/tracestream/format"
	"github.com/perfkit/tracestream/internal/options"
	"github.com/perfkit/tracestream/loader"
)

// DefaultChunkSize is the fragment size pumped into the loader.
const DefaultChunkSize = 4 * 1024 * 1024

// transfer carries the state shared by both pump kinds and implements
// loader.ChunkSource for delegate callbacks.
type transfer struct {
	name      string
	chunkSize int
	dst       io.WriteCloser
	delegates []loader.TransferDelegate
	total     int64
	loaded    int64
	cancelled bool
}

// Option represents a functional option for configuring a transport pump.
type Option = options.Option[*transfer]

// WithChunkSize sets the fragment size. Defaults to DefaultChunkSize.
func WithChunkSize(n int) Option {
	return options.New(func(t *transfer) error {
		if n <= 0 {
			return errors.New("chunk size must be positive")
		}
		t.chunkSize = n

		return nil
	})
}

// WithName sets the source name used in delegate error messages.
func WithName(name string) Option {
	return options.NoError(func(t *transfer) {
		t.name = name
	})
}

// WithDelegate registers a lifecycle observer. May be given multiple times;
// delegates are notified in registration order.
func WithDelegate(d loader.TransferDelegate) Option {
	return options.New(func(t *transfer) error {
		if d == nil {
			return errors.New("delegate must not be nil")
		}
		t.delegates = append(t.delegates, d)

		return nil
	})
}

// Cancel requests that the pump stop before delivering the next chunk.
func (t *transfer) Cancel() { t.cancelled = true }

// TotalSize reports the raw source size, or 0 when unknown.
func (t *transfer) TotalSize() int64 { return t.total }

// LoadedSize reports the raw source bytes consumed so far. For compressed
// sources this counts compressed bytes, matching TotalSize's unit.
func (t *transfer) LoadedSize() int64 { return t.loaded }

// Name identifies the source in user-facing messages.
func (t *transfer) Name() string { return t.name }

func (t *transfer) started() {
	for _, d := range t.delegates {
		d.TransferStarted()
	}
}

func (t *transfer) chunkDone() {
	for _, d := range t.delegates {
		d.ChunkTransferred(t)
	}
}

func (t *transfer) finished() {
	for _, d := range t.delegates {
		d.TransferFinished()
	}
}

func (t *transfer) failed(code format.TransportErrorCode) {
	for _, d := range t.delegates {
		d.TransferFailed(t, code)
	}
}

// pump sniffs the source's compression, then forwards decompressed chunks to
// the destination until EOF, failure, or cancellation. TransferStarted has
// already been sent by the caller.
func (t *transfer) pump(raw io.Reader) error {
	_, text, err := compress.Sniff(raw)
	if err != nil {
		t.failed(format.TransportErrOther)

		return err
	}

	buf := make([]byte, t.chunkSize)
	for {
		if t.cancelled {
			t.failed(format.TransportErrAborted)

			return errs.ErrLoadCancelled
		}

		n, rerr := text.Read(buf)
		if n > 0 {
			if _, werr := t.dst.Write(buf[:n]); werr != nil {
				// The loader terminated the session and already reported it;
				// the transfer just aborts quietly.
				t.failed(format.TransportErrAborted)

				return werr
			}
			t.chunkDone()
		}

		switch {
		case rerr == nil:
		case errors.Is(rerr, io.EOF):
			if t.cancelled {
				t.failed(format.TransportErrAborted)

				return errs.ErrLoadCancelled
			}
			if cerr := t.dst.Close(); cerr != nil {
				t.failed(format.TransportErrAborted)

				return cerr
			}
			t.finished()

			return nil
		default:
			t.failed(format.TransportErrOther)

			return rerr
		}
	}
}

// FileReader pumps a trace file into a destination writer chunk by chunk.
type FileReader struct {
	transfer
	path string
}

// NewFileReader creates a pump for the file at path writing into dst.
//
// Parameters:
//   - path: Source file; compression is sniffed from its content
//   - dst: Destination for decompressed text fragments, typically a Loader
//   - opts: Optional configuration (chunk size, delegates, display name)
//
// Returns:
//   - *FileReader: Pump ready to Run
//   - error: Invalid option values
func NewFileReader(path string, dst io.WriteCloser, opts ...Option) (*FileReader, error) {
	r := &FileReader{
		transfer: transfer{
			name:      filepath.Base(path),
			chunkSize: DefaultChunkSize,
			dst:       dst,
		},
		path: path,
	}
	if err := options.Apply(&r.transfer, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Run drives the transfer to completion on the calling goroutine.
//
// Returns:
//   - error: Open or read failure (also reported to delegates with a mapped
//     TransportErrorCode), a destination write failure, or
//     errs.ErrLoadCancelled when cancelled
func (r *FileReader) Run() error {
	r.started()

	f, err := os.Open(r.path)
	if err != nil {
		r.failed(classifyOpenError(err))

		return err
	}
	defer f.Close()

	if fi, serr := f.Stat(); serr == nil {
		r.total = fi.Size()
	}

	return r.pump(&countingReader{r: f, n: &r.loaded})
}

// StreamReader pumps an arbitrary reader into a destination writer. The
// source's total size is unknown, so delegates see TotalSize() == 0 and the
// loader's wrapped indeterminate progress applies.
type StreamReader struct {
	transfer
	src io.Reader
}

// NewStreamReader creates a pump for src writing into dst.
func NewStreamReader(src io.Reader, dst io.WriteCloser, opts ...Option) (*StreamReader, error) {
	r := &StreamReader{
		transfer: transfer{
			name:      "stream",
			chunkSize: DefaultChunkSize,
			dst:       dst,
		},
		src: src,
	}
	if err := options.Apply(&r.transfer, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Run drives the transfer to completion on the calling goroutine.
func (r *StreamReader) Run() error {
	r.started()

	return r.pump(&countingReader{r: r.src, n: &r.loaded})
}

// classifyOpenError maps an os.Open failure to a transport error code.
func classifyOpenError(err error) format.TransportErrorCode {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return format.TransportErrNotFound
	case errors.Is(err, os.ErrPermission):
		return format.TransportErrNotReadable
	default:
		return format.TransportErrOther
	}
}

// countingReader counts raw source bytes as they are consumed, before any
// decompression, so LoadedSize matches TotalSize's unit.
type countingReader struct {
	r io.Reader
	n *int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	*c.n += int64(n)

	return n, err
}
