package loader

import (
	json "github.com/goccy/go-json"

	"github.com/perfkit/tracestream/format"
)

// Record is one decoded array element. Its shape is opaque to this package;
// the consuming Model interprets it.
type Record = json.RawMessage

// Model is the consumer of decoded record batches, typically the trace model
// that stores and visualizes the records. The Loader references a Model for
// the lifetime of one decode session but never owns it.
type Model interface {
	// BeginCollecting signals that record delivery is about to start.
	// freshStart is true when the session replaces any previous document.
	BeginCollecting(freshStart bool)

	// Receive accepts one batch of decoded records. Returning an error
	// rejects the batch and terminates the session as malformed input.
	Receive(batch []Record) error

	// StreamComplete signals that no further batches will be delivered,
	// whether the session succeeded or failed.
	StreamComplete()

	// Reset discards all partially accumulated state. A failed load must
	// never leave the model holding half a document.
	Reset()

	// MarkLoadedFromFile tags the loaded document as file-originated.
	MarkLoadedFromFile()
}

// Progress is the sink for load-progress reporting and the carrier of the
// cooperative cancellation flag. Passed in explicitly; there is no ambient
// progress singleton.
type Progress interface {
	SetTitle(title string)
	SetTotalWork(units int64)
	SetWorked(units int64, label string)
	IsCanceled() bool
	Done()
}

// Diagnostics receives user-visible, non-fatal failure messages.
type Diagnostics interface {
	Error(msg string)
}

// ChunkSource is the transport-side view a lifecycle delegate gets on each
// chunk callback: enough to cancel the transfer and to read exact progress
// for sources whose total size is known.
type ChunkSource interface {
	// Cancel requests that the transport stop producing further chunks.
	Cancel()

	// TotalSize reports the total source size in bytes, or 0 if unknown
	// (network-origin streams).
	TotalSize() int64

	// LoadedSize reports the raw source bytes consumed so far.
	LoadedSize() int64

	// Name identifies the source in user-facing messages.
	Name() string
}

// TransferDelegate observes a chunked transfer's lifecycle. Relay and
// ArrayWriter both implement it; transports invoke the callbacks in order:
// TransferStarted, ChunkTransferred zero or more times, then exactly one of
// TransferFinished or TransferFailed.
type TransferDelegate interface {
	TransferStarted()
	ChunkTransferred(src ChunkSource)
	TransferFinished()
	TransferFailed(src ChunkSource, code format.TransportErrorCode)
}

type nopProgress struct{}

func (nopProgress) SetTitle(string) {}

func (nopProgress) SetTotalWork(int64) {}

func (nopProgress) SetWorked(int64, string) {}

func (nopProgress) IsCanceled() bool { return false }

func (nopProgress) Done() {}

type nopDiagnostics struct{}

func (nopDiagnostics) Error(string) {}
