package loader

import (
	"fmt"

	"github.com/perfkit/tracestream/format"
)

// Relay bridges a chunked transport's lifecycle callbacks to progress
// reporting and consumer cleanup.
//
// For sources with a known total size (file-origin loads) it reports exact
// progress, superseding the Loader's own wrapped indeterminate counter. It
// also polls for cancellation on every chunk and maps transport failures to
// user-facing messages.
//
// Cancellation observed here aborts the transport directly rather than going
// through the Loader's error path: the transport is the one stopping, so the
// Relay only has to close out progress and reset the model.
type Relay struct {
	model    Model
	progress Progress
	diag     Diagnostics
	title    string
}

var _ TransferDelegate = (*Relay)(nil)

// NewRelay creates a Relay reporting to the given sinks. progress and diag
// may be nil, in which case the corresponding reporting is skipped.
func NewRelay(model Model, progress Progress, diag Diagnostics) *Relay {
	if progress == nil {
		progress = nopProgress{}
	}
	if diag == nil {
		diag = nopDiagnostics{}
	}

	return &Relay{
		model:    model,
		progress: progress,
		diag:     diag,
		title:    "Loading trace...",
	}
}

// TransferStarted sets the loading progress title.
func (r *Relay) TransferStarted() {
	r.progress.SetTitle(r.title)
}

// ChunkTransferred is invoked after each chunk reaches the decoder. It
// aborts the transfer if cancellation was requested, and otherwise updates
// exact progress for sources whose total size is known.
func (r *Relay) ChunkTransferred(src ChunkSource) {
	if r.progress.IsCanceled() {
		src.Cancel()
		r.progress.Done()
		r.model.Reset()

		return
	}

	if total := src.TotalSize(); total > 0 {
		r.progress.SetTotalWork(total)
		r.progress.SetWorked(src.LoadedSize(), "")
	}
}

// TransferFinished marks progress done.
func (r *Relay) TransferFinished() {
	r.progress.Done()
}

// TransferFailed closes out progress, resets the model, and reports the
// mapped failure. A user-initiated abort is deliberately silent; every other
// code produces a message naming the source.
func (r *Relay) TransferFailed(src ChunkSource, code format.TransportErrorCode) {
	r.progress.Done()
	r.model.Reset()

	var msg string
	switch code {
	case format.TransportErrNotFound:
		msg = fmt.Sprintf("File %q not found.", src.Name())
	case format.TransportErrNotReadable:
		msg = fmt.Sprintf("File %q is not readable.", src.Name())
	case format.TransportErrAborted:
		// Silent: the user asked for this.
	default:
		msg = fmt.Sprintf("Unknown error reading file %q.", src.Name())
	}

	if msg != "" {
		r.diag.Error(msg)
	}
}
