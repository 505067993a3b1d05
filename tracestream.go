// Package tracestream provides streaming decode of large JSON
// performance-trace documents into batches of records, without holding the
// whole document in memory.
//
// A trace document is either a bare JSON array of event records or a JSON
// object nesting such an array under a wrapper key ("traceEvents" by
// default). The decoder accepts the document as ordered text fragments of
// arbitrary size, re-assembles complete records across fragment boundaries,
// and pushes decoded batches to a consumer as soon as they balance — the
// working set stays bounded regardless of document size.
//
// # Core Features
//
//   - Shape detection from the first byte (bare array vs object wrapper)
//   - Wrapper-key location across fragment boundaries, with a bounded
//     search window
//   - String-literal and escape aware element re-assembly
//   - Transparent decompression of gzip/zstd/s2/lz4 trace files
//   - Cooperative cancellation, cyclic progress for unknown-length streams
//     and exact progress for file loads
//   - xxHash64 content digest of the loaded stream for duplicate detection
//
// # Basic Usage
//
// Loading a trace file into a model:
//
//	import "github.com/perfkit/tracestream"
//
//	err := tracestream.LoadFile("trace.json.gz", model, progress, diag)
//
// Driving the decoder directly from custom chunked input:
//
//	loader, _ := tracestream.NewLoader(model)
//	for fragment := range fragments {
//	    if _, err := loader.Write(fragment); err != nil {
//	        break
//	    }
//	}
//	err := loader.Close()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the loader and
// transport packages, simplifying the most common use cases. For advanced
// usage and fine-grained control, use those packages directly.
package tracestream

import (
	"io"

	"github.com/perfkit/tracestream/loader"
	"github.com/perfkit/tracestream/transport"
)

// NewLoader creates a streaming trace decoder pushing batches to model.
//
// This is the most flexible entry point; the returned Loader is fed directly
// via Write and Close. Configure it with loader options:
//   - loader.WithWrapperKey(key) / loader.WithLegacyMarker(marker)
//   - loader.WithKeySearchLimit(n)
//   - loader.WithProgress(sink) / loader.WithDiagnostics(sink)
//   - loader.WithCancelFunc(fn) / loader.WithFileOrigin(b)
//
// Returns an error if the configuration is invalid.
func NewLoader(model loader.Model, opts ...loader.Option) (*loader.Loader, error) {
	return loader.NewLoader(model, opts...)
}

// LoadFile decodes the trace file at path into model, reporting progress and
// failures through the given sinks (either may be nil).
//
// Compressed files (gzip, zstd, s2, lz4) are detected by content and
// decompressed on the fly. The source's size gives exact progress
// percentages, and the model is tagged via MarkLoadedFromFile on success.
// Cancellation requested through the progress sink aborts the transfer.
//
// Returns:
//   - error: Open/read failure, decode failure, or errs.ErrLoadCancelled;
//     nil on a complete successful load
func LoadFile(path string, model loader.Model, progress loader.Progress, diag loader.Diagnostics) error {
	var reader *transport.FileReader

	l, err := NewLoader(model, sinkOptions(progress, diag,
		loader.WithFileOrigin(true),
		loader.WithCancelFunc(func() {
			if reader != nil {
				reader.Cancel()
			}
		}))...)
	if err != nil {
		return err
	}

	reader, err = transport.NewFileReader(path, l,
		transport.WithDelegate(loader.NewRelay(model, progress, diag)))
	if err != nil {
		return err
	}

	return reader.Run()
}

// LoadReader decodes a trace document from r into model. Intended for
// network-origin streams: the total size is unknown, so progress reporting
// wraps cyclically instead of showing a percentage.
func LoadReader(r io.Reader, model loader.Model, progress loader.Progress, diag loader.Diagnostics) error {
	var reader *transport.StreamReader

	l, err := NewLoader(model, sinkOptions(progress, diag,
		loader.WithCancelFunc(func() {
			if reader != nil {
				reader.Cancel()
			}
		}))...)
	if err != nil {
		return err
	}

	reader, err = transport.NewStreamReader(r, l,
		transport.WithDelegate(loader.NewRelay(model, progress, diag)))
	if err != nil {
		return err
	}

	return reader.Run()
}

func sinkOptions(progress loader.Progress, diag loader.Diagnostics, opts ...loader.Option) []loader.Option {
	if progress != nil {
		opts = append(opts, loader.WithProgress(progress))
	}
	if diag != nil {
		opts = append(opts, loader.WithDiagnostics(diag))
	}

	return opts
}
