package loader

import (
	"fmt"
	"strings"

	"github.com/perfkit/tracestream/internal/options"
)

// Option represents a functional option for configuring a Loader.
type Option = options.Option[*Loader]

func applyOptions(l *Loader, opts ...Option) error {
	return options.Apply(l, opts...)
}

// WithWrapperKey sets the object key under which an object-shaped document
// nests its record array. Defaults to DefaultWrapperKey.
func WithWrapperKey(key string) Option {
	return options.New(func(l *Loader) error {
		if key == "" {
			return fmt.Errorf("wrapper key must not be empty")
		}
		if strings.ContainsAny(key, `"\`) {
			return fmt.Errorf("wrapper key %q must not contain quotes or backslashes", key)
		}
		l.keyMarker = wrapperKeyMarker(key)

		return nil
	})
}

// WithLegacyMarker sets the substring that identifies a legacy version stamp
// in the first record. Defaults to DefaultLegacyMarker.
func WithLegacyMarker(marker string) Option {
	return options.New(func(l *Loader) error {
		if marker == "" {
			return fmt.Errorf("legacy marker must not be empty")
		}
		l.legacyMarker = marker

		return nil
	})
}

// WithKeySearchLimit bounds how many bytes of an object-shaped document are
// searched for the wrapper key before the session fails. Defaults to
// DefaultKeySearchLimit.
func WithKeySearchLimit(limit int) Option {
	return options.New(func(l *Loader) error {
		if limit <= 0 {
			return fmt.Errorf("key search limit must be positive, got %d", limit)
		}
		l.keySearchLimit = limit

		return nil
	})
}

// WithProgress sets the progress sink. The sink also carries the cooperative
// cancellation flag polled on each Write.
func WithProgress(p Progress) Option {
	return options.New(func(l *Loader) error {
		if p == nil {
			return fmt.Errorf("progress sink must not be nil")
		}
		l.progress = p

		return nil
	})
}

// WithDiagnostics sets the sink for user-visible failure messages.
func WithDiagnostics(d Diagnostics) Option {
	return options.New(func(l *Loader) error {
		if d == nil {
			return fmt.Errorf("diagnostics sink must not be nil")
		}
		l.diag = d

		return nil
	})
}

// WithCancelFunc registers the callback invoked on the error/cancel path to
// stop the upstream transport from producing further fragments. Invoked at
// most once per session.
func WithCancelFunc(fn func()) Option {
	return options.NoError(func(l *Loader) {
		l.cancelFn = fn
	})
}

// WithFileOrigin marks the session as loading from a file; on successful
// Close the model is tagged via MarkLoadedFromFile.
func WithFileOrigin(fileOrigin bool) Option {
	return options.NoError(func(l *Loader) {
		l.fileOrigin = fileOrigin
	})
}
