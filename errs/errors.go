// Package errs defines the sentinel errors shared across tracestream packages.
//
// All errors are defined as package-level variables so callers can use
// errors.Is to detect specific failure conditions regardless of how many
// times the error has been wrapped with additional context.
package errs

import "errors"

var (
	// ErrUnrecognizedShape indicates the first byte of the document is
	// neither '{' nor '[', so the loader cannot determine the document shape.
	ErrUnrecognizedShape = errors.New("unrecognized document shape")

	// ErrMalformedData indicates a batch of array elements failed to parse
	// as JSON, or the consumer rejected an otherwise well-formed batch.
	ErrMalformedData = errors.New("malformed trace data")

	// ErrLegacyFormat indicates the first record of the document is a string
	// containing the legacy version marker. Legacy documents are not supported.
	ErrLegacyFormat = errors.New("legacy trace format is not supported")

	// ErrWrapperKeyNotFound indicates the wrapper key was not found within
	// the configured search window of an object-shaped document.
	ErrWrapperKeyNotFound = errors.New("wrapper key not found in search window")

	// ErrLoadCancelled indicates the load was cancelled by the caller before
	// the stream completed.
	ErrLoadCancelled = errors.New("load cancelled")

	// ErrSessionDone indicates a write was attempted on a loader whose
	// session already terminated, either by Close or by a prior failure.
	ErrSessionDone = errors.New("load session already terminated")

	// ErrElementStreamEnded indicates the tokenizer observed the closing ']'
	// of the top-level array; further input belongs to the wrapper object,
	// not to the element stream.
	ErrElementStreamEnded = errors.New("element stream ended")

	// ErrUnbalancedInput indicates the tokenizer observed a '}' that closes
	// more braces than were opened, which cannot occur in a well-formed
	// array of records.
	ErrUnbalancedInput = errors.New("unbalanced brace in element stream")

	// ErrUnknownCompression indicates a compression type that has no codec
	// registered in the compress package.
	ErrUnknownCompression = errors.New("unknown compression type")
)
