// Package jsontext provides incremental lexing of top-level JSON array
// elements from a fragmented text stream.
//
// The Tokenizer consumes arbitrarily-chunked fragments of a JSON array body
// and invokes a callback with runs of complete, comma-joined elements as soon
// as they become balanced. It holds only the unbalanced tail in memory, so
// documents far larger than RAM can be lexed with a bounded working set.
package jsontext

import (
	"github.com/perfkit/tracestream/errs"
	"github.com/perfkit/tracestream/internal/pool"
)

// Tokenizer re-assembles complete top-level array elements from ordered text
// fragments with arbitrary boundaries.
//
// Balance is tracked over braces only: array elements are expected to be JSON
// objects (as trace records are), and brackets inside object values are
// ignored. Delimiters inside string literals never affect balance; escape
// sequences within strings are honored, including escapes split across
// fragment boundaries.
//
// Whenever one or more elements have closed since the last emission, the
// callback receives the accumulated text of those elements. The very first
// emission includes whatever prefix preceded the first element (typically the
// array's leading '['); later emissions begin with the joining comma left
// over from the previous run. A single element is never split across two
// callback invocations.
//
// A ']' at zero brace depth is the end of the element stream: pending
// balanced text is flushed and Write returns errs.ErrElementStreamEnded for
// that and every later call.
//
// The Tokenizer is not safe for concurrent use. One instance serves exactly
// one decode session; call Release when the session is over.
type Tokenizer struct {
	callback     func(balanced []byte)
	buf          *pool.ByteBuffer
	index        int // scan position within buf, resumed across writes
	lastBalanced int // offset just past the most recent balance-closing '}'
	balance      int
	ended        bool
}

// NewTokenizer creates a Tokenizer that invokes callback with each run of
// balanced element text. The slice passed to the callback aliases the
// internal buffer and is only valid until the next Write.
func NewTokenizer(callback func(balanced []byte)) *Tokenizer {
	return &Tokenizer{
		callback: callback,
		buf:      pool.GetFragmentBuffer(),
	}
}

// Write feeds the next fragment to the tokenizer, invoking the callback zero
// or more times.
//
// Returns:
//   - nil: fragment consumed; more input is expected
//   - errs.ErrElementStreamEnded: the array's closing ']' was observed; the
//     caller should stop forwarding input
//   - errs.ErrUnbalancedInput: a '}' closed more braces than were opened
func (t *Tokenizer) Write(fragment []byte) error {
	if t.ended {
		return errs.ErrElementStreamEnded
	}

	_, _ = t.buf.Write(fragment)
	buf := t.buf.Bytes()

	i := t.index
	for i < len(buf) {
		switch buf[i] {
		case '"':
			end, ok := scanStringEnd(buf, i)
			if !ok {
				// String literal still open; resume at the quote once more
				// input arrives.
				t.index = i
				t.report()

				return nil
			}
			i = end

			continue
		case '{':
			t.balance++
		case '}':
			t.balance--
			if t.balance < 0 {
				t.ended = true
				t.report()

				return errs.ErrUnbalancedInput
			}
			if t.balance == 0 {
				t.lastBalanced = i + 1
			}
		case ']':
			if t.balance == 0 {
				t.ended = true
				t.report()

				return errs.ErrElementStreamEnded
			}
		}
		i++
	}

	t.index = i
	t.report()

	return nil
}

// Remainder returns the unprocessed tail currently buffered, i.e. text that
// is not yet part of any balanced element. The slice aliases the internal
// buffer.
func (t *Tokenizer) Remainder() []byte {
	return t.buf.Bytes()
}

// Reset restores the tokenizer to its initial state so a fresh element
// stream can be lexed with the same instance.
func (t *Tokenizer) Reset() {
	t.buf.Reset()
	t.index = 0
	t.lastBalanced = 0
	t.balance = 0
	t.ended = false
}

// Release returns the internal buffer to the pool. The tokenizer must not be
// used afterwards.
func (t *Tokenizer) Release() {
	pool.PutFragmentBuffer(t.buf)
	t.buf = nil
}

// report emits the balanced prefix, if any, and rebases scan state onto the
// retained tail.
func (t *Tokenizer) report() {
	if t.lastBalanced == 0 {
		return
	}

	t.callback(t.buf.Bytes()[:t.lastBalanced])

	t.buf.DiscardPrefix(t.lastBalanced)
	t.index -= t.lastBalanced
	t.lastBalanced = 0
}

// scanStringEnd scans a string literal opened at buf[start] and returns the
// offset just past its closing quote. ok is false when the literal is still
// incomplete, including when the buffer ends in the middle of an escape.
func scanStringEnd(buf []byte, start int) (end int, ok bool) {
	for i := start + 1; i < len(buf); i++ {
		switch buf[i] {
		case '\\':
			i++ // skip escaped character; if it is past the buffer the loop exits
		case '"':
			return i + 1, true
		}
	}

	return 0, false
}
