package loader

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/perfkit/tracestream/errs"
	"github.com/perfkit/tracestream/format"
	"github.com/perfkit/tracestream/internal/hash"
	"github.com/perfkit/tracestream/internal/pool"
	"github.com/perfkit/tracestream/jsontext"
)

const (
	// DefaultWrapperKey is the object key under which exported traces nest
	// their record array.
	DefaultWrapperKey = "traceEvents"

	// DefaultLegacyMarker is the substring identifying a legacy document: in
	// the old format the first array element is a version stamp string.
	DefaultLegacyMarker = "Version"

	// DefaultKeySearchLimit bounds the wrapper-key search window. An
	// object-shaped document whose wrapper key has not appeared within this
	// many bytes fails the session instead of buffering without bound.
	DefaultKeySearchLimit = 16 * 1024 * 1024

	// progressTotal is the wrap-around modulus for stream-origin progress,
	// where the true total size is unknown. File-origin loads get exact
	// totals from the Relay instead.
	progressTotal = 100000

	progressLabel = "bytes loaded"
)

type decodeState uint8

const (
	stateInitial decodeState = iota
	stateLookingForKey
	stateReadingElements
)

// Loader incrementally decodes a JSON trace document delivered as ordered
// text fragments, pushing batches of records to its Model.
//
// One Loader serves exactly one decode session. It is not safe for
// concurrent use: Write calls must be serialized by the caller.
type Loader struct {
	model    Model
	progress Progress
	diag     Diagnostics
	cancelFn func()

	keyMarker      []byte // `"<wrapperKey>":`
	legacyMarker   string
	keySearchLimit int
	fileOrigin     bool

	tok    *jsontext.Tokenizer
	keyBuf *pool.ByteBuffer // working buffer while looking for the wrapper key
	digest *hash.Digest

	state       decodeState
	shape       format.DocumentShape
	firstBatch  bool
	doneReading bool // tokenizer observed the end of the record array
	cancelled   bool // session terminated by error or cancellation
	closed      bool
	loadedBytes int64
	err         error
}

// NewLoader creates a Loader that delivers decoded batches to model.
//
// Parameters:
//   - model: Consumer of decoded record batches (required)
//   - opts: Optional configuration (see Option and the With* constructors)
//
// Returns:
//   - *Loader: Loader ready for one decode session
//   - error: Nil model or invalid option values
func NewLoader(model Model, opts ...Option) (*Loader, error) {
	if model == nil {
		return nil, fmt.Errorf("loader: model must not be nil")
	}

	l := &Loader{
		model:          model,
		progress:       nopProgress{},
		diag:           nopDiagnostics{},
		keyMarker:      wrapperKeyMarker(DefaultWrapperKey),
		legacyMarker:   DefaultLegacyMarker,
		keySearchLimit: DefaultKeySearchLimit,
		digest:         hash.NewDigest(),
		firstBatch:     true,
	}
	if err := applyOptions(l, opts...); err != nil {
		return nil, err
	}

	l.tok = jsontext.NewTokenizer(l.writeBalanced)

	return l, nil
}

// Write consumes the next document fragment.
//
// Fragments must arrive strictly in transport order, one at a time. Write
// reports progress, polls for cancellation, advances the shape-detection
// state machine, and pushes any completed batches to the Model before
// returning.
//
// Returns:
//   - int: len(fragment) on success
//   - error: errs.ErrLoadCancelled when cancellation was observed,
//     errs.ErrSessionDone on writes after the session terminated, or the
//     terminal decode error (errs.ErrUnrecognizedShape, errs.ErrMalformedData,
//     errs.ErrLegacyFormat, errs.ErrWrapperKeyNotFound)
func (l *Loader) Write(fragment []byte) (int, error) {
	if l.cancelled || l.closed {
		// A transport may deliver a few more fragments after cancellation
		// until the cancel callback takes effect; they are dropped here
		// without re-reporting the failure.
		return 0, errs.ErrSessionDone
	}

	l.loadedBytes += int64(len(fragment))
	l.digest.Write(fragment)
	l.progress.SetWorked(l.loadedBytes%progressTotal, progressLabel)

	if l.progress.IsCanceled() {
		l.fail(errs.ErrLoadCancelled, "") // user-initiated, deliberately silent
		return 0, l.err
	}

	if err := l.consume(fragment); err != nil {
		return 0, err
	}

	return len(fragment), nil
}

// Close signals that all fragments were delivered successfully. It tags
// file-origin sessions on the model, signals stream completion, and closes
// out progress. Called at most once per session; a Close after a failed
// session releases resources and returns the terminal error.
func (l *Loader) Close() error {
	l.releaseBuffers()

	if l.cancelled {
		return l.err
	}
	if l.closed {
		return errs.ErrSessionDone
	}
	l.closed = true

	if l.fileOrigin {
		l.model.MarkLoadedFromFile()
	}
	l.model.StreamComplete()
	l.progress.Done()

	return nil
}

// Digest returns the xxHash64 of every fragment byte observed so far. Stable
// across fragmentations of the same document; usable by consumers to detect
// a reload of an identical source.
func (l *Loader) Digest() uint64 {
	return l.digest.Sum64()
}

// LoadedBytes returns the total fragment bytes observed so far.
func (l *Loader) LoadedBytes() int64 {
	return l.loadedBytes
}

// Shape reports the detected document shape. Valid once the first fragment
// has been consumed; zero before that.
func (l *Loader) Shape() format.DocumentShape {
	return l.shape
}

// consume advances the state machine with one fragment.
func (l *Loader) consume(fragment []byte) error {
	if l.state == stateInitial {
		if len(fragment) == 0 {
			return nil
		}
		switch fragment[0] {
		case '{':
			l.state = stateLookingForKey
			l.shape = format.ShapeObject
			l.keyBuf = pool.GetFragmentBuffer()
		case '[':
			l.state = stateReadingElements
			l.shape = format.ShapeArray
		default:
			l.fail(errs.ErrUnrecognizedShape,
				fmt.Sprintf("malformed trace input: document starts with %q, expected '{' or '['", fragment[0]))

			return l.err
		}
	}

	if l.state == stateLookingForKey {
		prevLen := l.keyBuf.Len()
		_, _ = l.keyBuf.Write(fragment)

		// Resume the search just far enough back to catch a marker that
		// straddles the fragment boundary.
		from := prevLen - len(l.keyMarker)
		if from < 0 {
			from = 0
		}

		idx := bytes.Index(l.keyBuf.Bytes()[from:], l.keyMarker)
		if idx < 0 {
			if l.keyBuf.Len() > l.keySearchLimit {
				l.fail(errs.ErrWrapperKeyNotFound,
					fmt.Sprintf("malformed trace data: wrapper key %s not found in the first %d bytes",
						string(l.keyMarker), l.keySearchLimit))

				return l.err
			}

			return nil // await the next fragment
		}

		rest := l.keyBuf.Bytes()[from+idx+len(l.keyMarker):]
		l.state = stateReadingElements
		// The tokenizer copies the remainder into its own buffer, so the
		// working buffer can go back to the pool right after this write.
		err := l.forward(rest)
		pool.PutFragmentBuffer(l.keyBuf)
		l.keyBuf = nil

		return err
	}

	return l.forward(fragment)
}

// forward hands element text to the tokenizer and surfaces any terminal
// error raised by the batch callback.
func (l *Loader) forward(fragment []byte) error {
	if l.doneReading {
		return nil // text after the record array belongs to the wrapper object
	}

	werr := l.tok.Write(fragment)
	if l.cancelled {
		return l.err
	}
	if werr != nil {
		// The array closed (or went unbalanced, which ends it just the
		// same); remaining input is ignored.
		l.doneReading = true
	}

	return nil
}

// writeBalanced handles one tokenizer emission: a run of complete,
// comma-joined element texts.
func (l *Loader) writeBalanced(balanced []byte) {
	if l.cancelled {
		return
	}

	first := l.firstBatch

	var text []byte
	if first {
		// Stream start. The emission already opens with the array's leading
		// '[', so appending ']' yields a parseable document.
		l.model.BeginCollecting(true)
		text = make([]byte, 0, len(balanced)+1)
		text = append(text, balanced...)
	} else {
		// Later emissions open with the comma joining them to the previous
		// batch; strip through it and re-bracket.
		if comma := bytes.IndexByte(balanced, ','); comma >= 0 {
			balanced = balanced[comma+1:]
		}
		text = make([]byte, 0, len(balanced)+2)
		text = append(text, '[')
		text = append(text, balanced...)
	}
	text = append(text, ']')

	// Unmarshal into raw records does not syntax-check the element bodies,
	// so validate the whole document first.
	var batch []Record
	if !json.Valid(text) {
		l.fail(errs.ErrMalformedData, "malformed trace data: invalid JSON in batch")

		return
	}
	if err := json.Unmarshal(text, &batch); err != nil {
		l.fail(errs.ErrMalformedData, "malformed trace data: "+err.Error())

		return
	}

	if first {
		if len(batch) > 0 && l.looksLikeLegacyStamp(batch[0]) {
			l.fail(errs.ErrLegacyFormat, "legacy trace format is not supported")

			return
		}
		l.firstBatch = false
	}

	if err := l.model.Receive(batch); err != nil {
		l.fail(errs.ErrMalformedData, "malformed trace data: "+err.Error())
	}
}

// looksLikeLegacyStamp reports whether the first record is a version stamp
// string marking the unsupported legacy document format.
func (l *Loader) looksLikeLegacyStamp(rec Record) bool {
	if len(rec) == 0 || rec[0] != '"' {
		return false
	}

	var s string
	if err := json.Unmarshal(rec, &s); err != nil {
		return false
	}

	return strings.Contains(s, l.legacyMarker)
}

// fail runs the error/cancel path exactly once per session: report the
// message if any, tell the model the stream is over and make it discard
// partial state, stop the upstream transport, and close out progress.
//
// The guard is the same cancelled flag that Write checks, so a second
// failure (or a fragment racing in after cancellation) can never re-report.
func (l *Loader) fail(sentinel error, msg string) {
	if l.cancelled {
		return
	}
	l.cancelled = true
	l.err = sentinel

	if msg != "" {
		l.diag.Error(msg)
	}
	l.model.StreamComplete()
	l.model.Reset()
	if fn := l.cancelFn; fn != nil {
		l.cancelFn = nil
		fn()
	}
	l.progress.Done()
}

func (l *Loader) releaseBuffers() {
	if l.tok != nil {
		l.tok.Release()
		l.tok = nil
	}
	if l.keyBuf != nil {
		pool.PutFragmentBuffer(l.keyBuf)
		l.keyBuf = nil
	}
}

// wrapperKeyMarker builds the literal text whose appearance locates the
// record array inside an object-shaped document.
func wrapperKeyMarker(key string) []byte {
	return []byte(`"` + key + `":`)
}
