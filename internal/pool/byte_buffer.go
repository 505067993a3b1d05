package pool

import "sync"

const (
	// FragmentBufferDefaultSize is the initial capacity of pooled buffers,
	// sized for a typical transport fragment.
	FragmentBufferDefaultSize = 64 * 1024

	// FragmentBufferMaxThreshold is the largest buffer the pool retains.
	// Buffers that grew past this are dropped to avoid memory bloat after
	// decoding a document with very large records.
	FragmentBufferMaxThreshold = 8 * 1024 * 1024
)

// ByteBuffer is a minimal grow-only byte accumulator.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the specified initial capacity.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes accumulated.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer but retains its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Write appends data to the buffer, growing it as needed. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// DiscardPrefix drops the first n bytes, shifting the remainder to the front
// so the retained capacity keeps being reused. Panics if n is out of range.
func (bb *ByteBuffer) DiscardPrefix(n int) {
	if n < 0 || n > len(bb.B) {
		panic("DiscardPrefix: invalid length")
	}
	remaining := copy(bb.B, bb.B[n:])
	bb.B = bb.B[:remaining]
}

// ByteBufferPool pools ByteBuffers to minimize allocations across load
// sessions. Buffers larger than maxThreshold are not retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var fragmentPool = NewByteBufferPool(FragmentBufferDefaultSize, FragmentBufferMaxThreshold)

// GetFragmentBuffer retrieves a ByteBuffer from the default fragment pool.
func GetFragmentBuffer() *ByteBuffer {
	return fragmentPool.Get()
}

// PutFragmentBuffer returns a ByteBuffer to the default fragment pool.
func PutFragmentBuffer(bb *ByteBuffer) {
	fragmentPool.Put(bb)
}
