package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferWrite(t *testing.T) {
	bb := NewByteBuffer(8)
	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	n, err = bb.Write([]byte(" world"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, []byte("hello world"), bb.Bytes())
	require.Equal(t, 11, bb.Len())
}

func TestByteBufferDiscardPrefix(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte(`,{"a":1},{"b"`))

	bb.DiscardPrefix(9)
	require.Equal(t, []byte(`{"b"`), bb.Bytes())

	bb.DiscardPrefix(0)
	require.Equal(t, []byte(`{"b"`), bb.Bytes())

	bb.DiscardPrefix(bb.Len())
	require.Zero(t, bb.Len())
}

func TestByteBufferDiscardPrefixPanics(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("abc"))
	require.Panics(t, func() { bb.DiscardPrefix(4) })
	require.Panics(t, func() { bb.DiscardPrefix(-1) })
}

func TestByteBufferReset(t *testing.T) {
	bb := NewByteBuffer(4)
	_, _ = bb.Write([]byte("abcdefgh"))
	capBefore := cap(bb.B)
	bb.Reset()
	require.Zero(t, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

func TestByteBufferPoolReuse(t *testing.T) {
	p := NewByteBufferPool(16, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.Write([]byte("data"))
	p.Put(bb)

	bb2 := p.Get()
	require.Zero(t, bb2.Len(), "pooled buffers must come back empty")
}

func TestByteBufferPoolDropsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	bb := p.Get()
	_, _ = bb.Write(make([]byte, 1024))
	// Must not panic; the oversized buffer is simply discarded.
	p.Put(bb)
	p.Put(nil)
}

func TestDefaultFragmentPool(t *testing.T) {
	bb := GetFragmentBuffer()
	require.NotNil(t, bb)
	require.Zero(t, bb.Len())
	PutFragmentBuffer(bb)
}
