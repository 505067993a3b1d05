package hash

import "github.com/cespare/xxhash/v2"

// Sum64 computes the xxHash64 of the given bytes in one shot.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest accumulates an xxHash64 over a sequence of fragments.
//
// The zero value is not usable; obtain instances via NewDigest.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates a new streaming xxHash64 digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write folds data into the digest. It never fails.
func (d *Digest) Write(data []byte) {
	_, _ = d.d.Write(data)
}

// Sum64 returns the hash of all bytes written so far.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}

// Reset restores the digest to its initial state.
func (d *Digest) Reset() {
	d.d.Reset()
}
