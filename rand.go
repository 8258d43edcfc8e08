// rand.go -- random values: process-local salts and deterministic permutations
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mhlsh

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
)

// rand64 returns a cryptographically random uint64, used only for
// process-local, non-deterministic salts (e.g. the token-hash cache's
// fingerprint key). It must never be used where cross-process determinism is
// required -- see Permutations below for that.
func rand64() uint64 {
	var b [8]byte

	_, err := io.ReadFull(rand.Reader, b[:])
	if err != nil {
		panic("can't read crypto/rand")
	}

	return binary.BigEndian.Uint64(b[:])
}

// permutationSeed is the reference's fixed 32-byte seed: 32 bytes of 0x2A.
var permutationSeed = [32]byte{
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
	0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a, 0x2a,
}

// Permutations holds the two coefficient vectors used by min-wise hashing
// (C3). Once built, a Permutations value is immutable and safe to share by
// reference across goroutines.
type Permutations struct {
	A []uint64
	B []uint64
}

// NewPermutations draws K = numPerm pairs (a, b) from a deterministic PRNG
// seeded with the fixed 32-byte seed, a ~ Uniform[1, P), b ~ Uniform[0, P).
// The draw order is a[0], a[1], ..., a[K-1], b[0], ..., b[K-1] to match the
// reference implementation exactly. Two processes calling NewPermutations
// with the same numPerm always produce byte-identical output: math/rand/v2's
// ChaCha8 source is a fully specified, portable keystream, and Uint64N
// implements Lemire's unbiased bounded-sampling method deterministically
// given that stream.
func NewPermutations(numPerm int) *Permutations {
	src := mrand.NewChaCha8(permutationSeed)
	r := mrand.New(src)

	a := make([]uint64, numPerm)
	b := make([]uint64, numPerm)

	for i := range a {
		// Uniform[1, P): sample Uniform[0, P-1) then shift by one.
		a[i] = 1 + r.Uint64N(mersenneP-1)
	}
	for i := range b {
		b[i] = r.Uint64N(mersenneP)
	}

	return &Permutations{A: a, B: b}
}

// Len returns K, the number of permutations (== len(A) == len(B)).
func (p *Permutations) Len() int {
	return len(p.A)
}
