// minhash.go -- fused min-wise hashing engine
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mhlsh

import "math/bits"

const (
	// mersenneP is the Mersenne prime modulus P = 2^61 - 1 used by the
	// permutation family.
	mersenneP uint64 = 1<<61 - 1

	// signatureD is the bit-width each permuted hash is truncated to.
	signatureD = 32

	// MaxSignatureValue is M = 2^32 - 1, both the truncation mask and the
	// "no tokens seen" sentinel for a signature element.
	MaxSignatureValue uint64 = 1<<signatureD - 1
)

// Signature is a fixed-length vector of K 32-bit minima, one per
// permutation (C4).
type Signature []uint64

// Sign computes the MinHash signature of a token-hash set under the given
// permutations: S[j] = min over tokens h of (h*A[j]+B[j]) mod P & M, with
// min over the empty set defined as M.
//
// Tokens are iterated in the outer loop and permutations in the inner loop,
// folding into a running minimum in place -- this ordering is far more
// cache-friendly than transposing the loops and is part of the performance
// contract.
func Sign(tokenHashes []uint64, perm *Permutations) Signature {
	k := perm.Len()
	sig := make(Signature, k)
	for j := range sig {
		sig[j] = MaxSignatureValue
	}

	a, b := perm.A, perm.B
	for _, h := range tokenHashes {
		for j := 0; j < k; j++ {
			v := addModP(mulModP(h, a[j]), b[j]) & MaxSignatureValue
			if v < sig[j] {
				sig[j] = v
			}
		}
	}

	return sig
}

// mulModP computes (x*y) mod P for x, y < P using a 128-bit intermediate
// product (math/bits.Mul64) reduced via the Mersenne-prime folding identity
// 2^64 ≡ 8 (mod P). This avoids both silent uint64 overflow and the cost of
// math/big for every element of the hottest loop in the system.
//
// Precondition: the high word of the 128-bit product must be small enough
// that hi<<3 does not overflow uint64, which holds for our actual operands
// (a token hash < 2^32, a permutation coefficient < 2^61).
func mulModP(x, y uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	return foldModP(hi, lo)
}

// addModP computes (x+y) mod P for x, y already < P.
func addModP(x, y uint64) uint64 {
	s := x + y
	if s >= mersenneP {
		s -= mersenneP
	}
	return s
}

// foldModP reduces the 128-bit value hi*2^64+lo modulo P = 2^61-1.
//
// Since 2^64 = 8*2^61 = 8*(P+1), we have 2^64 ≡ 8 (mod P). Writing
// lo = lo_hi3*2^61 + lo_lo61 (lo_hi3 the top 3 bits of lo, lo_lo61 the bottom
// 61 bits), the whole value is congruent to (hi*8+lo_hi3) + lo_lo61 (mod P),
// because 2^61 ≡ 1 (mod P). For x, y < P that sum is below 3*P, so a short
// subtraction loop finishes the reduction.
func foldModP(hi, lo uint64) uint64 {
	loLo61 := lo & mersenneP
	loHi3 := lo >> 61

	folded := hi<<3 + loHi3 + loLo61
	for folded >= mersenneP {
		folded -= mersenneP
	}
	return folded
}
