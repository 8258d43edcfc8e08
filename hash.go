// hash.go -- token hasher with opportunistic memoization
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
	"crypto/sha1"
	"encoding/binary"
	"sync"

	"github.com/dchest/siphash"
	lru "github.com/opencoff/golang-lru"
)

// defaultHashCacheSize bounds the token-hash memoization cache (§4.2).
const defaultHashCacheSize = 1 << 16

// HashToken maps a token byte string to a 32-bit unsigned integer by taking
// the first 4 bytes of its SHA-1 digest, interpreted little-endian. This is
// the bit-exact contract here -- any digest whose first 4 bytes
// match is correct, but the algorithm itself (SHA-1) is fixed, not a choice.
func HashToken(tok []byte) uint32 {
	sum := sha1.Sum(tok)
	return binary.LittleEndian.Uint32(sum[:4])
}

// TokenHasher wraps HashToken with an ARC memoization cache, keyed by a
// SipHash-2-4 fingerprint of the token rather than the token bytes themselves
// (which may be long n-grams). Each entry also keeps its token, and a hit
// whose token differs is treated as a miss: a fingerprint collision only costs
// a recomputation from the original bytes, so this can never change the
// bit-exact result, only throughput.
//
// A TokenHasher is safe for concurrent use.
type TokenHasher struct {
	mu    sync.Mutex
	cache *lru.ARCCache
	k0    uint64
	k1    uint64
}

// NewTokenHasher creates a hasher with a memoization cache that holds at most
// size entries (size <= 0 selects a default).
func NewTokenHasher(size int) (*TokenHasher, error) {
	if size <= 0 {
		size = defaultHashCacheSize
	}

	cache, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}

	return &TokenHasher{
		cache: cache,
		k0:    rand64(),
		k1:    rand64(),
	}, nil
}

// hashEntry is one cached hash together with the token it was computed from.
type hashEntry struct {
	tok string
	v   uint32
}

// Hash returns HashToken(tok), serving from the memoization cache when
// possible.
func (h *TokenHasher) Hash(tok []byte) uint32 {
	fp := siphash.Hash(h.k0, h.k1, tok)

	h.mu.Lock()
	e, ok := h.cache.Get(fp)
	h.mu.Unlock()
	if ok {
		if ent := e.(hashEntry); ent.tok == string(tok) {
			return ent.v
		}
	}

	v := HashToken(tok)

	h.mu.Lock()
	h.cache.Add(fp, hashEntry{tok: string(tok), v: v})
	h.mu.Unlock()

	return v
}

// HashAll hashes every token in the set, returning the widened-to-64-bit
// hashes consumed by the minhash engine (C4).
func (h *TokenHasher) HashAll(tokens map[string]struct{}) []uint64 {
	out := make([]uint64, 0, len(tokens))
	for tok := range tokens {
		out = append(out, uint64(h.Hash([]byte(tok))))
	}
	return out
}
