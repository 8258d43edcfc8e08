// lshindex.go -- banded LSH index: band-key -> set of document ids
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
	"sync"

	fasthash "github.com/opencoff/go-fasthash"
)

// defaultShards is the number of internal buckets each band's table is split
// into, to reduce lock contention under concurrent insertion.
const defaultShards = 16

// band is one band's table, sharded into fixed buckets each guarded by its
// own mutex so workers touching different shards of the same band never
// contend.
type band struct {
	shards []bandShard
	mask   uint64
}

type bandShard struct {
	mu sync.Mutex
	m  map[string]map[uint32]struct{}
}

func newBand(shards int) *band {
	if shards <= 0 {
		shards = defaultShards
	}
	// shards must be a power of two so (hash & mask) is a fast modulo.
	shards = int(nextpow2(uint64(shards)))

	b := &band{
		shards: make([]bandShard, shards),
		mask:   uint64(shards) - 1,
	}
	for i := range b.shards {
		b.shards[i].m = make(map[string]map[uint32]struct{})
	}
	return b
}

func (b *band) shardFor(key string) *bandShard {
	h := fasthash.Hash64(0, []byte(key))
	return &b.shards[h&b.mask]
}

func (b *band) insert(key string, id uint32) {
	s := b.shardFor(key)
	s.mu.Lock()
	set, ok := s.m[key]
	if !ok {
		set = make(map[uint32]struct{})
		s.m[key] = set
	}
	set[id] = struct{}{}
	s.mu.Unlock()
}

// clear drops every entry in this band, releasing its memory.
func (b *band) clear() {
	for i := range b.shards {
		s := &b.shards[i]
		s.mu.Lock()
		s.m = make(map[string]map[uint32]struct{})
		s.mu.Unlock()
	}
}

// clusters yields every value set of size >= 2 in this band.
func (b *band) clusters(yield func(map[uint32]struct{})) {
	for i := range b.shards {
		s := &b.shards[i]
		s.mu.Lock()
		for _, set := range s.m {
			if len(set) >= 2 {
				yield(set)
			}
		}
		s.mu.Unlock()
	}
}

// LSHIndex is the banded LSH index (C6): B independent band tables, each
// mapping a band key to the set of document ids that produced it.
type LSHIndex struct {
	bands []*band
}

// NewLSHIndex creates an index with numBands bands, each sharded into
// numShards buckets (numShards <= 0 selects the default).
func NewLSHIndex(numBands, numShards int) *LSHIndex {
	idx := &LSHIndex{bands: make([]*band, numBands)}
	for i := range idx.bands {
		idx.bands[i] = newBand(numShards)
	}
	return idx
}

// NumBands returns B.
func (idx *LSHIndex) NumBands() int {
	return len(idx.bands)
}

// Insert adds id to every band table under its corresponding band key.
// Idempotent on repeated (bandKey, id) pairs. Safe for concurrent use across
// distinct or identical documents.
func (idx *LSHIndex) Insert(bandKeys []string, id uint32) {
	for i, key := range bandKeys {
		idx.bands[i].insert(key, id)
	}
}

// IterCandidateClusters calls yield once per candidate cluster (a band-key
// bucket with at least two ids) across all bands. The order is unspecified
// but the set of calls is a full cover of every such bucket. Callers must not
// mutate the index concurrently with iteration.
func (idx *LSHIndex) IterCandidateClusters(yield func(map[uint32]struct{})) {
	for _, b := range idx.bands {
		b.clusters(yield)
	}
}

// ClearBand releases band i's memory; used by streaming mode after a band
// has been drained into the DSU.
func (idx *LSHIndex) ClearBand(i int) {
	idx.bands[i].clear()
}

// ClearAll releases every band's memory.
func (idx *LSHIndex) ClearAll() {
	for i := range idx.bands {
		idx.bands[i].clear()
	}
}

func nextpow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
