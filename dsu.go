// dsu.go -- disjoint-set union over document ids
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
	"encoding/json"
	"os"
	"strconv"
	"sync"
)

// DSU is a disjoint-set union (union-find) over uint32 document ids, union by
// rank with iterative path-compressed find. Any id referenced
// by Find or Union auto-initializes to a self-parent with rank 0. A DSU is
// safe for concurrent use.
type DSU struct {
	mu     sync.Mutex
	parent map[uint32]uint32
	rank   map[uint32]uint32
	edges  uint64
}

// NewDSU returns an empty DSU.
func NewDSU() *DSU {
	return &DSU{
		parent: make(map[uint32]uint32),
		rank:   make(map[uint32]uint32),
	}
}

// Find returns x's class representative, auto-initializing x if unseen and
// compressing the path from x to the root in a second pass. The walk is
// iterative, never recursive, so it cannot overflow the stack on
// pathologically long chains.
func (d *DSU) Find(x uint32) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.find(x)
}

// find is Find's unlocked core; callers must hold d.mu.
func (d *DSU) find(x uint32) uint32 {
	root, ok := d.parent[x]
	if !ok {
		d.parent[x] = x
		return x
	}

	// First pass: walk to the root without mutating anything.
	for d.parent[root] != root {
		root = d.parent[root]
	}

	// Second pass: reseat every node on the path from x to the root.
	for x != root {
		next := d.parent[x]
		d.parent[x] = root
		x = next
	}

	return root
}

// Union merges x and y's classes, if distinct, by rank: the higher-rank root
// adopts the other; ties adopt into px (x's root) and bump its rank. edges is
// incremented only when the union actually merges two distinct classes.
func (d *DSU) Union(x, y uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	px := d.find(x)
	py := d.find(y)
	if px == py {
		return
	}

	d.edges++

	switch {
	case d.rank[px] > d.rank[py]:
		d.parent[py] = px
	case d.rank[px] < d.rank[py]:
		d.parent[px] = py
	default:
		d.parent[py] = px
		d.rank[px]++
	}
}

// BatchFind returns the current root of every id in ids, in order.
func (d *DSU) BatchFind(ids []uint32) []uint32 {
	out := make([]uint32, len(ids))
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, id := range ids {
		out[i] = d.find(id)
	}
	return out
}

// Edges returns the number of Union calls that actually merged two distinct
// classes.
func (d *DSU) Edges() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edges
}

// Reset empties the DSU entirely.
func (d *DSU) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.parent = make(map[uint32]uint32)
	d.rank = make(map[uint32]uint32)
	d.edges = 0
}

// dsuWire is the on-disk JSON shape: decimal-string keys so
// that map[uint32]uint32 round-trips through encoding/json, which requires
// string-typed map keys.
type dsuWire struct {
	Parent map[string]uint32 `json:"parent"`
	Rank   map[string]uint32 `json:"rank"`
	Edges  uint64            `json:"edges"`
}

// Dump serializes the DSU to path as JSON: {"parent":{...},"rank":{...},"edges":N}.
func (d *DSU) Dump(path string) error {
	d.mu.Lock()
	w := dsuWire{
		Parent: make(map[string]uint32, len(d.parent)),
		Rank:   make(map[string]uint32, len(d.rank)),
		Edges:  d.edges,
	}
	for k, v := range d.parent {
		w.Parent[strconv.FormatUint(uint64(k), 10)] = v
	}
	for k, v := range d.rank {
		w.Rank[strconv.FormatUint(uint64(k), 10)] = v
	}
	d.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return errSerialize("dump", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(&w); err != nil {
		return errSerialize("dump", path, err)
	}
	return nil
}

// LoadDSU deserializes a DSU previously written by Dump. edges defaults to 0
// if absent, for forward compatibility with older dumps.
func LoadDSU(path string) (*DSU, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errSerialize("load", path, err)
	}
	defer f.Close()

	var w dsuWire
	if err := json.NewDecoder(f).Decode(&w); err != nil {
		return nil, errSerialize("load", path, err)
	}

	d := &DSU{
		parent: make(map[uint32]uint32, len(w.Parent)),
		rank:   make(map[uint32]uint32, len(w.Rank)),
		edges:  w.Edges,
	}
	for k, v := range w.Parent {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, errSerialize("load", path, err)
		}
		d.parent[uint32(id)] = v
	}
	for k, v := range w.Rank {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, errSerialize("load", path, err)
		}
		d.rank[uint32(id)] = v
	}

	return d, nil
}

// UnionCluster unions every member of a candidate cluster toward its
// smallest id, the pivot used by the orchestrator's cluster-ingestion helper
// Clusters of fewer than two members are a no-op.
func (d *DSU) UnionCluster(ids map[uint32]struct{}) {
	if len(ids) < 2 {
		return
	}

	var pivot uint32
	first := true
	for id := range ids {
		if first || id < pivot {
			pivot = id
			first = false
		}
	}

	for id := range ids {
		if id != pivot {
			d.Union(pivot, id)
		}
	}
}
