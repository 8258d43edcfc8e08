// lshindex_test.go -- test suite for lshindex.go
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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLSHIndexInsertAndCluster(t *testing.T) {
	idx := NewLSHIndex(3, 4)
	require.Equal(t, 3, idx.NumBands())

	idx.Insert([]string{"k0", "k1", "k2"}, 1)
	idx.Insert([]string{"k0", "k1", "k9"}, 2)
	idx.Insert([]string{"x0", "x1", "x2"}, 3)

	var clusters []map[uint32]struct{}
	idx.IterCandidateClusters(func(c map[uint32]struct{}) {
		clusters = append(clusters, c)
	})

	require.Len(t, clusters, 2) // band 0 and band 1 both collide {1,2}
	for _, c := range clusters {
		require.Equal(t, map[uint32]struct{}{1: {}, 2: {}}, c)
	}
}

func TestLSHIndexSingletonsExcluded(t *testing.T) {
	idx := NewLSHIndex(1, 1)
	idx.Insert([]string{"only"}, 1)

	var n int
	idx.IterCandidateClusters(func(c map[uint32]struct{}) { n++ })
	require.Zero(t, n)
}

func TestLSHIndexIdempotentInsert(t *testing.T) {
	idx := NewLSHIndex(1, 2)
	idx.Insert([]string{"k"}, 1)
	idx.Insert([]string{"k"}, 1)
	idx.Insert([]string{"k"}, 2)

	var seen map[uint32]struct{}
	idx.IterCandidateClusters(func(c map[uint32]struct{}) { seen = c })
	require.Equal(t, map[uint32]struct{}{1: {}, 2: {}}, seen)
}

func TestLSHIndexClearBandAndAll(t *testing.T) {
	idx := NewLSHIndex(2, 2)
	idx.Insert([]string{"a", "b"}, 1)
	idx.Insert([]string{"a", "b"}, 2)

	idx.ClearBand(0)
	var n int
	idx.IterCandidateClusters(func(c map[uint32]struct{}) { n++ })
	require.Equal(t, 1, n) // band 1 still has its cluster

	idx.ClearAll()
	n = 0
	idx.IterCandidateClusters(func(c map[uint32]struct{}) { n++ })
	require.Zero(t, n)
}

func TestLSHIndexConcurrentInsert(t *testing.T) {
	idx := NewLSHIndex(4, 8)

	var wg sync.WaitGroup
	for id := uint32(0); id < 200; id++ {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx.Insert([]string{"shared-key", "shared-key", "shared-key", "shared-key"}, id)
		}()
	}
	wg.Wait()

	var cluster map[uint32]struct{}
	idx.IterCandidateClusters(func(c map[uint32]struct{}) { cluster = c })
	require.Len(t, cluster, 200)
}
