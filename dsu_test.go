// dsu_test.go -- test suite for dsu.go
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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDSUFindAutoInitializes(t *testing.T) {
	d := NewDSU()
	require.Equal(t, uint32(5), d.Find(5))
	require.Equal(t, uint32(5), d.Find(5))
}

func TestDSUUnionMergesClasses(t *testing.T) {
	d := NewDSU()
	d.Union(1, 2)
	require.Equal(t, d.Find(1), d.Find(2))
	require.Equal(t, uint64(1), d.Edges())
}

func TestDSUUnionSameClassNoOp(t *testing.T) {
	d := NewDSU()
	d.Union(1, 2)
	d.Union(2, 1)
	require.Equal(t, uint64(1), d.Edges())
}

func TestDSUChainCompresses(t *testing.T) {
	d := NewDSU()
	d.Union(1, 2)
	d.Union(2, 3)
	d.Union(3, 4)

	root := d.Find(1)
	require.Equal(t, root, d.Find(2))
	require.Equal(t, root, d.Find(3))
	require.Equal(t, root, d.Find(4))

	// After compression every node should point straight at the root.
	d.mu.Lock()
	for _, id := range []uint32{1, 2, 3, 4} {
		require.Equal(t, root, d.parent[id])
	}
	d.mu.Unlock()
}

func TestDSUBatchFind(t *testing.T) {
	d := NewDSU()
	d.Union(10, 20)

	roots := d.BatchFind([]uint32{10, 20, 30})
	require.Equal(t, roots[0], roots[1])
	require.NotEqual(t, roots[0], roots[2])
}

func TestDSUReset(t *testing.T) {
	d := NewDSU()
	d.Union(1, 2)
	d.Reset()

	require.Zero(t, d.Edges())
	require.Equal(t, uint32(1), d.Find(1))
	require.NotEqual(t, d.Find(1), d.Find(2)) // 1 and 2 are no longer unioned
}

func TestDSUDumpLoadRoundTrip(t *testing.T) {
	d := NewDSU()
	d.Union(1, 2)
	d.Union(3, 4)
	d.Union(2, 4)

	path := filepath.Join(t.TempDir(), "uf.json")
	require.NoError(t, d.Dump(path))

	loaded, err := LoadDSU(path)
	require.NoError(t, err)

	require.Equal(t, d.Edges(), loaded.Edges())
	for _, id := range []uint32{1, 2, 3, 4} {
		require.Equal(t, d.Find(id), loaded.Find(id))
	}
}

func TestLoadDSUMissingEdgesDefaultsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"parent":{"1":1},"rank":{"1":0}}`), 0o644))

	loaded, err := LoadDSU(path)
	require.NoError(t, err)
	require.Zero(t, loaded.Edges())
}

func TestUnionClusterPivotsOnMinimum(t *testing.T) {
	d := NewDSU()
	d.UnionCluster(map[uint32]struct{}{5: {}, 2: {}, 9: {}})

	require.Equal(t, uint32(2), d.Find(5))
	require.Equal(t, uint32(2), d.Find(9))
	require.Equal(t, uint32(2), d.Find(2))
}

func TestUnionClusterSingletonNoOp(t *testing.T) {
	d := NewDSU()
	d.UnionCluster(map[uint32]struct{}{7: {}})
	require.Zero(t, d.Edges())
}
