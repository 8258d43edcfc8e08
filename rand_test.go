// rand_test.go -- test suite for rand.go
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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPermutationsDeterministic(t *testing.T) {
	p1 := NewPermutations(16)
	p2 := NewPermutations(16)

	require.Equal(t, p1.A, p2.A)
	require.Equal(t, p1.B, p2.B)
}

func TestNewPermutationsLen(t *testing.T) {
	p := NewPermutations(200)
	require.Equal(t, 200, p.Len())
	require.Len(t, p.A, 200)
	require.Len(t, p.B, 200)
}

func TestNewPermutationsRanges(t *testing.T) {
	p := NewPermutations(64)
	for _, a := range p.A {
		require.GreaterOrEqual(t, a, uint64(1))
		require.Less(t, a, mersenneP)
	}
	for _, b := range p.B {
		require.Less(t, b, mersenneP)
	}
}

func TestRand64NotConstant(t *testing.T) {
	a := rand64()
	b := rand64()
	// Astronomically unlikely to collide; guards against a broken reader
	// silently returning zero every time.
	require.NotEqual(t, a, b)
}
