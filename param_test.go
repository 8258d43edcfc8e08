// param_test.go -- test suite for param.go
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

func TestOptimalParamKnownVector(t *testing.T) {
	b, r := OptimalParam(0.5, 128, 1.0, 1.0)
	require.Equal(t, uint32(25), b)
	require.Equal(t, uint32(5), r)
}

func TestOptimalParamEqualWeightsScaleInvariant(t *testing.T) {
	b1, r1 := OptimalParam(0.5, 128, 1.0, 1.0)
	b2, r2 := OptimalParam(0.5, 128, 0.5, 0.5)
	require.Equal(t, b1, b2)
	require.Equal(t, r1, r2)
}

func TestOptimalParamWithinBudget(t *testing.T) {
	numPerm := uint32(128)
	b, r := OptimalParam(0.5, numPerm, 1.0, 1.0)
	require.LessOrEqual(t, b*r, numPerm)
	require.GreaterOrEqual(t, b, uint32(1))
	require.GreaterOrEqual(t, r, uint32(1))
}

func TestAdjustBRNoClampWhenWithinBudget(t *testing.T) {
	b, r, k, ok := AdjustBR(25, 5, 128)
	require.True(t, ok)
	require.Equal(t, uint32(25), b)
	require.Equal(t, uint32(5), r)
	require.Equal(t, uint32(125), k)
}

func TestAdjustBRClampsWhenOverBudget(t *testing.T) {
	b, r, k, ok := AdjustBR(50, 4, 128)
	require.False(t, ok)
	require.Equal(t, uint32(32), b) // 128/4
	require.Equal(t, uint32(4), r)
	require.Equal(t, uint32(128), k)
}

func TestTrapezoidEmptyIntervalIsZero(t *testing.T) {
	f := func(x float64) float64 { return x }
	require.Zero(t, trapezoid(f, 0.5, 0.5))
	require.Zero(t, trapezoid(f, 0.8, 0.2))
}

func TestTrapezoidApproximatesLinear(t *testing.T) {
	f := func(x float64) float64 { return x }
	// integral of x over [0,1] is 0.5, exact for a linear function even with
	// a coarse trapezoidal rule.
	require.InDelta(t, 0.5, trapezoid(f, 0, 1), 1e-9)
}
