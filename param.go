// param.go -- LSH parameter selector
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mhlsh

import "math"

// trapezoidSubdivisions is N in the composite trapezoidal rule.
const trapezoidSubdivisions = 100

// trapezoid approximates the integral of f over [a, b] using the composite
// trapezoidal rule with trapezoidSubdivisions subdivisions. An empty interval
// integrates to 0.
func trapezoid(f func(float64) float64, a, b float64) float64 {
	if b <= a {
		return 0
	}

	n := trapezoidSubdivisions
	h := (b - a) / float64(n)

	sum := 0.0
	for i := 1; i < n; i++ {
		sum += f(a + float64(i)*h)
	}
	return h * ((f(a)+f(b))/2.0 + sum)
}

func falsePositiveArea(threshold float64, b, r uint32) float64 {
	proba := func(s float64) float64 {
		return 1.0 - math.Pow(1.0-math.Pow(s, float64(r)), float64(b))
	}
	return trapezoid(proba, 0.0, threshold)
}

func falseNegativeArea(threshold float64, b, r uint32) float64 {
	proba := func(s float64) float64 {
		return math.Pow(1.0-math.Pow(s, float64(r)), float64(b))
	}
	return trapezoid(proba, threshold, 1.0)
}

// OptimalParam chooses (B, R) minimizing
// fpWeight*FP(threshold,B,R) + fnWeight*FN(threshold,B,R) over the search
// space 1 <= B <= numPerm, 1 <= R <= numPerm/B (integer division). Ties are
// broken by the first (smallest B, then smallest R) achieving the minimum.
func OptimalParam(threshold float64, numPerm uint32, fpWeight, fnWeight float64) (b, r uint32) {
	minError := math.Inf(1)
	var optB, optR uint32

	for bb := uint32(1); bb <= numPerm; bb++ {
		maxR := numPerm / bb
		for rr := uint32(1); rr <= maxR; rr++ {
			fp := falsePositiveArea(threshold, bb, rr)
			fn := falseNegativeArea(threshold, bb, rr)
			err := fpWeight*fp + fnWeight*fn
			if err < minError {
				minError = err
				optB, optR = bb, rr
			}
		}
	}

	return optB, optR
}

// AdjustBR applies the safety clamp: if b*r exceeds
// numPerm, b is reduced to numPerm/r (integer division) and ok is false to
// signal the caller should emit a warning. The returned k is always b*r after
// adjustment and is authoritative for all downstream components.
func AdjustBR(b, r, numPerm uint32) (adjB, adjR, k uint32, ok bool) {
	if b*r > numPerm {
		return numPerm / r, r, (numPerm / r) * r, false
	}
	return b, r, b * r, true
}
