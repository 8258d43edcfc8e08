// band.go -- slice a signature into LSH band keys
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
	"encoding/binary"
	"math/bits"
)

// BandRange is a half-open [Start, End) slice of signature positions with
// End-Start == R.
type BandRange struct {
	Start, End int
}

// BandRanges partitions K = B*R signature positions into B disjoint ranges of
// width R each, in order.
func BandRanges(b, r int) []BandRange {
	out := make([]BandRange, b)
	for i := range out {
		out[i] = BandRange{Start: i * r, End: (i + 1) * r}
	}
	return out
}

// EncodeBands renders sig's B band keys: each band is its R
// signature values, byte-swapped, encoded 8 bytes little-endian apiece and
// concatenated. The byteswap is a deliberate, preserved quirk of the wire
// format -- changing it would silently break cross-run compatibility, so it
// is not configurable.
//
// A range extending past the end of sig yields an empty band key; this should
// not occur in normal operation because the parameter selector (C8) always
// adjusts B, R so that B*R == len(sig).
func EncodeBands(sig Signature, ranges []BandRange) []string {
	keys := make([]string, len(ranges))
	for i, rg := range ranges {
		if rg.End > len(sig) {
			keys[i] = ""
			continue
		}

		buf := make([]byte, 8*(rg.End-rg.Start))
		for j, v := range sig[rg.Start:rg.End] {
			// bits.ReverseBytes64 is the byteswap step
			// (Rust's u64::swap_bytes); its interaction with the subsequent
			// little-endian encoding is what makes the byte layout part of
			// the external contract, so it is not configurable.
			binary.LittleEndian.PutUint64(buf[j*8:j*8+8], bits.ReverseBytes64(v))
		}
		keys[i] = string(buf)
	}
	return keys
}
