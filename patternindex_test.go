// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package sigalign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceLocate(t *testing.T) {
	ref, err := NewReference([][]byte{
		[]byte("ACGTACGTACGT"),
		[]byte("TTTTACGTTTTT"),
	}, []string{"t0", "t1"})
	require.NoError(t, err)

	locs := ref.Locate([]byte("ACGT"), []uint32{0, 1})
	require.Len(t, locs, 2)

	assert.Equal(t, uint32(0), locs[0].TargetIndex)
	assert.Equal(t, []uint32{0, 4, 8}, locs[0].SortedPositions)

	assert.Equal(t, uint32(1), locs[1].TargetIndex)
	assert.Equal(t, []uint32{4}, locs[1].SortedPositions)
}

func TestReferenceLocateNoMatch(t *testing.T) {
	ref, err := NewReference([][]byte{[]byte("AAAAAAAA")}, nil)
	require.NoError(t, err)

	locs := ref.Locate([]byte("CCCC"), []uint32{0})
	assert.Empty(t, locs)
}

func TestReferenceLocateHashCollisionIsByteVerified(t *testing.T) {
	// Different k-mers of the same length can legitimately collide in the
	// farmhash bucket map; Locate must still only report exact matches.
	ref, err := NewReference([][]byte{[]byte("ACGTTGCAACGTACGTTGCA")}, nil)
	require.NoError(t, err)

	for _, kmer := range []string{"ACGT", "TGCA", "CGTA", "GTTG"} {
		locs := ref.Locate([]byte(kmer), []uint32{0})
		for _, loc := range locs {
			for _, pos := range loc.SortedPositions {
				assert.Equal(t, kmer, string(ref.TargetSlice(0)[pos:int(pos)+len(kmer)]))
			}
		}
	}
}
