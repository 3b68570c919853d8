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

func TestMergeAnchorsAbsorbsContiguousPatterns(t *testing.T) {
	// pattern 0 matches at position 0, pattern 1 (k=4) matches at
	// position 4: contiguous, so pattern 1's hit absorbs into pattern 0's
	// anchor instead of starting a new one.
	hits := [][]uint32{
		{0, 20},
		{4},
		{100},
	}
	rows := mergeAnchors(hits, 4)
	require.Len(t, rows, 3)

	require.Len(t, rows[0], 2)
	assert.Equal(t, AnchorPosition{PatternIndex: 0, TargetPosition: 0, PatternCount: 2}, rows[0][0])
	assert.Equal(t, AnchorPosition{PatternIndex: 0, TargetPosition: 20, PatternCount: 1}, rows[0][1])

	assert.Empty(t, rows[1], "the absorbed hit must not also start its own row entry")

	require.Len(t, rows[2], 1)
	assert.Equal(t, AnchorPosition{PatternIndex: 2, TargetPosition: 100, PatternCount: 1}, rows[2][0])
}

func TestMergeAnchorsNoHitsReturnsNil(t *testing.T) {
	hits := [][]uint32{{}, {}, {}}
	assert.Nil(t, mergeAnchors(hits, 4))
}

func TestBuildAnchorTable(t *testing.T) {
	ref, err := NewReference([][]byte{
		[]byte("ACGTTTTTACGTGGGG"),
	}, nil)
	require.NoError(t, err)

	query := []byte("ACGTCCCCACGT")
	table := buildAnchorTable(ref, query, 4, []uint32{0})
	require.Contains(t, table, uint32(0))

	ta := table[0]
	require.Len(t, ta.rows, 3) // len(query)/4 == 3 patterns
	assert.NotEmpty(t, ta.rows[0])
	assert.NotEmpty(t, ta.rows[2])
}
