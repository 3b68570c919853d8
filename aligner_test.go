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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opsString renders an operation list the way the scenarios table in
// spec.md §8 writes them, e.g. "4= 1X 3=".
func opsString(ops []Operation) string {
	var b strings.Builder
	for i, op := range ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		var kind byte
		switch op.Kind {
		case OpMatch:
			kind = '='
		case OpSubst:
			kind = 'X'
		case OpIns:
			kind = 'I'
		case OpDel:
			kind = 'D'
		}
		b.WriteString(itoa(op.Count))
		b.WriteByte(kind)
	}
	return b.String()
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestAlignScenarioExactMatch(t *testing.T) {
	ref, err := NewReference([][]byte{[]byte("ACGTACGTACGT")}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 8, 1, 10) // p_max = 0.1
	require.NoError(t, err)
	defer Recycle(algn)

	qa, err := algn.Align(ref, []byte("ACGTACGT"))
	require.NoError(t, err)
	require.Len(t, qa.Targets, 1)
	require.Len(t, qa.Targets[0].Alignments, 1)

	a := qa.Targets[0].Alignments[0]
	assert.Equal(t, uint32(0), a.Penalty)
	assert.Equal(t, uint32(8), a.Length())
}

func TestAlignScenarioMismatch(t *testing.T) {
	ref, err := NewReference([][]byte{[]byte("ACGTACGTACGT")}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 8, 1, 10) // p_max = 0.1
	require.NoError(t, err)
	defer Recycle(algn)

	query := []byte("ACGTAXGT") // 'C'->'X' mismatch at index 5
	qa, err := algn.Align(ref, query)
	require.NoError(t, err)
	require.Len(t, qa.Targets, 1)
	require.NotEmpty(t, qa.Targets[0].Alignments)

	a := qa.Targets[0].Alignments[0]
	assert.Equal(t, uint32(4), a.Penalty)
	assert.Equal(t, "4= 1X 3=", opsString(a.Operations))
}

// TestAlignScenarioDeletion is spec.md §8 scenario 4: the target carries one
// extra base the query lacks, so the optimal alignment trims the query's
// reach and emits a single-base deletion (query-relative: Del consumes only
// the target) rather than a mismatch run. The target is built with no
// adjacent repeated bases, so the missing base's position is recoverable
// from the query/target content alone (deleting any other single base of
// the target would produce a different query string).
func TestAlignScenarioDeletion(t *testing.T) {
	target := "ACGTAGCTGACT" // 12 bases, index 4 ('A') is the one the query lacks
	query := "ACGTGCTGACT"   // target with index 4 removed

	ref, err := NewReference([][]byte{[]byte(target)}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 4, 7, 10) // p_max = 0.7, generous enough to clear a single gap's cost
	require.NoError(t, err)
	defer Recycle(algn)

	qa, err := algn.Align(ref, []byte(query))
	require.NoError(t, err)
	require.Len(t, qa.Targets, 1)
	require.NotEmpty(t, qa.Targets[0].Alignments)

	best := qa.Targets[0].Alignments[0]
	for _, a := range qa.Targets[0].Alignments {
		if a.Penalty < best.Penalty {
			best = a
		}
	}
	assert.Equal(t, uint32(8), best.Penalty)
	assert.Equal(t, uint32(12), best.Length())
	assert.Equal(t, "4= 1D 7=", opsString(best.Operations))
}

// TestAlignScenarioLongMaximal is spec.md §8 scenario 5: an exact match
// spanning the whole query/target pair must be reported once, as a single
// alignment covering the full length, rather than fragmented or duplicated
// across overlapping anchors.
func TestAlignScenarioLongMaximal(t *testing.T) {
	seq := strings.Repeat("A", 1000)
	ref, err := NewReference([][]byte{[]byte(seq)}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 50, 1, 100) // p_max = 0.01
	require.NoError(t, err)
	defer Recycle(algn)

	qa, err := algn.Align(ref, []byte(seq))
	require.NoError(t, err)
	require.Len(t, qa.Targets, 1)
	require.Len(t, qa.Targets[0].Alignments, 1)

	a := qa.Targets[0].Alignments[0]
	assert.Equal(t, uint32(0), a.Penalty)
	assert.Equal(t, uint32(1000), a.Length())
	assert.Equal(t, "1000=", opsString(a.Operations))
}

// TestAlignLocalModeFindsInternalMatch exercises Local mode (the other
// review comment called out zero coverage for it): a query that only
// matches a short internal run of the target, with no hope of reaching
// either sequence's edge, is only found when the Aligner actually enumerates
// local, non-edge-anchored alignments.
func TestAlignLocalModeFindsInternalMatch(t *testing.T) {
	ref, err := NewReference([][]byte{[]byte("TTTTTTTTACGTACGTTTTTTTTT")}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 4, 1, 10) // p_max = 0.1, L_min well under the query length
	require.NoError(t, err)
	algn.WithMode(Local)
	defer Recycle(algn)

	qa, err := algn.Align(ref, []byte("ACGTACGT"))
	require.NoError(t, err)
	require.Len(t, qa.Targets, 1)
	require.NotEmpty(t, qa.Targets[0].Alignments)

	best := qa.Targets[0].Alignments[0]
	for _, a := range qa.Targets[0].Alignments {
		if a.Penalty < best.Penalty {
			best = a
		}
	}
	assert.Equal(t, uint32(0), best.Penalty)
	assert.Equal(t, uint32(8), best.Length())
	assert.Equal(t, uint32(8), best.TargetStart)
	assert.Equal(t, uint32(16), best.TargetEnd)
}

// TestAlignRejectsClosedIntervalPmax is spec.md §8's boundary test "around
// PREC_SCALE rounding": p_max must lie in the open interval (0, 1), so both
// closed endpoints (numerator == 0 and numerator == denominator) are
// rejected even though PrecScale's integer rounding would otherwise let them
// slip through as 0 or PrecScale exactly.
func TestAlignRejectsClosedIntervalPmax(t *testing.T) {
	_, err := New(4, 6, 2, 8, 0, 10) // p_max = 0
	require.Error(t, err)
	var invalid *ErrInvalidValue
	assert.ErrorAs(t, err, &invalid)

	_, err = New(4, 6, 2, 8, 10, 10) // p_max = 1
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	// Comfortably inside the interval must still succeed.
	algn, err := New(4, 6, 2, 8, 1, 10)
	require.NoError(t, err)
	Recycle(algn)
}

func TestAlignScenarioMultiTarget(t *testing.T) {
	ref, err := NewReference([][]byte{
		[]byte("AAACCCGGG"),
		[]byte("TTTGGGCCC"),
	}, []string{"first", "second"})
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 6, 1, 10) // p_max = 0.1
	require.NoError(t, err)
	defer Recycle(algn)

	qa, err := algn.Align(ref, []byte("GGGCCC"))
	require.NoError(t, err)
	require.Len(t, qa.Targets, 1)
	assert.Equal(t, uint32(1), qa.Targets[0].TargetIndex)
	assert.Equal(t, uint32(0), qa.Targets[0].Alignments[0].Penalty)
}

func TestAlignRejectsLowEfficiencyPatternSize(t *testing.T) {
	// An extremely permissive cutoff (p_max close to 1) derives a
	// pattern size too small to index usefully.
	_, err := New(4, 6, 2, 4, 99, 100)
	require.Error(t, err)
	var lowEff *ErrLowEfficiency
	assert.ErrorAs(t, err, &lowEff)
}

func TestAlignQueryShorterThanPatternSizeIsEmpty(t *testing.T) {
	ref, err := NewReference([][]byte{[]byte("ACGTACGTACGTACGTACGTACGTACGTACGT")}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 20, 1, 10)
	require.NoError(t, err)
	defer Recycle(algn)

	qa, err := algn.Align(ref, []byte("AC"))
	require.NoError(t, err)
	assert.Empty(t, qa.Targets)
}

func TestAlignCheckedRejectsUnseenByte(t *testing.T) {
	ref, err := NewReference([][]byte{[]byte("ACGTACGTACGTACGT")}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 8, 1, 10)
	require.NoError(t, err)
	defer Recycle(algn)

	_, err = algn.AlignChecked(ref, []byte("ACGTNCGT"))
	require.Error(t, err)
	var mismatch *ErrAlphabetMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestAlignerCloneIsIndependent(t *testing.T) {
	algn, err := New(4, 6, 2, 8, 1, 10)
	require.NoError(t, err)
	defer Recycle(algn)

	clone := algn.Clone()
	defer Recycle(clone)

	assert.NotSame(t, algn.ws, clone.ws)
	assert.Equal(t, algn.patternSize, clone.patternSize)
}

func TestAlignIdempotent(t *testing.T) {
	ref, err := NewReference([][]byte{[]byte("ACGTACGTACGTACGTACGT")}, nil)
	require.NoError(t, err)

	algn, err := New(4, 6, 2, 8, 1, 10)
	require.NoError(t, err)
	defer Recycle(algn)

	first, err := algn.Align(ref, []byte("ACGTACGT"))
	require.NoError(t, err)
	second, err := algn.Align(ref, []byte("ACGTACGT"))
	require.NoError(t, err)

	require.Equal(t, len(first.Targets), len(second.Targets))
	for i := range first.Targets {
		require.Equal(t, len(first.Targets[i].Alignments), len(second.Targets[i].Alignments))
		for j := range first.Targets[i].Alignments {
			assert.Equal(t, first.Targets[i].Alignments[j].Penalty, second.Targets[i].Alignments[j].Penalty)
			assert.Equal(t, first.Targets[i].Alignments[j].Operations, second.Targets[i].Alignments[j].Operations)
		}
	}
}
