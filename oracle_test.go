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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oracleMinPenalty computes, by Gotoh's O(mn) gap-affine DP, the minimum
// penalty of any semi-global alignment of query against some substring of
// target (free ends on the target, query fully consumed): this is the
// reference truth the semi-global algorithm's enumerated alignments must
// never beat (and, when one of its anchors covers the optimum, must
// reach).
func oracleMinPenalty(query, target []byte, p *Penalty) uint32 {
	n, m := len(query), len(target)
	const inf = math.MaxInt32

	M := make([][]int, n+1)
	I := make([][]int, n+1)
	D := make([][]int, n+1)
	for i := range M {
		M[i] = make([]int, m+1)
		I[i] = make([]int, m+1)
		D[i] = make([]int, m+1)
	}

	for j := 0; j <= m; j++ {
		M[0][j] = 0 // free ends on the target's left side
		I[0][j] = inf
		D[0][j] = inf
	}
	for i := 1; i <= n; i++ {
		M[i][0] = inf
		I[i][0] = inf
		D[i][0] = int(p.GapOpen) + i*int(p.GapExt)
	}

	min3 := func(a, b, c int) int {
		v := a
		if b < v {
			v = b
		}
		if c < v {
			v = c
		}
		return v
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := 0
			if query[i-1] != target[j-1] {
				sub = int(p.Mismatch)
			}
			M[i][j] = min3(M[i-1][j-1], I[i-1][j-1], D[i-1][j-1]) + sub

			openI := M[i][j-1]
			if openI < inf {
				openI += int(p.GapOpen) + int(p.GapExt)
			}
			extI := I[i][j-1]
			if extI < inf {
				extI += int(p.GapExt)
			}
			I[i][j] = min(openI, extI)

			openD := M[i-1][j]
			if openD < inf {
				openD += int(p.GapOpen) + int(p.GapExt)
			}
			extD := D[i-1][j]
			if extD < inf {
				extD += int(p.GapExt)
			}
			D[i][j] = min(openD, extD)
		}
	}

	best := inf
	for j := 0; j <= m; j++ { // free end on the target's right side too
		best = min(best, min3(M[n][j], I[n][j], D[n][j]))
	}
	return uint32(best)
}

// fixedEndPenalty computes, by Gotoh's O(mn) gap-affine DP with both ends
// anchored (no free rows or columns), the minimum penalty of aligning query
// against target in full. This is the building block oracleBestLocalPenalty
// uses to score every substring pair a local alignment could report.
func fixedEndPenalty(query, target []byte, p *Penalty) uint32 {
	n, m := len(query), len(target)
	const inf = math.MaxInt32

	M := make([][]int, n+1)
	I := make([][]int, n+1)
	D := make([][]int, n+1)
	for i := range M {
		M[i] = make([]int, m+1)
		I[i] = make([]int, m+1)
		D[i] = make([]int, m+1)
	}

	M[0][0] = 0
	I[0][0], D[0][0] = inf, inf
	for j := 1; j <= m; j++ {
		M[0][j] = inf
		I[0][j] = inf
		D[0][j] = int(p.GapOpen) + j*int(p.GapExt)
	}
	for i := 1; i <= n; i++ {
		M[i][0] = inf
		D[i][0] = inf
		I[i][0] = int(p.GapOpen) + i*int(p.GapExt)
	}

	min3 := func(a, b, c int) int {
		v := a
		if b < v {
			v = b
		}
		if c < v {
			v = c
		}
		return v
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := 0
			if query[i-1] != target[j-1] {
				sub = int(p.Mismatch)
			}
			M[i][j] = min3(M[i-1][j-1], I[i-1][j-1], D[i-1][j-1]) + sub

			openI := M[i][j-1]
			if openI < inf {
				openI += int(p.GapOpen) + int(p.GapExt)
			}
			extI := I[i][j-1]
			if extI < inf {
				extI += int(p.GapExt)
			}
			I[i][j] = min(openI, extI)

			openD := M[i-1][j]
			if openD < inf {
				openD += int(p.GapOpen) + int(p.GapExt)
			}
			extD := D[i-1][j]
			if extD < inf {
				extD += int(p.GapExt)
			}
			D[i][j] = min(openD, extD)
		}
	}

	return uint32(min3(M[n][m], I[n][m], D[n][m]))
}

// oracleBestLocalPenalty brute-forces every substring pair of query and
// target (tractable only for the small inputs these tests use), scores each
// with fixedEndPenalty, and returns the minimum penalty among substrings
// whose (length, penalty) clears cutoff: the reference truth Local mode's
// enumerated alignments must never beat, and must reach whenever some
// anchor can seed it (§4.7's VPC enumeration is exact, not heuristic).
// length follows the same max(query_consumed, target_consumed) convention
// extend.go's run/runValid use when checking a candidate against cutoff.
func oracleBestLocalPenalty(query, target []byte, p *Penalty, cutoff *Cutoff) (uint32, bool) {
	best := uint32(math.MaxUint32)
	found := false
	for qs := 0; qs <= len(query); qs++ {
		for qe := qs + 1; qe <= len(query); qe++ {
			for ts := 0; ts <= len(target); ts++ {
				for te := ts + 1; te <= len(target); te++ {
					length := uint32(qe - qs)
					if uint32(te-ts) > length {
						length = uint32(te - ts)
					}
					if length < cutoff.MinimumLength {
						continue
					}
					penalty := fixedEndPenalty(query[qs:qe], target[ts:te], p)
					if !cutoff.IsValid(length, penalty) {
						continue
					}
					if penalty < best {
						best = penalty
						found = true
					}
				}
			}
		}
	}
	return best, found
}

// TestLocalOracleAgreesWithLocalModeOnSmallInputs compares the Local-mode
// Aligner's best penalty with the brute-force oracle's on cases whose best
// alignment lies inside the target, away from both of its edges.
func TestLocalOracleAgreesWithLocalModeOnSmallInputs(t *testing.T) {
	penalty := &Penalty{Mismatch: 4, GapOpen: 6, GapExt: 2}
	cutoff := &Cutoff{MinimumLength: 3, MaximumScaledPenaltyPerLength: 50_000} // p_max = 0.5, L_min well under every query length below

	cases := []struct{ query, target string }{
		{"ACGTAC", "TTTACGTACTTT"},
		{"ACGTAXGT", "GGACGTACGTGG"},
		{"ACGACGT", "TTACGTACGTTT"},
	}

	for _, c := range cases {
		oracle, ok := oracleBestLocalPenalty([]byte(c.query), []byte(c.target), penalty, cutoff)
		require.True(t, ok, "query=%q target=%q: test case must have some substring pair clearing the cutoff", c.query, c.target)

		ref, err := NewReference([][]byte{[]byte(c.target)}, nil)
		require.NoError(t, err)

		algn, err := New(penalty.Mismatch, penalty.GapOpen, penalty.GapExt, cutoff.MinimumLength, cutoff.MaximumScaledPenaltyPerLength, PrecScale)
		require.NoError(t, err)
		algn.WithMode(Local)

		qa, err := algn.Align(ref, []byte(c.query))
		require.NoError(t, err)
		Recycle(algn)

		require.NotEmpty(t, qa.Targets, "query=%q target=%q: oracle found penalty %d but sigalign found nothing", c.query, c.target, oracle)

		best := uint32(math.MaxUint32)
		for _, a := range qa.Targets[0].Alignments {
			if a.Penalty < best {
				best = a.Penalty
			}
		}
		assert.LessOrEqual(t, oracle, best, "sigalign must never report a penalty below the true optimum")
		assert.Equal(t, oracle, best, "sigalign's anchor-seeded search must reach the same optimum the brute-force oracle finds")
	}
}

func TestOracleAgreesWithSemiGlobalOnSmallInputs(t *testing.T) {
	penalty := &Penalty{Mismatch: 4, GapOpen: 6, GapExt: 2}
	cutoff := &Cutoff{MinimumLength: 4, MaximumScaledPenaltyPerLength: 50_000} // generous p_max = 0.5

	cases := []struct{ query, target string }{
		{"ACGTACGT", "ACGTACGT"},
		{"ACGTACGT", "ACGTTCGT"},
		{"ACGTACGT", "ACGACGT"},
		{"ACGT", "TTTTACGTTTTT"},
	}

	for _, c := range cases {
		oracle := oracleMinPenalty([]byte(c.query), []byte(c.target), penalty)
		if !cutoff.IsValid(uint32(len(c.query)), oracle) {
			continue // the oracle optimum itself doesn't clear the cutoff; sigalign need not find anything
		}

		ref, err := NewReference([][]byte{[]byte(c.target)}, nil)
		require.NoError(t, err)

		algn, err := New(penalty.Mismatch, penalty.GapOpen, penalty.GapExt, cutoff.MinimumLength, cutoff.MaximumScaledPenaltyPerLength, PrecScale)
		require.NoError(t, err)

		qa, err := algn.Align(ref, []byte(c.query))
		require.NoError(t, err)
		Recycle(algn)

		require.NotEmpty(t, qa.Targets, "query=%q target=%q: oracle found penalty %d but sigalign found nothing", c.query, c.target, oracle)

		best := uint32(math.MaxUint32)
		for _, a := range qa.Targets[0].Alignments {
			if a.Penalty < best {
				best = a.Penalty
			}
		}
		assert.LessOrEqual(t, oracle, best, "sigalign must never report a penalty below the true optimum")
	}
}
