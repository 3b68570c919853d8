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

// PrecScale converts a rational penalty-per-length cutoff into an integer.
// Ensures accuracy to the fifth decimal place.
const PrecScale uint32 = 100_000

// Penalty is the gap-affine penalty set (x: mismatch, o: gap-open, e: gap-extend).
// Match always costs 0.
type Penalty struct {
	Mismatch uint32
	GapOpen  uint32
	GapExt   uint32
}

// Cutoff is the pair of absolute recall cutoffs an alignment must clear.
type Cutoff struct {
	MinimumLength                  uint32
	MaximumScaledPenaltyPerLength uint32 // round(p_max * PrecScale)
}

// IsValid reports whether an alignment of the given length and penalty
// clears both cutoffs.
func (c *Cutoff) IsValid(length, penalty uint32) bool {
	return length >= c.MinimumLength &&
		uint64(penalty)*uint64(PrecScale) <= uint64(length)*uint64(c.MaximumScaledPenaltyPerLength)
}

// MinPenaltyForPattern is the minimum penalty incurred by a mismatch or gap
// constrained to odd-length vs even-length occurrences within a pattern.
type MinPenaltyForPattern struct {
	Odd  uint32
	Even uint32
}

// NewMinPenaltyForPattern derives the odd/even minimum penalties from the
// affine penalty set.
func NewMinPenaltyForPattern(p *Penalty) *MinPenaltyForPattern {
	var odd, even uint32
	if p.Mismatch <= p.GapOpen+p.GapExt {
		odd = p.Mismatch
		if p.Mismatch*2 <= p.GapOpen+(p.GapExt*2) {
			even = p.Mismatch
		} else {
			even = p.GapOpen + (p.GapExt * 2) - p.Mismatch
		}
	} else {
		odd = p.GapOpen + p.GapExt
		even = p.GapExt
	}
	return &MinPenaltyForPattern{Odd: odd, Even: even}
}

// minPenaltyForLength returns the minimum penalty needed to put at least
// one error into each of `length` consecutive patterns: every adjacent pair
// of patterns costs at least Odd+Even, and a leftover single pattern at
// least Odd.
func (m *MinPenaltyForPattern) minPenaltyForLength(length uint32) uint32 {
	pairs := length / 2
	if length%2 == 0 {
		return pairs * (m.Odd + m.Even)
	}
	return pairs*(m.Odd+m.Even) + m.Odd
}

// calculatePatternSize derives the largest k >= 1 such that the minimum
// penalty of an error in every one of the L_min/k patterns exceeds the
// budget the cutoff allows for the window length (k * (L_min/k) + k - 1):
// any alignment at least that long which clears the cutoff must then
// contain at least one pattern matching exactly. Shorter valid alignments
// (between L_min and the window length) carry no such guarantee.
//
// The search stops at k = L_min+1: for any k > L_min the window holds no
// whole pattern, so its minimum penalty is 0 and the inequality cannot
// hold.
func calculatePatternSize(cutoff *Cutoff, minPenaltyForPattern *MinPenaltyForPattern) uint32 {
	best := uint32(0)
	limit := cutoff.MinimumLength + 1
	for k := uint32(1); k <= limit; k++ {
		length := k*(cutoff.MinimumLength/k) + k - 1
		if length == 0 {
			continue
		}
		minPenalty := uint64(minPenaltyForPattern.minPenaltyForLength(cutoff.MinimumLength / k))
		maxPenalty := uint64(length) * uint64(cutoff.MaximumScaledPenaltyPerLength) / uint64(PrecScale)
		if minPenalty > maxPenalty {
			best = k
		}
	}
	return best
}
