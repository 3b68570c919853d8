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

// calculateSparePenalty computes the largest penalty one side of an
// extension may incur while the whole alignment might still clear the
// cutoff, given the scaled penalty margin left over from the other side.
// See spec.md §4.3.
func calculateSparePenalty(
	scaledPenaltyMarginOtherSide int64,
	anchorSize int64,
	queryLengthThisSide int64,
	targetLengthThisSide int64,
	penalty *Penalty,
	cutoff *Cutoff,
) uint32 {
	shorter := queryLengthThisSide
	if targetLengthThisSide < shorter {
		shorter = targetLengthThisSide
	}

	e := int64(penalty.GapExt)
	o := int64(penalty.GapOpen)
	p := int64(cutoff.MaximumScaledPenaltyPerLength)

	numerator := e*scaledPenaltyMarginOtherSide + p*(e*(anchorSize+shorter)-o)
	denominator := int64(PrecScale)*e - p

	candidate := numerator/denominator + 1
	if candidate < o {
		candidate = o
	}
	return uint32(candidate)
}

// leftSpareByPatternIndex precomputes h(j) = max(o, floor((a*j+b)/c)) for
// j in [0, patternCount), the per-pattern-index upper bound on the left
// spare penalty the local algorithm uses to short-circuit anchors whose
// leftmost pattern cannot afford a valid extension. h(0) is pinned to 0:
// the leftmost pattern has nothing to its left to spend penalty on.
func leftSpareByPatternIndex(penalty *Penalty, maxScaledPenaltyPerLength uint32, patternSize uint32, patternCount uint32) []uint32 {
	a := int64(maxScaledPenaltyPerLength) * int64(penalty.GapExt)
	b := int64(maxScaledPenaltyPerLength) * (int64(penalty.GapExt)*int64(patternSize) - int64(penalty.GapOpen) - int64(penalty.GapExt))
	c := int64(penalty.GapExt)*int64(PrecScale) - int64(maxScaledPenaltyPerLength)

	out := make([]uint32, patternCount)
	for j := uint32(0); j < patternCount; j++ {
		v := (a*int64(j) + b) / c
		if v < int64(penalty.GapOpen) {
			v = int64(penalty.GapOpen)
		}
		out[j] = uint32(v)
	}
	if patternCount > 0 {
		out[0] = 0
	}
	return out
}
