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

func TestCutoffIsValid(t *testing.T) {
	c := &Cutoff{MinimumLength: 50, MaximumScaledPenaltyPerLength: 20_000} // p_max = 0.2

	assert.True(t, c.IsValid(50, 10))
	assert.True(t, c.IsValid(100, 20))
	assert.False(t, c.IsValid(49, 0), "below minimum length")
	assert.False(t, c.IsValid(50, 11), "penalty-per-length above max")
	assert.True(t, c.IsValid(50, 10), "exactly at the boundary of p_max")
}

func TestMinPenaltyForPattern(t *testing.T) {
	p := &Penalty{Mismatch: 4, GapOpen: 6, GapExt: 2}
	m := NewMinPenaltyForPattern(p)

	// Mismatch (4) is cheaper than opening a gap (6+2=8), so a single
	// substitution is always the cheapest way to spend exactly one
	// odd-length unit of penalty.
	require.Equal(t, uint32(4), m.Odd)
	assert.Equal(t, uint32(4), m.Even)
}

func TestMinPenaltyForPatternGapCheaper(t *testing.T) {
	// With a very expensive mismatch, even-length penalty is cheapest
	// achieved by one gap-open plus one extend split over two positions.
	p := &Penalty{Mismatch: 100, GapOpen: 1, GapExt: 1}
	m := NewMinPenaltyForPattern(p)

	require.Equal(t, uint32(2), m.Odd) // gapOpen+gapExt
	assert.Equal(t, uint32(1), m.Even) // gapExt
}

func TestCalculatePatternSize(t *testing.T) {
	p := &Penalty{Mismatch: 4, GapOpen: 6, GapExt: 2}
	m := NewMinPenaltyForPattern(p)

	cutoff := &Cutoff{MinimumLength: 100, MaximumScaledPenaltyPerLength: 20_000} // p_max = 0.2
	size := calculatePatternSize(cutoff, m)
	assert.GreaterOrEqual(t, size, uint32(1))

	// A much stricter cutoff (lower p_max) should never yield a smaller
	// pattern size than a looser one over the same minimum length.
	stricter := &Cutoff{MinimumLength: 100, MaximumScaledPenaltyPerLength: 5_000}
	strictSize := calculatePatternSize(stricter, m)
	assert.GreaterOrEqual(t, strictSize, size)
}
