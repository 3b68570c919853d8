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

// Package sigalign enumerates every local or semi-global alignment between
// a query and a Reference whose length and penalty-per-length both clear
// a pair of absolute cutoffs, instead of ranking alignments by score the
// way a heuristic aligner does.
package sigalign

import "sync"

// minimumPatternSize is the smallest derived pattern size New will accept;
// below it, the k-mer pattern index degenerates into matching so few bytes
// per lookup that almost every query position becomes a candidate anchor,
// which defeats the point of indexing at all.
const minimumPatternSize = 4

// Mode selects which of the two algorithms Align uses.
type Mode int

const (
	// SemiGlobal requires every reported alignment to extend all the way
	// to the start or end of the query (or the corresponding end of the
	// target, whichever comes first).
	SemiGlobal Mode = iota
	// Local enumerates every alignment, including ones that do not reach
	// either sequence's edge, as long as it clears both cutoffs.
	Local
)

// Aligner holds one penalty set, one pair of cutoffs, and the pattern size
// they imply, plus a pooled workspace of reusable extension buffers. It is
// not goroutine-safe: use Clone to get an independent Aligner sharing the
// same immutable configuration for use on another goroutine.
type Aligner struct {
	penalty Penalty
	cutoff  Cutoff
	mode    Mode

	minPenaltyForPattern *MinPenaltyForPattern
	patternSize          uint32

	limited     bool
	resultLimit uint32

	ws *workspace
}

var poolAligner = &sync.Pool{New: func() interface{} { return &Aligner{} }}

// New builds an Aligner from the gap-affine penalty set (mismatch,
// gap-open, gap-extend) and the pair of absolute cutoffs (minimum
// alignment length, maximum penalty per unit length, expressed as a
// reduced fraction). It derives the k-mer pattern size the anchor index
// will use and rejects penalty/cutoff combinations whose derived pattern
// size would be too small to index usefully.
func New(mismatch, gapOpen, gapExt, minLength uint32, maxPenaltyNumerator, maxPenaltyDenominator uint32) (*Aligner, error) {
	if gapExt == 0 {
		return nil, &ErrInvalidValue{Reason: "gap extend penalty must be positive"}
	}
	if minLength == 0 {
		return nil, &ErrInvalidValue{Reason: "minimum length must be positive"}
	}
	if maxPenaltyDenominator == 0 {
		return nil, &ErrInvalidValue{Reason: "maximum penalty per length denominator must be positive"}
	}
	if maxPenaltyNumerator == 0 {
		return nil, &ErrInvalidValue{Reason: "maximum penalty per length must be greater than 0"}
	}
	if maxPenaltyNumerator >= maxPenaltyDenominator {
		return nil, &ErrInvalidValue{Reason: "maximum penalty per length must be less than 1"}
	}

	penalty := Penalty{Mismatch: mismatch, GapOpen: gapOpen, GapExt: gapExt}
	scaled := (uint64(maxPenaltyNumerator)*uint64(PrecScale) + uint64(maxPenaltyDenominator)/2) / uint64(maxPenaltyDenominator)
	cutoff := Cutoff{MinimumLength: minLength, MaximumScaledPenaltyPerLength: uint32(scaled)}

	minPenaltyForPattern := NewMinPenaltyForPattern(&penalty)
	patternSize := calculatePatternSize(&cutoff, minPenaltyForPattern)
	if patternSize < minimumPatternSize {
		return nil, &ErrLowEfficiency{PatternSize: patternSize}
	}

	algn := poolAligner.Get().(*Aligner)
	algn.penalty = penalty
	algn.cutoff = cutoff
	algn.mode = SemiGlobal
	algn.minPenaltyForPattern = minPenaltyForPattern
	algn.patternSize = patternSize
	algn.limited = false
	algn.resultLimit = 0
	if algn.ws == nil {
		algn.ws = acquireWorkspace(DefaultGrowthStrategy)
	}
	return algn, nil
}

// Recycle returns an Aligner, and its workspace, to their object pools.
// The Aligner must not be used again afterward.
func Recycle(algn *Aligner) {
	if algn == nil {
		return
	}
	releaseWorkspace(algn.ws)
	algn.ws = nil
	poolAligner.Put(algn)
}

// WithMode returns the same Aligner reconfigured to use mode; it does not
// allocate a new workspace.
func (a *Aligner) WithMode(mode Mode) *Aligner {
	a.mode = mode
	return a
}

// Mode reports the algorithm this Aligner currently uses.
func (a *Aligner) Mode() Mode { return a.mode }

// WithLimit converts the Aligner to its "with-limit" variant, capping the
// number of alignments reported per target to limit, grounded on
// original_source's switch_modes::switch_to_limited. Every other piece of
// state (penalty, cutoff, pattern size, workspace) carries over unchanged.
func (a *Aligner) WithLimit(limit uint32) *Aligner {
	a.limited = true
	a.resultLimit = limit
	return a
}

// WithoutLimit converts the Aligner back to its unlimited variant
// (switch_to_unlimited), preserving every other piece of state.
func (a *Aligner) WithoutLimit() *Aligner {
	a.limited = false
	return a
}

// Limit reports the Aligner's current per-target result cap and whether
// it is active.
func (a *Aligner) Limit() (limit uint32, limited bool) {
	return a.resultLimit, a.limited
}

// PatternSize reports the k-mer length this Aligner's cutoff derives.
func (a *Aligner) PatternSize() uint32 { return a.patternSize }

// Clone returns a new Aligner with the same penalty, cutoff, and mode but
// its own workspace, so it can run concurrently with the original on a
// different goroutine. Reference is a separate, shared, read-only object
// and does not need cloning.
func (a *Aligner) Clone() *Aligner {
	clone := poolAligner.Get().(*Aligner)
	clone.penalty = a.penalty
	clone.cutoff = a.cutoff
	clone.mode = a.mode
	clone.minPenaltyForPattern = a.minPenaltyForPattern
	clone.patternSize = a.patternSize
	clone.limited = a.limited
	clone.resultLimit = a.resultLimit
	if clone.ws == nil {
		clone.ws = acquireWorkspace(a.ws.growth)
	}
	return clone
}

// Align aligns query against every target in ref.
func (a *Aligner) Align(ref *Reference, query []byte) (*QueryAlignment, error) {
	return a.AlignWithTargetFilter(ref, query, nil)
}

// AlignWithTargetFilter aligns query against only the given target
// indices (ascending, deduplicated), or every target if targetIndices is
// nil.
func (a *Aligner) AlignWithTargetFilter(ref *Reference, query []byte, targetIndices []uint32) (*QueryAlignment, error) {
	if len(query) == 0 {
		return nil, ErrEmptySequence
	}
	if uint32(len(query)) < a.patternSize {
		return &QueryAlignment{}, nil
	}

	if targetIndices == nil {
		targetIndices = ref.allTargetIndices()
	}

	var qa *QueryAlignment
	switch a.mode {
	case Local:
		qa = alignLocal(ref, query, a.patternSize, &a.penalty, &a.cutoff, targetIndices, a.ws)
	default:
		qa = alignSemiGlobal(ref, query, a.patternSize, &a.penalty, &a.cutoff, targetIndices, a.ws)
	}
	if a.limited {
		applyResultLimit(qa, a.resultLimit)
	}
	return qa, nil
}

// AlignChecked is like Align but first verifies query contains only bytes
// present in ref's alphabet, returning ErrAlphabetMismatch otherwise.
func (a *Aligner) AlignChecked(ref *Reference, query []byte) (*QueryAlignment, error) {
	alphabet := ref.alphabet()
	for _, b := range query {
		if _, ok := alphabet[b]; !ok {
			return nil, &ErrAlphabetMismatch{Byte: b}
		}
	}
	return a.Align(ref, query)
}
