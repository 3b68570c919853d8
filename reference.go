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

import "sort"

// Reference is an immutable, concatenated corpus of target sequences plus
// the pattern index built over it. It is built once and shared by many
// Aligners, possibly concurrently.
type Reference struct {
	concat           []byte
	targetBoundaries []uint32 // len == number of targets + 1; boundaries[i] is the start of target i
	labels           []string
	index            *PatternIndex
}

// NewReference concatenates the given target sequences (in order) and
// builds the pattern index over the result. Labels are optional; if
// provided, len(labels) must equal len(targets).
func NewReference(targets [][]byte, labels []string) (*Reference, error) {
	if len(targets) == 0 {
		return nil, ErrEmptySequence
	}
	boundaries := make([]uint32, 0, len(targets)+1)
	var total int
	for _, t := range targets {
		if len(t) == 0 {
			return nil, ErrEmptySequence
		}
		boundaries = append(boundaries, uint32(total))
		total += len(t)
	}
	boundaries = append(boundaries, uint32(total))

	concat := make([]byte, 0, total)
	for _, t := range targets {
		concat = append(concat, t...)
	}

	if labels != nil && len(labels) != len(targets) {
		return nil, &ErrInvalidValue{Reason: "labels length must match targets length"}
	}

	return &Reference{
		concat:           concat,
		targetBoundaries: boundaries,
		labels:           labels,
		index:            newPatternIndex(concat),
	}, nil
}

// NumTargets returns the number of target sequences in the reference.
func (r *Reference) NumTargets() int {
	return len(r.targetBoundaries) - 1
}

// TargetLength returns the length, in bytes, of target i.
func (r *Reference) TargetLength(i uint32) int {
	return int(r.targetBoundaries[i+1] - r.targetBoundaries[i])
}

// TargetSlice returns the bytes of target i.
func (r *Reference) TargetSlice(i uint32) []byte {
	return r.concat[r.targetBoundaries[i]:r.targetBoundaries[i+1]]
}

// Label returns the label of target i, or "" if the reference was built
// without labels.
func (r *Reference) Label(i uint32) string {
	if r.labels == nil {
		return ""
	}
	return r.labels[i]
}

// targetOfPosition returns the target index that owns a concat-relative
// position, and the position translated to be relative to that target.
func (r *Reference) targetOfPosition(pos uint32) (target int, localPos uint32) {
	// boundaries[i] <= pos < boundaries[i+1]
	i := sort.Search(len(r.targetBoundaries), func(i int) bool {
		return r.targetBoundaries[i] > pos
	}) - 1
	return i, pos - r.targetBoundaries[i]
}

// allTargetIndices returns [0, NumTargets()) in ascending order, the
// default candidate set used when no target filter is supplied.
func (r *Reference) allTargetIndices() []uint32 {
	idx := make([]uint32, r.NumTargets())
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

// alphabet returns the distinct bytes present in the concatenated
// reference, used by the checked alignment entry point to reject queries
// containing unseen symbols.
func (r *Reference) alphabet() map[byte]struct{} {
	seen := make(map[byte]struct{})
	for _, b := range r.concat {
		seen[b] = struct{}{}
	}
	return seen
}
