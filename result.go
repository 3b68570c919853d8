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

// Alignment is one reported alignment between a query and a single
// target, expressed as an RLE operation list plus the half-open
// [start, end) spans it covers on each side.
type Alignment struct {
	Penalty uint32

	QueryStart, QueryEnd   uint32
	TargetStart, TargetEnd uint32

	Operations []Operation
}

// Length is the total alignment length (sum of every operation's count).
func (a *Alignment) Length() uint32 {
	length, _, _ := stats(a.Operations)
	return length
}

// TargetAlignment is every alignment found against one target.
type TargetAlignment struct {
	TargetIndex uint32
	Label       string
	Alignments  []Alignment
}

// QueryAlignment is the full result of aligning one query against a
// Reference: zero or more alignments per target that had any.
type QueryAlignment struct {
	Targets []TargetAlignment
}

// assembled is the extend.go-facing intermediate form built by the
// semi-global/local algorithms before merging and emitting the final
// Alignment: it carries the penalty, the absolute query/target spans and
// the operation list, and its spans double as the dedup key.
type assembled struct {
	penalty                uint32
	queryStart, queryEnd   uint32
	targetStart, targetEnd uint32
	ops                    []Operation
}

func (a *assembled) dedupKey() [2]uint64 {
	return [2]uint64{
		uint64(a.queryStart)<<32 | uint64(a.queryEnd),
		uint64(a.targetStart)<<32 | uint64(a.targetEnd),
	}
}

// mergeAssembled collapses candidates that share the same query and target
// spans, keeping the lowest penalty (the first such candidate on a tie),
// then sorts survivors by QueryStart, TargetStart, QueryEnd and TargetEnd
// for deterministic output. Candidates with different spans are all kept,
// even where one span contains another. This
// is the position-keyed dedup spec.md §4.6 step 7 and §9 call for: the
// traversed-anchor tracker keeps most redundant extensions from ever being
// built, this pass catches the ones that still coincide exactly.
func mergeAssembled(candidates []*assembled) []Alignment {
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[[2]uint64]*assembled, len(candidates))
	for _, c := range candidates {
		key := c.dedupKey()
		if prev, ok := seen[key]; !ok || c.penalty < prev.penalty {
			seen[key] = c
		}
	}

	out := make([]Alignment, 0, len(seen))
	for _, c := range seen {
		out = append(out, Alignment{
			Penalty:     c.penalty,
			QueryStart:  c.queryStart,
			QueryEnd:    c.queryEnd,
			TargetStart: c.targetStart,
			TargetEnd:   c.targetEnd,
			Operations:  c.ops,
		})
	}
	sort.Slice(out, func(i, j int) bool { return alignmentLess(&out[i], &out[j]) })
	return out
}

// alignmentLess orders alignments by QueryStart, TargetStart, QueryEnd,
// then TargetEnd.
func alignmentLess(a, b *Alignment) bool {
	if a.QueryStart != b.QueryStart {
		return a.QueryStart < b.QueryStart
	}
	if a.TargetStart != b.TargetStart {
		return a.TargetStart < b.TargetStart
	}
	if a.QueryEnd != b.QueryEnd {
		return a.QueryEnd < b.QueryEnd
	}
	return a.TargetEnd < b.TargetEnd
}

// applyResultLimit caps each target's Alignments slice to at most limit
// entries, keeping the lowest-penalty alignments and breaking ties by
// QueryStart/TargetStart to match mergeAssembled's ordering. This backs
// the Aligner's with-limit variant (spec.md §6).
func applyResultLimit(qa *QueryAlignment, limit uint32) {
	for i := range qa.Targets {
		alignments := qa.Targets[i].Alignments
		if uint32(len(alignments)) <= limit {
			continue
		}

		kept := make([]Alignment, len(alignments))
		copy(kept, alignments)
		sort.SliceStable(kept, func(x, y int) bool { return kept[x].Penalty < kept[y].Penalty })
		kept = kept[:limit]
		sort.Slice(kept, func(x, y int) bool { return alignmentLess(&kept[x], &kept[y]) })
		qa.Targets[i].Alignments = kept
	}
}
