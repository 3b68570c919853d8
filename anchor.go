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

// AnchorPosition is one non-overlapping anchor within a target: the query
// patterns [patternIndex, patternIndex+patternCount) match target bytes
// [targetPosition, targetPosition+patternCount*patternSize) exactly.
type AnchorPosition struct {
	PatternIndex   uint32
	TargetPosition uint32
	PatternCount   uint32
}

// anchorState tracks the per-anchor runtime bookkeeping the local and
// semi-global algorithms need: whether each side has already been
// extended (and to what), whether the anchor has been traversed by another
// anchor's extension (and is therefore skippable), and whether the local
// algorithm has registered it for enumeration.
type anchorState struct {
	left, right extensionState
	traversed   bool
	registered  bool
}

type extensionState struct {
	done bool
	ext  *Extension
	// failed is true when the wavefront exhausted its budget without
	// producing a usable extension (e.g. semi-global couldn't reach the
	// sequence end); the anchor side is then dead for this query.
	failed bool
}

// targetAnchors holds, for one target, the anchor rows grouped by pattern
// index, plus the flat per-anchor runtime state addressed by
// (patternIndex, positionIndex).
type targetAnchors struct {
	// rows[j] holds the anchors whose PatternIndex == j, ascending by
	// TargetPosition.
	rows  [][]AnchorPosition
	state [][]anchorState
}

// AnchorIndex addresses one anchor within a target's anchor table.
type AnchorIndex struct {
	PatternIndex int
	Position     int
}

// buildAnchorTable decomposes query into non-overlapping k-mer patterns,
// locates each in the candidate targets, and merges contiguous matches
// into runs per spec.md §4.2.
func buildAnchorTable(ref *Reference, query []byte, patternSize uint32, targetIndices []uint32) map[uint32]*targetAnchors {
	k := int(patternSize)
	p := len(query) / k
	if p == 0 {
		return nil
	}

	// perTargetHits[ti][j] = ascending positions where pattern j matches in target ti.
	perTargetHits := make(map[uint32][][]uint32, len(targetIndices))
	for _, ti := range targetIndices {
		perTargetHits[ti] = make([][]uint32, p)
	}

	for j := 0; j < p; j++ {
		pattern := query[j*k : (j+1)*k]
		locs := ref.Locate(pattern, targetIndices)
		for _, loc := range locs {
			perTargetHits[loc.TargetIndex][j] = loc.SortedPositions
		}
	}

	out := make(map[uint32]*targetAnchors, len(targetIndices))
	for _, ti := range targetIndices {
		hits := perTargetHits[ti]
		rows := mergeAnchors(hits, uint32(k))
		if rows == nil {
			continue
		}
		state := make([][]anchorState, len(rows))
		for j := range rows {
			state[j] = make([]anchorState, len(rows[j]))
		}
		out[ti] = &targetAnchors{rows: rows, state: state}
	}
	return out
}

// mergeAnchors turns per-pattern position lists into rows of AnchorPosition
// grouped by (surviving) pattern index, absorbing a later pattern's anchor
// into an earlier one when they are contiguous: anchor at pattern j+1,
// position p+k absorbs into anchor at pattern j, position p.
func mergeAnchors(hits [][]uint32, k uint32) [][]AnchorPosition {
	p := len(hits)

	// live maps a target position to the anchor (from an earlier pattern
	// index) whose run currently ends there, so a hit of the current
	// pattern at that position extends it; it is rebuilt per pattern index.
	live := make(map[uint32]*AnchorPosition) // position -> anchor currently ending here
	rows := make([][]AnchorPosition, p)
	any := false

	for j := 0; j < p; j++ {
		positions := hits[j]
		if len(positions) == 0 {
			live = make(map[uint32]*AnchorPosition)
			continue
		}
		any = true

		row := make([]AnchorPosition, 0, len(positions))
		// next maps each run's new end position (hit position + k) to its
		// anchor, for the following pattern index to look up; hits that
		// extend an existing anchor are not appended to row at all, they
		// just update that anchor in place.
		next := make(map[uint32]*AnchorPosition, len(positions))
		for _, pos := range positions {
			if prev, ok := live[pos]; ok {
				prev.PatternCount++
				next[pos+k] = prev
				continue
			}
			row = append(row, AnchorPosition{PatternIndex: uint32(j), TargetPosition: pos, PatternCount: 1})
		}
		rows[j] = row
		// Only now, with row's backing array final, take stable pointers
		// into it for anchors created at this pattern index.
		for i := range row {
			next[row[i].TargetPosition+k] = &rows[j][i]
		}
		live = next
	}

	if !any {
		return nil
	}
	return rows
}
