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

// alignSemiGlobal implements spec.md §4.6: every anchor is extended right
// to the end of the query (or target, whichever is shorter) and left to
// the start, each side's wavefront bounded by the spare penalty the other
// side's extension left unspent, producing at most one reported alignment
// per anchor run that is not traversed by another anchor's extension.
func alignSemiGlobal(ref *Reference, query []byte, patternSize uint32, penalty *Penalty, cutoff *Cutoff, targetIndices []uint32, ws *workspace) *QueryAlignment {
	anchorsByTarget := buildAnchorTable(ref, query, patternSize, targetIndices)
	if len(anchorsByTarget) == 0 {
		return &QueryAlignment{}
	}

	qa := &QueryAlignment{}
	for _, ti := range targetIndices {
		ta, ok := anchorsByTarget[ti]
		if !ok {
			continue
		}
		target := ref.TargetSlice(ti)

		var candidates []*assembled
		for j := range ta.rows {
			for i := range ta.rows[j] {
				anchor := ta.rows[j][i]
				if ta.state[j][i].traversed {
					continue
				}
				result := extendSemiGlobalAnchor(query, target, anchor, patternSize, penalty, cutoff, ws, ta)
				if result != nil {
					candidates = append(candidates, result)
				}
			}
		}

		alignments := mergeAssembled(candidates)
		if len(alignments) > 0 {
			qa.Targets = append(qa.Targets, TargetAlignment{
				TargetIndex: ti,
				Label:       ref.Label(ti),
				Alignments:  alignments,
			})
		}
	}
	return qa
}

// extendSemiGlobalAnchor grows one anchor into a full semi-global
// alignment (one boundary-mode extension per side) and marks the anchors
// it traverses along the way, per spec.md §4.5.
func extendSemiGlobalAnchor(query, target []byte, anchor AnchorPosition, patternSize uint32, penalty *Penalty, cutoff *Cutoff, ws *workspace, ta *targetAnchors) *assembled {
	anchorQueryStart := anchor.PatternIndex * patternSize
	anchorQueryEnd := anchorQueryStart + anchor.PatternCount*patternSize
	anchorTargetStart := anchor.TargetPosition
	anchorTargetEnd := anchorTargetStart + anchor.PatternCount*patternSize

	rightQuery := query[anchorQueryEnd:]
	rightTarget := target[anchorTargetEnd:]
	leftQuery := query[:anchorQueryStart]
	leftTarget := target[:anchorTargetStart]

	anchorSize := int64(anchor.PatternCount * patternSize)

	rightBudget := calculateSparePenalty(0, anchorSize, int64(len(rightQuery)), int64(len(rightTarget)), penalty, cutoff)
	rightExt := ws.right.run(rightQuery, rightTarget, penalty, rightBudget)
	if rightExt.QueryConsumed != uint32(len(rightQuery)) && rightExt.TargetConsumed != uint32(len(rightTarget)) {
		return nil
	}

	rightLength, _, _ := stats(rightExt.Ops)
	rightMargin := int64(rightLength)*int64(cutoff.MaximumScaledPenaltyPerLength) - int64(rightExt.Penalty)*int64(PrecScale)
	leftBudget := calculateSparePenalty(rightMargin, anchorSize, int64(len(leftQuery)), int64(len(leftTarget)), penalty, cutoff)
	revLeftQuery := ws.reverseQuery(leftQuery)
	revLeftTarget := ws.reverseTarget(leftTarget)
	leftExt := ws.left.run(revLeftQuery, revLeftTarget, penalty, leftBudget)
	if leftExt.QueryConsumed != uint32(len(leftQuery)) && leftExt.TargetConsumed != uint32(len(leftTarget)) {
		return nil
	}

	totalPenalty := leftExt.Penalty + rightExt.Penalty
	queryStart := anchorQueryStart - leftExt.QueryConsumed
	queryEnd := anchorQueryEnd + rightExt.QueryConsumed
	targetStart := anchorTargetStart - leftExt.TargetConsumed
	targetEnd := anchorTargetEnd + rightExt.TargetConsumed

	var ops opBuffer
	leftOps := make([]Operation, len(leftExt.Ops))
	copy(leftOps, leftExt.Ops)
	for i, j := 0, len(leftOps)-1; i < j; i, j = i+1, j-1 {
		leftOps[i], leftOps[j] = leftOps[j], leftOps[i]
	}
	ops.appendFused(leftOps)
	ops.push(OpMatch, anchorQueryEnd-anchorQueryStart)
	ops.appendFused(rightExt.Ops)

	length, _, _ := stats(ops.ops)
	if !cutoff.IsValid(length, totalPenalty) {
		return nil
	}

	ws.traversed.markRightTraversal(ta, anchor.PatternIndex+anchor.PatternCount-1, anchorTargetEnd, targetEnd)
	ws.traversed.markLeftTraversal(ta, anchor.PatternIndex, targetStart, anchorTargetStart)

	return &assembled{
		penalty:     totalPenalty,
		queryStart:  queryStart,
		queryEnd:    queryEnd,
		targetStart: targetStart,
		targetEnd:   targetEnd,
		ops:         ops.clone(),
	}
}
