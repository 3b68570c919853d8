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

// alignLocal implements spec.md §4.7: every anchor not traversed by an
// earlier extension is grown, independently on each side, to every
// non-dominated reach whose (length, penalty) pair clears both cutoffs
// (its Valid Penalty Cutoff), rather than to the boundary of query or
// target. Unlike the semi-global algorithm, an anchor's own extension can
// itself be invalid (e.g. nothing within budget clears the cutoff)
// without disqualifying the rest of the query: only that anchor
// contributes no alignment.
func alignLocal(ref *Reference, query []byte, patternSize uint32, penalty *Penalty, cutoff *Cutoff, targetIndices []uint32, ws *workspace) *QueryAlignment {
	anchorsByTarget := buildAnchorTable(ref, query, patternSize, targetIndices)
	if len(anchorsByTarget) == 0 {
		return &QueryAlignment{}
	}

	patternCount := uint32(len(query) / int(patternSize))
	leftSpare := leftSpareByPatternIndex(penalty, cutoff.MaximumScaledPenaltyPerLength, patternSize, patternCount)

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
				state := &ta.state[j][i]
				if state.traversed || state.registered {
					continue
				}
				state.registered = true

				results := extendLocalAnchor(query, target, anchor, patternSize, penalty, cutoff, ws, ta, leftSpare)
				candidates = append(candidates, results...)
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

// extendLocalAnchor grows one anchor's left and right sides independently,
// each to every non-dominated Valid-Penalty-Cutoff trim (spec §4.7): a
// side's runValid call returns the Pareto frontier of cutoff-clearing
// (length, penalty) reaches on that side, to which the trivial zero-length,
// zero-penalty "don't extend this side at all" trim is added, so every
// combination of a left
// trim and a right trim is itself a candidate sub-alignment. Combinations
// that clear the cutoff are then filtered to the ones not dominated by
// another combination from the same anchor with at least as much reach on
// both sides and no worse a penalty, per §8's enumeration property.
func extendLocalAnchor(query, target []byte, anchor AnchorPosition, patternSize uint32, penalty *Penalty, cutoff *Cutoff, ws *workspace, ta *targetAnchors, leftSpare []uint32) []*assembled {
	anchorQueryStart := anchor.PatternIndex * patternSize
	anchorQueryEnd := anchorQueryStart + anchor.PatternCount*patternSize
	anchorTargetStart := anchor.TargetPosition
	anchorTargetEnd := anchorTargetStart + anchor.PatternCount*patternSize

	rightQuery := query[anchorQueryEnd:]
	rightTarget := target[anchorTargetEnd:]
	leftQuery := query[:anchorQueryStart]
	leftTarget := target[:anchorTargetStart]

	anchorSize := int64(anchor.PatternCount * patternSize)
	anchorCore := anchorQueryEnd - anchorQueryStart

	rightMaxBudget := calculateSparePenalty(0, anchorSize, int64(len(rightQuery)), int64(len(rightTarget)), penalty, cutoff)
	rightFrontier := ws.right.runValid(rightQuery, rightTarget, penalty, rightMaxBudget, cutoff)
	rightCandidates := append([]*Extension{{}}, rightFrontier...)

	// Each right candidate leaves the left side its own scaled margin: the
	// cutoff's allowance for that candidate's length minus the penalty it
	// spent. The left frontier is computed once under the largest budget
	// any right candidate allows; each right candidate below filters it
	// down to its own budget.
	rightMargin := func(ext *Extension) int64 {
		length, _, _ := stats(ext.Ops)
		return int64(length)*int64(cutoff.MaximumScaledPenaltyPerLength) - int64(ext.Penalty)*int64(PrecScale)
	}
	var leftMaxBudget uint32
	for _, rightExt := range rightCandidates {
		if b := calculateSparePenalty(rightMargin(rightExt), anchorSize, int64(len(leftQuery)), int64(len(leftTarget)), penalty, cutoff); b > leftMaxBudget {
			leftMaxBudget = b
		}
	}
	if anchor.PatternIndex < uint32(len(leftSpare)) && leftSpare[anchor.PatternIndex] < leftMaxBudget {
		leftMaxBudget = leftSpare[anchor.PatternIndex]
	}
	revLeftQuery := ws.reverseQuery(leftQuery)
	revLeftTarget := ws.reverseTarget(leftTarget)
	leftFrontier := ws.left.runValid(revLeftQuery, revLeftTarget, penalty, leftMaxBudget, cutoff)
	leftCandidates := append([]*Extension{{}}, leftFrontier...)

	type combo struct {
		penalty                uint32
		length                 uint32
		queryStart, queryEnd   uint32
		targetStart, targetEnd uint32
		rightConsumed          uint32 // query+target consumed on the right, for traversal marking
		leftConsumed           uint32
		ops                    []Operation
	}
	var combos []combo

	for _, rightExt := range rightCandidates {
		leftBudget := calculateSparePenalty(rightMargin(rightExt), anchorSize, int64(len(leftQuery)), int64(len(leftTarget)), penalty, cutoff)
		if leftMaxBudget < leftBudget {
			leftBudget = leftMaxBudget
		}
		for _, leftExt := range leftCandidates {
			if leftExt.Penalty > leftBudget {
				continue
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
			ops.push(OpMatch, anchorCore)
			ops.appendFused(rightExt.Ops)

			length, _, _ := stats(ops.ops)
			if !cutoff.IsValid(length, totalPenalty) {
				continue
			}

			combos = append(combos, combo{
				penalty:       totalPenalty,
				length:        length,
				queryStart:    queryStart,
				queryEnd:      queryEnd,
				targetStart:   targetStart,
				targetEnd:     targetEnd,
				rightConsumed: rightExt.QueryConsumed + rightExt.TargetConsumed,
				leftConsumed:  leftExt.QueryConsumed + leftExt.TargetConsumed,
				ops:           ops.clone(),
			})
		}
	}

	if len(combos) == 0 {
		return nil
	}

	// Traversal marking reflects the furthest reach any valid combination
	// actually extended to on each side, regardless of whether that
	// combination survives the dominance filter below: it still swept
	// past the anchors in that span.
	var maxRightConsumed, maxLeftConsumed uint32
	maxTargetEnd, minTargetStart := anchorTargetEnd, anchorTargetStart
	for _, c := range combos {
		if c.rightConsumed > maxRightConsumed {
			maxRightConsumed = c.rightConsumed
			maxTargetEnd = c.targetEnd
		}
		if c.leftConsumed > maxLeftConsumed {
			maxLeftConsumed = c.leftConsumed
			minTargetStart = c.targetStart
		}
	}
	ws.traversed.markRightTraversal(ta, anchor.PatternIndex+anchor.PatternCount-1, anchorTargetEnd, maxTargetEnd)
	ws.traversed.markLeftTraversal(ta, anchor.PatternIndex, minTargetStart, anchorTargetStart)

	// Pareto-filter: drop any combo dominated by another combo from this
	// same anchor, one whose query and target spans both contain it with
	// no higher a penalty (and a larger span or a lower penalty).
	out := make([]*assembled, 0, len(combos))
	for i, c := range combos {
		dominated := false
		for j, other := range combos {
			if i == j {
				continue
			}
			spans := other.queryStart <= c.queryStart && other.queryEnd >= c.queryEnd &&
				other.targetStart <= c.targetStart && other.targetEnd >= c.targetEnd
			sameSpan := other.queryStart == c.queryStart && other.queryEnd == c.queryEnd &&
				other.targetStart == c.targetStart && other.targetEnd == c.targetEnd
			if spans && other.penalty <= c.penalty && (!sameSpan || other.penalty < c.penalty) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		out = append(out, &assembled{
			penalty:     c.penalty,
			queryStart:  c.queryStart,
			queryEnd:    c.queryEnd,
			targetStart: c.targetStart,
			targetEnd:   c.targetEnd,
			ops:         c.ops,
		})
	}
	return out
}
