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

// traversedTracker marks anchors consumed by another anchor's extension so
// the semi-global and local algorithms skip re-extending (and
// re-emitting) them, per spec.md §4.5. An anchor at (patternIndex,
// position) is traversed when some other anchor's left or right extension
// crosses its target span; this holds no state of its own, since "what's
// traversed" lives on the anchorState values inside each target's
// targetAnchors.
type traversedTracker struct{}

func newTraversedTracker() *traversedTracker {
	return &traversedTracker{}
}

// markRightTraversal marks every anchor in ta whose pattern index is
// greater than fromPattern and whose target position lies
// inside [targetLo, targetHi) as traversed: a right extension starting
// just past anchor `from` swept across those anchors on its way to its
// backtraced endpoint, so they can never themselves start a fresh
// extension that finds something new.
func (tr *traversedTracker) markRightTraversal(ta *targetAnchors, fromPattern uint32, targetLo, targetHi uint32) {
	for j := int(fromPattern) + 1; j < len(ta.rows); j++ {
		row := ta.rows[j]
		if len(row) == 0 {
			continue
		}
		for i := range row {
			pos := row[i].TargetPosition
			if pos < targetLo {
				continue
			}
			if pos >= targetHi {
				break
			}
			ta.state[j][i].traversed = true
		}
	}
}

// markLeftTraversal is markRightTraversal's mirror for extension toward
// the start of the query: it marks anchors at pattern indices below
// fromPattern whose target position lies inside [targetLo, targetHi).
func (tr *traversedTracker) markLeftTraversal(ta *targetAnchors, fromPattern uint32, targetLo, targetHi uint32) {
	for j := 0; j < int(fromPattern); j++ {
		row := ta.rows[j]
		if len(row) == 0 {
			continue
		}
		for i := range row {
			pos := row[i].TargetPosition
			if pos < targetLo {
				continue
			}
			if pos >= targetHi {
				break
			}
			ta.state[j][i].traversed = true
		}
	}
}
