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

import "sync"

// workspaceInitialCapacity is the query length a fresh workspace is sized
// for; most real queries are read-length sequences well under this.
const workspaceInitialCapacity = 200

// GrowthStrategy decides how large a workspace buffer should become once
// the current one is too small for a query of the given length.
type GrowthStrategy interface {
	Grow(current, needed int) int
}

// LinearGrowth grows just past what is needed, plus a fixed pad, favoring
// memory efficiency for workloads with similarly sized queries.
type LinearGrowth struct{ Pad int }

// Grow returns needed+Pad.
func (g LinearGrowth) Grow(current, needed int) int {
	return needed + g.Pad
}

// DoublingGrowth grows to the next power of two at or above needed,
// favoring fewer reallocations for workloads with widely varying query
// lengths.
type DoublingGrowth struct{}

// Grow returns the smallest power of two >= needed.
func (DoublingGrowth) Grow(current, needed int) int {
	n := 1
	for n < needed {
		n <<= 1
	}
	return n
}

// DefaultGrowthStrategy matches the teacher's pooled-buffer style: grow a
// little past what's needed rather than doubling, since Aligners are
// reused for many same-shaped queries in a row.
var DefaultGrowthStrategy GrowthStrategy = LinearGrowth{Pad: 200}

// workspace holds every reusable buffer one Aligner needs across calls to
// Align: the left/right extenders, the reversal scratch for left-side
// extension, and the traversed-anchor tracker. All of it is reset, never
// reallocated, between alignments unless a longer query demands it.
type workspace struct {
	growth GrowthStrategy

	left  *extender
	right *extender

	revQuery  []byte
	revTarget []byte

	traversed *traversedTracker
}

func newWorkspace(growth GrowthStrategy) *workspace {
	if growth == nil {
		growth = DefaultGrowthStrategy
	}
	return &workspace{
		growth:    growth,
		left:      newExtender(),
		right:     newExtender(),
		revQuery:  make([]byte, 0, workspaceInitialCapacity),
		revTarget: make([]byte, 0, workspaceInitialCapacity),
		traversed: newTraversedTracker(),
	}
}

// reverseInto returns a byte slice containing src reversed, backed by buf
// (grown via the workspace's GrowthStrategy if too small) so the caller
// never allocates on the hot path once buffers have warmed up.
func (w *workspace) reverseInto(buf []byte, src []byte) []byte {
	n := len(src)
	if cap(buf) < n {
		buf = make([]byte, w.growth.Grow(cap(buf), n))
	}
	buf = buf[:n]
	for i, b := range src {
		buf[n-1-i] = b
	}
	return buf
}

func (w *workspace) reverseQuery(src []byte) []byte {
	w.revQuery = w.reverseInto(w.revQuery, src)
	return w.revQuery
}

func (w *workspace) reverseTarget(src []byte) []byte {
	w.revTarget = w.reverseInto(w.revTarget, src)
	return w.revTarget
}

var poolWorkspace = &sync.Pool{New: func() interface{} {
	return newWorkspace(DefaultGrowthStrategy)
}}

// acquireWorkspace borrows a workspace from the pool for a new or cloned
// Aligner, applying growth if given (falling back to whatever growth
// strategy the borrowed workspace already carries from its previous
// owner otherwise).
func acquireWorkspace(growth GrowthStrategy) *workspace {
	ws := poolWorkspace.Get().(*workspace)
	if growth != nil {
		ws.growth = growth
	}
	return ws
}

// releaseWorkspace returns a workspace to the pool. The workspace must not
// be used again afterward.
func releaseWorkspace(ws *workspace) {
	if ws != nil {
		poolWorkspace.Put(ws)
	}
}
