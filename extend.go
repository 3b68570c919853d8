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
	"encoding/binary"
	"math/bits"
)

var extendByteOrder = binary.BigEndian

// Extension is one side's extension result. Ops is listed left-to-right
// over the q/t slices passed to run or runValid; a left-side extension is
// computed over reversed slices, so its Ops must be reversed again by the
// caller before splicing into an alignment's operation list.
type Extension struct {
	Penalty        uint32
	QueryConsumed  uint32
	TargetConsumed uint32
	Ops            []Operation
}

// extender owns the three wavefront components (M, I, D) and the scratch
// RLE buffer a single extension pass needs. It is reused across many
// extensions via reset, mirroring the teacher's pooled Aligner.M/I/D.
type extender struct {
	M, I, D *Component
	ops     opBuffer
}

func newExtender() *extender {
	return &extender{M: newComponent(), I: newComponent(), D: newComponent()}
}

func (ex *extender) reset() {
	ex.M.reset()
	ex.I.reset()
	ex.D.reset()
	ex.ops.reset()
}

// seed primes M with the wavefront's single starting cell (k=0, offset
// from the initial match-or-mismatch at (0,0)) and reports lenQ, lenT.
// Shared by run and runValid so both grow the same wavefront shape.
func (ex *extender) seed(q, t []byte, penalty *Penalty) (M, I, D *Component, lenQ, lenT int) {
	ex.reset()
	lenQ, lenT = len(q), len(t)
	M, I, D = ex.M, ex.I, ex.D
	if lenQ == 0 || lenT == 0 {
		return
	}

	var initType uint32
	var initScore uint32
	if q[0] == t[0] {
		initType = btMatch
	} else {
		initType = btMismatch
		initScore = penalty.Mismatch
	}
	M.Set(initScore, 0, 1, initType)
	return
}

// run grows the wavefront from the single starting cell (k=0) up to
// `budget` inclusive, reporting the lowest-scoring cell at which query or
// target is fully consumed (the semi-global algorithm's stopping rule),
// then backtraces it into an Extension. q and t are oriented so that
// index 0 is the cell immediately beyond the anchor on this side; the
// caller is responsible for reversing a left-side extension's inputs
// (and, afterward, its Ops).
func (ex *extender) run(q, t []byte, penalty *Penalty, budget uint32) *Extension {
	M, I, D, lenQ, lenT := ex.seed(q, t, penalty)
	if lenQ == 0 || lenT == 0 {
		return &Extension{}
	}

	type cell struct {
		s uint32
		k int
	}
	var best cell
	haveBest := false

	var s uint32
	for s = 0; s <= budget; s++ {
		if M.HasScore(s) {
			extendMatches(M.WaveFronts[s], q, t)

			lo, hi := M.KRange(s, 0)
			for k := lo; k <= hi; k++ {
				offset, _, ok := M.Get(s, k)
				if !ok {
					continue
				}
				h := int(offset)
				v := h - k
				if v < 0 || v > lenQ || h < 0 || h > lenT {
					continue
				}
				if v == lenQ || h == lenT {
					if !haveBest || s < best.s {
						haveBest = true
						best = cell{s: s, k: k}
					}
				}
			}

			if haveBest {
				break
			}
		}

		if s == budget {
			break
		}
		stepNext(M, I, D, s+1, penalty, lenQ, lenT)
	}

	if !haveBest {
		return &Extension{}
	}

	return ex.backtrace(q, t, M, I, D, penalty, best.s, best.k)
}

// runValid grows the wavefront up to `budget` inclusive and returns every
// score at which the longest reachable cell's (length, penalty) pair
// clears cutoff and improves on every shorter-scored valid cell seen so
// far — the Pareto frontier of (length, penalty) pairs reachable on this
// side, ascending in both score and length. This is the local algorithm's
// VPC-bounded extension (spec §4.7): rather than reporting only the
// single best reach, it reports every non-dominated trim so the caller
// can enumerate every valid sub-alignment, not just the longest.
func (ex *extender) runValid(q, t []byte, penalty *Penalty, budget uint32, cutoff *Cutoff) []*Extension {
	M, I, D, lenQ, lenT := ex.seed(q, t, penalty)
	if lenQ == 0 || lenT == 0 {
		return nil
	}

	type cell struct {
		s      uint32
		k      int
		length uint32
	}
	var frontier []cell
	var bestLength uint32

	var s uint32
	for s = 0; s <= budget; s++ {
		if M.HasScore(s) {
			extendMatches(M.WaveFronts[s], q, t)

			lo, hi := M.KRange(s, 0)
			var atScore cell
			haveAtScore := false
			for k := lo; k <= hi; k++ {
				offset, _, ok := M.Get(s, k)
				if !ok {
					continue
				}
				h := int(offset)
				v := h - k
				if v < 0 || v > lenQ || h < 0 || h > lenT {
					continue
				}
				length := uint32(h)
				if v > h {
					length = uint32(v)
				}
				if length > 0 && cutoff.IsValid(length, s) && (!haveAtScore || length > atScore.length) {
					haveAtScore = true
					atScore = cell{s: s, k: k, length: length}
				}
			}
			if haveAtScore && atScore.length > bestLength {
				bestLength = atScore.length
				frontier = append(frontier, atScore)
			}
		}

		if s == budget {
			break
		}
		stepNext(M, I, D, s+1, penalty, lenQ, lenT)
	}

	exts := make([]*Extension, 0, len(frontier))
	for _, c := range frontier {
		exts = append(exts, ex.backtrace(q, t, M, I, D, penalty, c.s, c.k))
	}
	return exts
}

// extendMatches is the WF_EXTEND step: for every live diagonal, greedily
// advance the offset while query and target bytes agree, 8 bytes at a
// time via a big-endian XOR/leading-zero trick, falling back to a
// byte-at-a-time comparison for the remainder. Ported from wfa.go's
// Aligner.extend, generalized to operate on plain slices instead of a
// fixed global/semi-global pair.
func extendMatches(wf *WaveFront, q, t []byte) {
	lo, hi := wf.Lo, wf.Hi
	lenQ, lenT := len(q), len(t)

	for k := hi; k >= lo; k-- {
		offset, _, ok := wf.Get(k)
		if !ok {
			continue
		}

		h := int(offset)
		v := h - k
		if v < 0 || v >= lenQ || h >= lenT {
			continue
		}

		var n, N int
		if v+8 <= lenQ && h+8 <= lenT {
			for {
				q8 := extendByteOrder.Uint64(q[v : v+8])
				t8 := extendByteOrder.Uint64(t[h : h+8])
				n = bits.LeadingZeros64(q8^t8) >> 3
				v += n
				h += n
				N += n
				if n < 8 || v+8 > lenQ || h+8 > lenT {
					break
				}
			}
			if N == 0 {
				continue
			}
			wf.Increase(k, uint32(N))
			if !(n == 8 && v < lenQ && h < lenT) {
				continue
			}
		}

		N = 0
		for v < lenQ && h < lenT && q[v] == t[h] {
			v++
			h++
			N++
		}
		if N == 0 {
			continue
		}
		wf.Increase(k, uint32(N))
	}
}

// stepNext is the WF_NEXT step for score s: for every diagonal reachable
// from a mismatch at s-x, a gap-open at s-o-e, or a gap-extend at s-e, it
// records the best offset into I, D, and M. Ported from wfa.go's
// Aligner.next; direction-agnostic since it only consumes lenQ/lenT as
// plain bounds.
func stepNext(M, I, D *Component, s uint32, p *Penalty, lenQ, lenT int) {
	loMismatch, hiMismatch := M.KRange(s, p.Mismatch)
	loGapOpen, hiGapOpen := M.KRange(s, p.GapOpen+p.GapExt)
	loInsert, hiInsert := I.KRange(s, p.GapExt)
	loDelete, hiDelete := D.KRange(s, p.GapExt)

	hi := min(lenT-1, max(hiMismatch, hiGapOpen, hiInsert, hiDelete)+1)
	lo := max(-(lenQ - 1), min(loMismatch, loGapOpen, loInsert, loDelete)-1)

	for k := lo; k <= hi; k++ {
		var updatedI, updatedD bool
		var typeI, typeD, typeM uint32

		// insertion
		v1, _, fromM := M.GetAfterDiff(s, p.GapOpen+p.GapExt, k-1)
		v2, _, fromI := I.GetAfterDiff(s, p.GapExt, k-1)
		if fromM && int(v1) > lenT {
			fromM, v1 = false, 0
		}
		if fromI && int(v2) > lenT {
			fromI, v2 = false, 0
		}
		Isk := max(v1, v2) + 1
		if fromM || fromI {
			switch {
			case fromM && fromI:
				if v1 >= v2 {
					typeI = btInsertOpen
				} else {
					typeI = btInsertExt
				}
			case fromM:
				typeI = btInsertOpen
			default:
				typeI = btInsertExt
			}
			updatedI = true
			I.Set(s, k, Isk, typeI)
		} else {
			Isk = 0
		}

		// deletion
		v1, _, fromM = M.GetAfterDiff(s, p.GapOpen+p.GapExt, k+1)
		v2, _, fromD := D.GetAfterDiff(s, p.GapExt, k+1)
		if fromM && int(v1)-k > lenQ {
			fromM, v1 = false, 0
		}
		if fromD && int(v2)-k > lenQ {
			fromD, v2 = false, 0
		}
		Dsk := max(v1, v2)
		if fromM || fromD {
			switch {
			case fromM && fromD:
				if v1 >= v2 {
					typeD = btDeleteOpen
				} else {
					typeD = btDeleteExt
				}
			case fromM:
				typeD = btDeleteOpen
			default:
				typeD = btDeleteExt
			}
			updatedD = true
			D.Set(s, k, Dsk, typeD)
		} else {
			Dsk = 0
		}

		// mismatch / carry-forward into M
		v1, _, fromM = M.GetAfterDiff(s, p.Mismatch, k)
		if fromM && (int(v1) > lenT || int(v1)-k > lenQ) {
			fromM, v1 = false, 0
		}
		Msk := max(Isk, Dsk, v1+1)
		if !(updatedI || updatedD || fromM) {
			continue
		}
		switch {
		case updatedI && updatedD && fromM:
			switch {
			case Msk == v1+1:
				typeM = btMismatch
			case Msk == Isk:
				typeM = typeI
			default:
				typeM = typeD
			}
		case updatedI && updatedD:
			if Msk == Isk {
				typeM = typeI
			} else {
				typeM = typeD
			}
		case updatedI && fromM:
			if Msk == v1+1 {
				typeM = btMismatch
			} else {
				typeM = typeI
			}
		case updatedI:
			typeM = typeI
		case updatedD && fromM:
			if Msk == v1+1 {
				typeM = btMismatch
			} else {
				typeM = typeD
			}
		case updatedD:
			typeM = typeD
		default:
			typeM = btMismatch
		}
		M.Set(s, k, Msk, typeM)
	}
}

// backtrace walks the chosen (s, k) cell back to the wavefront's origin,
// emitting one Operation run per backtrace marker transition, the same
// walk as wfa.go's Aligner.backTrace but writing to a reusable opBuffer
// instead of a CIGAR-specific result type, and stopping at the origin
// (no global/semi-global end-padding: the caller already knows how far
// each side reaches via QueryConsumed/TargetConsumed).
func (ex *extender) backtrace(q, t []byte, M, I, D *Component, p *Penalty, s uint32, k int) *Extension {
	ex.ops.reset()

	startPenalty := s
	offset, _ := M.GetRaw(s, k)
	wfaType := offset & wfaTypeMask
	h := int(offset >> wfaTypeBits)
	v := h - k

	queryConsumed, targetConsumed := uint32(v), uint32(h)

	M0 := M
	previousFromM := true

	for v > 0 && h > 0 {
		sMismatch := s - p.Mismatch
		sGapOpen := s - p.GapOpen - p.GapExt
		sGapExt := s - p.GapExt

		var offset0 uint32
		fromItself := false

		switch wfaType {
		case btInsertExt:
			v1, _, fromM := M.Get(sGapOpen, k-1)
			v2, _, fromI := I.Get(sGapExt, k-1)
			if fromM || fromI {
				offset0 = max(v1, v2) + 1
			}
			M0 = I
		case btDeleteExt:
			v1, _, fromM := M.Get(sGapOpen, k+1)
			v2, _, fromD := D.Get(sGapExt, k+1)
			if fromM || fromD {
				offset0 = max(v1, v2)
			}
			M0 = D
		default:
			var Isk, Dsk uint32
			v1, _, fromM := M.Get(sGapOpen, k-1)
			v2, _, fromI := I.Get(sGapExt, k-1)
			if fromM || fromI {
				Isk = max(v1, v2) + 1
			}
			v1, _, fromM = M.Get(sGapOpen, k+1)
			v2, _, fromD := D.Get(sGapExt, k+1)
			if fromM || fromD {
				Dsk = max(v1, v2)
			}
			v1, _, fromM = M.Get(sMismatch, k)
			if Isk > 0 || Dsk > 0 || fromM {
				offset0 = max(Isk, Dsk, v1+1)
			} else {
				fromItself = true
			}
			M0 = M
		}
		if fromItself || offset0 == 0 {
			break
		}

		h0 := int(offset0)
		if previousFromM {
			nMatches := h - h0
			if nMatches > 0 {
				ex.ops.push(OpMatch, uint32(nMatches))
			}
			h = h0
			v = h - k
			if h <= 0 || v <= 0 {
				break
			}
		}

		switch wfaType {
		case btMismatch:
			ex.ops.push(OpSubst, 1)
			s = sMismatch
			h--
		case btInsertOpen:
			ex.ops.push(OpDel, 1)
			s = sGapOpen
			k--
			h--
			previousFromM = true
		case btInsertExt:
			ex.ops.push(OpDel, 1)
			s = sGapExt
			k--
			h--
			previousFromM = false
		case btDeleteOpen:
			ex.ops.push(OpIns, 1)
			s = sGapOpen
			k++
			previousFromM = true
		case btDeleteExt:
			ex.ops.push(OpIns, 1)
			s = sGapExt
			k++
			previousFromM = false
		default:
			return ex.finish(startPenalty, queryConsumed, targetConsumed)
		}
		v = h - k

		raw, ok := M0.GetRaw(s, k)
		if !ok {
			break
		}
		wfaType = raw & wfaTypeMask
	}

	if h > 0 && v > 0 {
		n := h
		if v < n {
			n = v
		}
		// This run ends at the seed cell (0,0), which seed scored as a
		// mismatch when q[0] and t[0] differ.
		seedMismatch := q[0] != t[0]
		if seedMismatch {
			n--
		}
		if n > 0 {
			ex.ops.push(OpMatch, uint32(n))
		}
		if seedMismatch {
			ex.ops.push(OpSubst, 1)
		}
	}

	return ex.finish(startPenalty, queryConsumed, targetConsumed)
}

func (ex *extender) finish(penalty, queryConsumed, targetConsumed uint32) *Extension {
	ex.ops.reverse()
	return &Extension{
		Penalty:        penalty,
		Ops:            ex.ops.clone(),
		QueryConsumed:  queryConsumed,
		TargetConsumed: targetConsumed,
	}
}
