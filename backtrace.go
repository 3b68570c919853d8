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

// the number of bits used to save the backtrace marker alongside an offset.
const wfaTypeBits uint32 = 3
const wfaTypeMask uint32 = (1 << wfaTypeBits) - 1

// Backtrace markers, packed into the low bits of a WaveFront offset the way
// wfa_backtrace_types.go packs them for the single-direction teacher
// aligner. Match is only ever assigned to the very first cell of a
// wavefront (the implicit "free" starting diagonal); every other match run
// is discovered by the hot-loop extension step, not stored as its own
// wavefront cell.
const (
	btInsertOpen uint32 = iota + 1
	btInsertExt
	btDeleteOpen
	btDeleteExt
	btMismatch
	btMatch
)

// OperationKind is one run-length-encoded alignment operation kind.
// Ins/Del are query-relative: Ins consumes only the query (an extra query
// base with no counterpart in the target), Del consumes only the target
// (an extra target base with no counterpart in the query). This is the
// opposite of conventional SAM CIGAR I/D semantics; the samfmt package
// preserves that inversion on purpose rather than "fixing" it, see
// DESIGN.md.
type OperationKind byte

const (
	OpMatch OperationKind = 'M'
	OpSubst OperationKind = 'X'
	OpIns   OperationKind = 'I'
	OpDel   OperationKind = 'D'
)

// Operation is one run of a single operation kind.
type Operation struct {
	Kind  OperationKind
	Count uint32
}

// opBuffer is a reusable, append-only run-length-encoded operation list.
// Adjacent runs of the same kind are fused on Push; this is the invariant
// §9 calls out ("no emitted alignment contains two consecutive runs of the
// same kind").
type opBuffer struct {
	ops []Operation
}

func (b *opBuffer) reset() {
	b.ops = b.ops[:0]
}

// push appends n operations of the given kind, fusing into the previous
// run if it is the same kind.
func (b *opBuffer) push(kind OperationKind, n uint32) {
	if n == 0 {
		return
	}
	if l := len(b.ops); l > 0 && b.ops[l-1].Kind == kind {
		b.ops[l-1].Count += n
		return
	}
	b.ops = append(b.ops, Operation{Kind: kind, Count: n})
}

// reverse reverses the order of the runs in place (right-extension
// backtraces are produced in reverse traversal order, per §9).
func (b *opBuffer) reverse() {
	for i, j := 0, len(b.ops)-1; i < j; i, j = i+1, j-1 {
		b.ops[i], b.ops[j] = b.ops[j], b.ops[i]
	}
}

// clone returns an independent copy of the current operation list.
func (b *opBuffer) clone() []Operation {
	out := make([]Operation, len(b.ops))
	copy(out, b.ops)
	return out
}

// appendFused appends all of other's runs onto b, fusing the boundary run
// if both sides end/start with the same kind.
func (b *opBuffer) appendFused(other []Operation) {
	for _, op := range other {
		b.push(op.Kind, op.Count)
	}
}

// stats summarizes an operation list the way wfa_cigar.go's process()
// aggregates a CIGAR: total length, and per-kind counts needed to verify
// the universal invariants in spec.md §8.
func stats(ops []Operation) (length, insertionCount, deletionCount uint32) {
	for _, op := range ops {
		length += op.Count
		switch op.Kind {
		case OpIns:
			insertionCount += op.Count
		case OpDel:
			deletionCount += op.Count
		}
	}
	return
}
