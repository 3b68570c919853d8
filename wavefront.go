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

import "math"

// offsetsBaseSize is the base size of a WaveFront's offset slice, ported
// from wfa_wavefront.go's OFFSETS_BASE_SIZE.
const offsetsBaseSize = 256

// WaveFront is a list of offsets for different diagonal (k) values at one
// score. Positive and negative k share one backing slice:
//
//	index: 0,  1,  2,  3,  4,  5,  6
//	k:     0, -1,  1, -2,  2, -3,  3
//
// A zero value means "no record for that k" (offsets are always >=1 once
// set, since k2i(0)'s slot holds offset<<wfaTypeBits|type and a true zero
// offset would only ever occur at the very origin, which is never itself
// looked up through Get).
type WaveFront struct {
	Lo, Hi  int
	Offsets []uint32
}

func newWaveFront() *WaveFront {
	return &WaveFront{
		Lo:      math.MaxInt32,
		Hi:      math.MinInt32,
		Offsets: make([]uint32, offsetsBaseSize),
	}
}

func (wf *WaveFront) reset() {
	wf.Lo = math.MaxInt32
	wf.Hi = math.MinInt32
	for i := range wf.Offsets {
		wf.Offsets[i] = 0
	}
}

func k2i(k int) int {
	if k >= 0 {
		return k << 1
	}
	return ((-k) << 1) - 1
}

func (wf *WaveFront) growTo(i int) {
	if i < len(wf.Offsets) {
		return
	}
	grown := make([]uint32, i+offsetsBaseSize)
	copy(grown, wf.Offsets)
	wf.Offsets = grown
}

// Set stores an offset with a backtrace marker for diagonal k.
func (wf *WaveFront) Set(k int, offset uint32, marker uint32) {
	i := k2i(k)
	wf.growTo(i)
	wf.Offsets[i] = offset<<wfaTypeBits | marker
	if k < wf.Lo {
		wf.Lo = k
	}
	if k > wf.Hi {
		wf.Hi = k
	}
}

// Increase adds delta to the offset already stored at k, keeping its
// marker untouched.
func (wf *WaveFront) Increase(k int, delta uint32) {
	i := k2i(k)
	wf.Offsets[i] += delta << wfaTypeBits
}

// Get returns offset, marker, and whether k has a record.
func (wf *WaveFront) Get(k int) (uint32, uint32, bool) {
	if k < wf.Lo || k > wf.Hi {
		return 0, 0, false
	}
	raw := wf.Offsets[k2i(k)]
	return raw >> wfaTypeBits, raw & wfaTypeMask, raw > 0
}

// GetRaw returns the packed offset<<wfaTypeBits|marker value and whether k
// has a record.
func (wf *WaveFront) GetRaw(k int) (uint32, bool) {
	if k < wf.Lo || k > wf.Hi {
		return 0, false
	}
	raw := wf.Offsets[k2i(k)]
	return raw, raw > 0
}

// Delete clears the record at k, if any.
func (wf *WaveFront) Delete(k int) {
	if k < wf.Lo || k > wf.Hi {
		return
	}
	wf.Offsets[k2i(k)] = 0
}
