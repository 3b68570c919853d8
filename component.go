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

// componentBaseSize is the base size of a Component's per-score wavefront
// slice, ported from wfa_component.go's WAVEFRONTS_BASE_SIZE. A spare-penalty
// budget rarely exceeds a few hundred, so this covers almost every extension
// without growing.
const componentBaseSize = 256

var componentGrowSlice = make([]*WaveFront, componentBaseSize)

// Component is a per-score list of wavefronts for one extension direction.
// A nil entry means no wavefront was ever created for that score.
type Component struct {
	WaveFronts []*WaveFront
}

var poolComponent = &sync.Pool{New: func() interface{} {
	return &Component{WaveFronts: make([]*WaveFront, componentBaseSize)}
}}

var poolWaveFront = &sync.Pool{New: func() interface{} {
	return newWaveFront()
}}

// newComponent borrows a Component from the pool. Callers must call
// recycleComponent when done.
func newComponent() *Component {
	cpt := poolComponent.Get().(*Component)
	cpt.reset()
	if len(cpt.WaveFronts) < componentBaseSize {
		cpt.WaveFronts = append(cpt.WaveFronts, make([]*WaveFront, componentBaseSize-len(cpt.WaveFronts))...)
	}
	cpt.WaveFronts = cpt.WaveFronts[:componentBaseSize]
	return cpt
}

// reset returns every wavefront it holds to the pool and nils the slots.
func (cpt *Component) reset() {
	for i, wf := range cpt.WaveFronts {
		if wf != nil {
			wf.reset()
			poolWaveFront.Put(wf)
			cpt.WaveFronts[i] = nil
		}
	}
}

func recycleComponent(cpt *Component) {
	if cpt != nil {
		poolComponent.Put(cpt)
	}
}

func (cpt *Component) growTo(s uint32) {
	for s >= uint32(len(cpt.WaveFronts)) {
		cpt.WaveFronts = append(cpt.WaveFronts, componentGrowSlice...)
	}
}

// HasScore reports whether a wavefront was ever created for score s.
func (cpt *Component) HasScore(s uint32) bool {
	return s < uint32(len(cpt.WaveFronts)) && cpt.WaveFronts[s] != nil
}

// KRange returns the [lo, hi] diagonal range recorded at score s-diff, or
// (0, 0) if there is none (including underflow when diff > s).
func (cpt *Component) KRange(s, diff uint32) (int, int) {
	if diff > s {
		return 0, 0
	}
	s -= diff
	if s >= uint32(len(cpt.WaveFronts)) || cpt.WaveFronts[s] == nil {
		return 0, 0
	}
	wf := cpt.WaveFronts[s]
	return wf.Lo, wf.Hi
}

func (cpt *Component) wavefrontFor(s uint32) *WaveFront {
	cpt.growTo(s)
	wf := cpt.WaveFronts[s]
	if wf == nil {
		wf = poolWaveFront.Get().(*WaveFront)
		cpt.WaveFronts[s] = wf
	}
	return wf
}

// Set stores offset with backtrace marker for (score, diagonal).
func (cpt *Component) Set(s uint32, k int, offset uint32, marker uint32) {
	cpt.wavefrontFor(s).Set(k, offset, marker)
}

// Increase adds delta to the offset at (score, diagonal), leaving its marker
// untouched. The wavefront at s must already exist.
func (cpt *Component) Increase(s uint32, k int, delta uint32) {
	cpt.WaveFronts[s].Increase(k, delta)
}

// Get returns offset, marker, existed for (score, diagonal).
func (cpt *Component) Get(s uint32, k int) (uint32, uint32, bool) {
	if s >= uint32(len(cpt.WaveFronts)) || cpt.WaveFronts[s] == nil {
		return 0, 0, false
	}
	return cpt.WaveFronts[s].Get(k)
}

// GetRaw returns the packed offset<<wfaTypeBits|marker value, existed.
func (cpt *Component) GetRaw(s uint32, k int) (uint32, bool) {
	if s >= uint32(len(cpt.WaveFronts)) || cpt.WaveFronts[s] == nil {
		return 0, false
	}
	return cpt.WaveFronts[s].GetRaw(k)
}

// GetAfterDiff returns offset, marker, existed for (s-diff, k).
func (cpt *Component) GetAfterDiff(s, diff uint32, k int) (uint32, uint32, bool) {
	if diff > s {
		return 0, 0, false
	}
	return cpt.Get(s-diff, k)
}

// GetRawAfterDiff returns the packed value, existed for (s-diff, k).
func (cpt *Component) GetRawAfterDiff(s, diff uint32, k int) (uint32, bool) {
	if diff > s {
		return 0, false
	}
	return cpt.GetRaw(s-diff, k)
}

// Delete clears the record at (score, diagonal), if any.
func (cpt *Component) Delete(s uint32, k int) {
	if s >= uint32(len(cpt.WaveFronts)) || cpt.WaveFronts[s] == nil {
		return
	}
	cpt.WaveFronts[s].Delete(k)
}
