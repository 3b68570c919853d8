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

import "fmt"

// ErrInvalidValue is returned by New when a penalty or cutoff is out of range.
type ErrInvalidValue struct {
	Reason string
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("sigalign: invalid value: %s", e.Reason)
}

// ErrLowEfficiency is returned by New when the derived pattern size is below
// the minimum the engine considers worth indexing.
type ErrLowEfficiency struct {
	PatternSize uint32
}

func (e *ErrLowEfficiency) Error() string {
	return fmt.Sprintf("sigalign: low efficiency: derived pattern size %d is below the minimum %d", e.PatternSize, minimumPatternSize)
}

// ErrAlphabetMismatch is returned by the checked alignment entry points when
// the query contains a byte not present in the reference's alphabet.
type ErrAlphabetMismatch struct {
	Byte byte
}

func (e *ErrAlphabetMismatch) Error() string {
	return fmt.Sprintf("sigalign: query byte %q is not in the reference alphabet", e.Byte)
}

// ErrIndexBuild is returned when the pattern index fails to build over the
// concatenated reference.
type ErrIndexBuild struct {
	Reason string
}

func (e *ErrIndexBuild) Error() string {
	return fmt.Sprintf("sigalign: pattern index build failed: %s", e.Reason)
}

// ErrEmptySequence is returned when a query or reference sequence is empty.
var ErrEmptySequence error = fmt.Errorf("sigalign: empty sequence")
