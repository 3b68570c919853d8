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

package samfmt

import (
	"fmt"
	"strings"

	"github.com/shenwei356/sigalign"
)

const (
	flagUnmapped  = 4
	flagSecondary = 256
)

// WriteRecords writes one SAM record per alignment found for queryName
// against qa's targets, in the order they appear in qa.Targets and
// qa.Targets[i].Alignments. The first alignment for the first target with
// any hits is written as primary; every later one gets FLAG 256
// (secondary), since sigalign reports multiple co-equal alignments per
// query rather than ranking a single best one.
func WriteRecords(w *strings.Builder, queryName string, query []byte, qa *sigalign.QueryAlignment) {
	wrote := false
	for _, ta := range qa.Targets {
		for _, a := range ta.Alignments {
			flag := 0
			if wrote {
				flag = flagSecondary
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t255\t%s\t*\t0\t0\t%s\t*\n",
				queryName, flag, rname(ta.Label, ta.TargetIndex), a.TargetStart+1,
				CIGAR(&a), string(query[a.QueryStart:a.QueryEnd]))
			wrote = true
		}
	}
	if !wrote {
		fmt.Fprintf(w, "%s\t%d\t*\t0\t0\t*\t*\t0\t0\t%s\t*\n", queryName, flagUnmapped, string(query))
	}
}

func rname(label string, targetIndex uint32) string {
	if label != "" {
		return label
	}
	return fmt.Sprintf("target%d", targetIndex)
}
