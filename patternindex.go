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
	"bytes"
	"sync"

	farm "github.com/dgryski/go-farm"
)

// PatternLocation reports, for one target, the ascending positions at which
// a pattern occurs within it.
type PatternLocation struct {
	TargetIndex     uint32
	SortedPositions []uint32
}

// PatternIndex maps exact k-mers to their sorted occurrence positions in
// the concatenated reference. One table is built per distinct pattern
// length that is ever queried (a Reference is shared by Aligners that may
// derive different pattern sizes from different penalty/cutoff
// combinations), and cached for the lifetime of the Reference.
//
// Grounded on grailbio-bio's fusion/kmer_index.go sharded kmer->position
// hash map: both hash the k-mer (here with farmhash, as grailbio does) to
// pick a bucket instead of walking a suffix array. grailbio's version skips
// verifying the k-mer bytes because its gene-kmer index tolerates a bounded
// false-positive rate; SigAlign's "exact-match, no ambiguity" contract does
// not, so Locate below always re-compares the stored bytes before
// returning a position.
type PatternIndex struct {
	concat []byte

	mu     sync.RWMutex
	tables map[uint32]*kmerTable // keyed by pattern length k
}

type kmerTable struct {
	// buckets maps farmhash(kmer) to ascending positions sharing that hash.
	// Collisions across distinct k-mers are resolved by byte comparison at
	// lookup time, never stored separately.
	buckets map[uint64][]uint32
}

func newPatternIndex(concat []byte) *PatternIndex {
	return &PatternIndex{
		concat: concat,
		tables: make(map[uint32]*kmerTable),
	}
}

func hashKmer(b []byte) uint64 {
	return farm.Hash64(b)
}

func (idx *PatternIndex) tableFor(k uint32) *kmerTable {
	idx.mu.RLock()
	t, ok := idx.tables[k]
	idx.mu.RUnlock()
	if ok {
		return t
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if t, ok := idx.tables[k]; ok {
		return t
	}

	t = buildKmerTable(idx.concat, k)
	idx.tables[k] = t
	return t
}

func buildKmerTable(concat []byte, k uint32) *kmerTable {
	t := &kmerTable{buckets: make(map[uint64][]uint32)}
	n := len(concat)
	kk := int(k)
	if kk == 0 || kk > n {
		return t
	}
	for pos := 0; pos+kk <= n; pos++ {
		h := hashKmer(concat[pos : pos+kk])
		// positions are appended in ascending order as pos increases, so
		// each bucket is already sorted without a separate sort pass.
		t.buckets[h] = append(t.buckets[h], uint32(pos))
	}
	return t
}

// Locate reports the sorted occurrence positions of pattern within each of
// the given targets, in the order the targets are listed. Targets with no
// occurrence are omitted from the result.
func (r *Reference) Locate(pattern []byte, sortedTargetIndices []uint32) []PatternLocation {
	if len(pattern) == 0 {
		return nil
	}
	table := r.index.tableFor(uint32(len(pattern)))
	h := hashKmer(pattern)
	candidates := table.buckets[h]
	if len(candidates) == 0 {
		return nil
	}

	k := len(pattern)
	results := make([]PatternLocation, 0, len(sortedTargetIndices))
	for _, ti := range sortedTargetIndices {
		lo := r.targetBoundaries[ti]
		hi := r.targetBoundaries[ti+1]
		var positions []uint32
		// candidates are ascending already; narrow to [lo, hi-k].
		for _, pos := range candidates {
			if pos < lo {
				continue
			}
			if pos+uint32(k) > hi {
				break
			}
			if !bytes.Equal(r.concat[pos:pos+uint32(k)], pattern) {
				continue // hash collision between distinct k-mers
			}
			positions = append(positions, pos-lo)
		}
		if len(positions) > 0 {
			results = append(results, PatternLocation{
				TargetIndex:     ti,
				SortedPositions: positions,
			})
		}
	}
	return results
}
