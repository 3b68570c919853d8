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

// Package refio persists a sigalign.Reference to a single file: a small
// fixed-size header (magic, version, target count), then the target
// labels, the target-boundary table, and the zstd-compressed concatenated
// sequence, each of these three written as a length-prefixed block
// followed by a seahash checksum of its stored bytes, so
// a truncated or corrupted save is detected on load rather than silently
// misaligning the pattern index against the wrong bytes.
package refio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"blainsmith.com/go/seahash"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/shenwei356/sigalign"
)

// magic identifies a sigalign reference file; version allows the framing
// below to change without silently misreading an older file.
const (
	magic   uint32 = 0x53414c31 // "SAL1"
	version uint32 = 1
)

var byteOrder = binary.LittleEndian

// Save writes the given targets and labels to w in the framed,
// zstd-compressed format Load reads back. Labels persist as-is; a target
// with no entry in labels (labels nil or shorter than targets) is saved
// with an empty label.
func Save(w io.Writer, targets [][]byte, labels []string) error {
	bw := bufio.NewWriter(w)

	if err := writeHeader(bw, uint32(len(targets))); err != nil {
		return errors.Wrap(err, "refio: write header")
	}
	if err := writeLabels(bw, labels, len(targets)); err != nil {
		return errors.Wrap(err, "refio: write labels")
	}

	concat := make([]byte, 0)
	boundaries := make([]uint32, 0, len(targets)+1)
	var total uint32
	for _, t := range targets {
		boundaries = append(boundaries, total)
		concat = append(concat, t...)
		total += uint32(len(t))
	}
	boundaries = append(boundaries, total)

	if err := writeBoundaries(bw, boundaries); err != nil {
		return errors.Wrap(err, "refio: write boundaries")
	}
	if err := writeSequence(bw, concat); err != nil {
		return errors.Wrap(err, "refio: write sequence")
	}

	return bw.Flush()
}

// SaveFile is a convenience wrapper creating path and calling Save.
func SaveFile(path string, targets [][]byte, labels []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "refio: create file")
	}
	defer f.Close()
	return Save(f, targets, labels)
}

func writeHeader(w io.Writer, numTargets uint32) error {
	buf := make([]byte, 12)
	byteOrder.PutUint32(buf[0:4], magic)
	byteOrder.PutUint32(buf[4:8], version)
	byteOrder.PutUint32(buf[8:12], numTargets)
	_, err := w.Write(buf)
	return err
}

func writeLabels(w io.Writer, labels []string, numTargets int) error {
	joined := make([]byte, 0, 64*numTargets)
	for i := 0; i < numTargets; i++ {
		var label string
		if i < len(labels) {
			label = labels[i]
		}
		joined = append(joined, label...)
		joined = append(joined, 0)
	}
	return writeFramedBlock(w, joined)
}

func writeBoundaries(w io.Writer, boundaries []uint32) error {
	buf := make([]byte, 4*len(boundaries))
	for i, b := range boundaries {
		byteOrder.PutUint32(buf[i*4:i*4+4], b)
	}
	return writeFramedBlock(w, buf)
}

func writeSequence(w io.Writer, concat []byte) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return errors.Wrap(err, "refio: new zstd writer")
	}
	defer enc.Close()
	compressed := enc.EncodeAll(concat, nil)
	return writeFramedBlock(w, compressed)
}

// writeFramedBlock writes len(payload), payload, then a seahash checksum
// of payload, so Load can detect truncation or bit-rot before handing
// corrupted bytes to the pattern index builder.
func writeFramedBlock(w io.Writer, payload []byte) error {
	lenBuf := make([]byte, 8)
	byteOrder.PutUint64(lenBuf, uint64(len(payload)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	sumBuf := make([]byte, 8)
	byteOrder.PutUint64(sumBuf, seahash.Sum64(payload))
	_, err := w.Write(sumBuf)
	return err
}

// LoadResult is the raw material Load hands back; callers pass Targets
// and Labels straight to sigalign.NewReference.
type LoadResult struct {
	Targets [][]byte
	Labels  []string
}

// Load reads a file written by Save and reconstructs target byte slices
// and labels.
func Load(r io.Reader) (*LoadResult, error) {
	br := bufio.NewReader(r)

	numTargets, err := readHeader(br)
	if err != nil {
		return nil, errors.Wrap(err, "refio: read header")
	}

	labelBlock, err := readFramedBlock(br)
	if err != nil {
		return nil, errors.Wrap(err, "refio: read labels")
	}
	labels := splitLabels(labelBlock, int(numTargets))

	boundaryBlock, err := readFramedBlock(br)
	if err != nil {
		return nil, errors.Wrap(err, "refio: read boundaries")
	}
	if len(boundaryBlock) != 4*(int(numTargets)+1) {
		return nil, errors.New("refio: boundary table has the wrong length")
	}
	boundaries := make([]uint32, numTargets+1)
	for i := range boundaries {
		boundaries[i] = byteOrder.Uint32(boundaryBlock[i*4 : i*4+4])
	}

	compressed, err := readFramedBlock(br)
	if err != nil {
		return nil, errors.Wrap(err, "refio: read sequence")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "refio: new zstd reader")
	}
	defer dec.Close()
	concat, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.Wrap(err, "refio: decompress sequence")
	}

	targets := make([][]byte, numTargets)
	for i := uint32(0); i < numTargets; i++ {
		targets[i] = concat[boundaries[i]:boundaries[i+1]]
	}

	return &LoadResult{Targets: targets, Labels: labels}, nil
}

// LoadFile is a convenience wrapper opening path and calling Load.
func LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "refio: open file")
	}
	defer f.Close()
	return Load(f)
}

func readHeader(r io.Reader) (numTargets uint32, err error) {
	buf := make([]byte, 12)
	if _, err = io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	if got := byteOrder.Uint32(buf[0:4]); got != magic {
		return 0, errors.New("refio: not a sigalign reference file")
	}
	if got := byteOrder.Uint32(buf[4:8]); got != version {
		return 0, errors.Errorf("refio: unsupported reference file version %d", got)
	}
	return byteOrder.Uint32(buf[8:12]), nil
}

func readFramedBlock(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, 8)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	n := byteOrder.Uint64(lenBuf)

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	sumBuf := make([]byte, 8)
	if _, err := io.ReadFull(r, sumBuf); err != nil {
		return nil, err
	}
	want := byteOrder.Uint64(sumBuf)
	got := seahash.Sum64(payload)
	if got != want {
		return nil, errors.New("refio: checksum mismatch, file is corrupt or truncated")
	}
	return payload, nil
}

func splitLabels(block []byte, numTargets int) []string {
	labels := make([]string, 0, numTargets)
	start := 0
	for i := 0; i < len(block) && len(labels) < numTargets; i++ {
		if block[i] == 0 {
			labels = append(labels, string(block[start:i]))
			start = i + 1
		}
	}
	return labels
}

// LoadReference reads a file written by Save and builds it directly into
// a *sigalign.Reference, the common case callers want instead of the raw
// LoadResult.
func LoadReference(path string) (*sigalign.Reference, error) {
	result, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	ref, err := sigalign.NewReference(result.Targets, result.Labels)
	if err != nil {
		return nil, errors.Wrap(err, "refio: build reference")
	}
	return ref, nil
}
