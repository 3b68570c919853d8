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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"

	"github.com/shenwei356/sigalign"
	"github.com/shenwei356/sigalign/samfmt"
)

var version = "0.1.0"

func main() {
	app := filepath.Base(os.Args[0])
	usage := fmt.Sprintf(`
SigAlign: exhaustive cutoff-based sequence alignment in Golang

 Author: Wei Shen <shenwei356@gmail.com>
   Code: https://github.com/shenwei356/sigalign
Version: v%s

Usage:
  1. Align one query against one target given on the command line.

        %s [options] <query seq> <target seq>

  2. Align query/target pairs from an input file, one per two lines
     (">"-prefixed query then "<"-prefixed target, as in the WFA
     benchmark format).

        %s [options] -i input.txt

Options/Flags:
`, version, app, app)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	infile := flag.String("i", "", "input file")
	local := flag.Bool("local", false, "use the local algorithm instead of semi-global")
	mismatch := flag.Uint("x", 4, "mismatch penalty")
	gapOpen := flag.Uint("o", 6, "gap-open penalty")
	gapExt := flag.Uint("e", 2, "gap-extend penalty")
	minLen := flag.Uint("L", 50, "minimum alignment length cutoff")
	maxPenPerLenNum := flag.Uint("pn", 1, "maximum penalty-per-length cutoff numerator")
	maxPenPerLenDen := flag.Uint("pd", 5, "maximum penalty-per-length cutoff denominator")
	noOutput := flag.Bool("N", false, "do not print SAM output (for benchmarking)")

	pprofCPU := flag.Bool("p", false, "cpu pprof. go tool pprof -http=:8080 cpu.pprof")
	pprofMem := flag.Bool("m", false, "mem pprof. go tool pprof -http=:8080 mem.pprof")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if *pprofCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pprofMem {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	outfh := bufio.NewWriter(os.Stdout)
	defer outfh.Flush()

	algn, err := sigalign.New(uint32(*mismatch), uint32(*gapOpen), uint32(*gapExt), uint32(*minLen), uint32(*maxPenPerLenNum), uint32(*maxPenPerLenDen))
	checkError(err)
	if *local {
		algn.WithMode(sigalign.Local)
	}
	defer sigalign.Recycle(algn)

	falign2Seq := func(q, t string) {
		ref, err := sigalign.NewReference([][]byte{[]byte(t)}, []string{"target"})
		checkError(err)

		qa, err := algn.Align(ref, []byte(q))
		checkError(err)

		if !*noOutput {
			var b strings.Builder
			samfmt.WriteRecords(&b, "query", []byte(q), qa)
			fmt.Fprint(outfh, b.String())
		}
	}

	if *infile == "" {
		if flag.NArg() != 2 {
			checkError(fmt.Errorf("if flag -i not given, please give me two sequences"))
		}
		falign2Seq(flag.Arg(0), flag.Arg(1))
		return
	}

	fh, err := os.Open(*infile)
	checkError(err)
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		q := scanner.Text()
		if !scanner.Scan() {
			break
		}
		t := scanner.Text()
		falign2Seq(strings.TrimPrefix(q, ">"), strings.TrimPrefix(t, "<"))
	}
	checkError(scanner.Err())
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
