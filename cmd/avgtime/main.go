// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Avgtime averages the inversion times reported in benchmark output
// files.
//
// Usage:
//
//	avgtime [-median] [-checks file.csv] [-encoding enc] file...
//
// For each file it prints one line,
//
//	<file>: Среднее время <seconds> секунд
//
// or "<file>: Время не найдено" if the file reports no time. The
// output is the timing log that merge reads.
//
// With -checks, every reported time is also written to a CSV file
// together with its correctness verdict and, when the program reported
// one per repetition, its maximum verification error.
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/linalgbench/benchreduce/internal/textenc"
	"github.com/linalgbench/benchreduce/runlog"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("avgtime: ")
	log.SetFlags(0)
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		exit(2)
	} else if err != nil {
		log.Print(err)
		exit(1)
	}
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("avgtime", flag.ContinueOnError)
	flags.SetOutput(wErr)
	median := flags.Bool("median", false, "report the median instead of the mean")
	checks := flags.String("checks", "", "write times and correctness verdicts to CSV `file`")
	encoding := flags.String("encoding", textenc.Default, "decode inputs from `charset`")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: avgtime [options] file...\noptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return flag.ErrHelp
	}

	var rows [][]string
	for _, file := range flags.Args() {
		rl, err := summarize(file, *encoding)
		if err != nil {
			return err
		}
		avg := rl.Mean()
		if *median {
			avg = rl.Median()
		}
		fmt.Fprintln(w, runlog.FormatAverage(file, avg))
		if *checks != "" {
			r, err := rl.CheckRows(file)
			if err != nil {
				return err
			}
			rows = append(rows, r...)
		}
	}
	if *checks == "" {
		return nil
	}
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write(runlog.CheckHeader)
	cw.WriteAll(rows)
	if err := cw.Error(); err != nil {
		return err
	}
	return os.WriteFile(*checks, buf.Bytes(), 0666)
}

func summarize(file, encoding string) (*runlog.Run, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := textenc.NewReader(f, encoding)
	if err != nil {
		return nil, err
	}
	rl, err := runlog.Summarize(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return rl, nil
}
