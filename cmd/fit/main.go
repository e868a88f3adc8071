// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fit estimates how inversion time grows with matrix order.
//
// Usage:
//
//	fit [-encoding enc] input_file
//
// The input is merge output. For every run name measured at three or
// more matrix sizes, fit reports a cubic fit T(n) = b + a·n³ and a
// general power law T(n) = b + a·nᶜ of the median time at each size.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/linalgbench/benchreduce/internal/textenc"
	"github.com/linalgbench/benchreduce/powerfit"
	"github.com/linalgbench/benchreduce/tables"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("fit: ")
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
	flags := flag.NewFlagSet("fit", flag.ContinueOnError)
	flags.SetOutput(wErr)
	encoding := flags.String("encoding", textenc.Default, "decode the input from `charset`")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: fit [options] input_file\noptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return flag.ErrHelp
	}

	f, err := os.Open(flags.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := textenc.NewReader(f, *encoding)
	if err != nil {
		return err
	}
	d, err := tables.Read(r, flags.Arg(0))
	if err != nil {
		return err
	}
	return powerfit.Write(w, powerfit.FitDataset(d))
}
