// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Get_cpu_mem reports the peak CPU and memory use recorded in a
// resource log.
//
// Usage:
//
//	get_cpu_mem [-encoding enc] log_file
//
// A resource log is written by a sampler running alongside a
// benchmark and holds lines containing "CPU: <pct>%" and
// "Memory: <n>GiB". get_cpu_mem prints
//
//	<log_file base name> <peak cpu> % <peak mem> GB
//
// which is the line format merge reads as a resource file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/linalgbench/benchreduce/internal/textenc"
	"github.com/linalgbench/benchreduce/statlog"
)

var exit = os.Exit // replaced during testing

// errArgs reports a wrong number of arguments. Usage has already been
// printed.
var errArgs = errors.New("wrong number of arguments")

func main() {
	log.SetPrefix("get_cpu_mem: ")
	log.SetFlags(0)
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		exit(2)
	} else if errors.Is(err, errArgs) {
		exit(1)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		exit(1)
	}
}

// A notFileError reports a path that is not an existing regular file.
type notFileError struct {
	path string
}

func (e *notFileError) Error() string {
	return fmt.Sprintf("File %s does not exist", e.path)
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("get_cpu_mem", flag.ContinueOnError)
	flags.SetOutput(wErr)
	encoding := flags.String("encoding", textenc.Default, "decode the log from `charset`")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: get_cpu_mem [options] log_file\noptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errArgs
	}
	path := flags.Arg(0)

	// Check before opening so that a directory or a dangling name
	// is reported the same way.
	if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
		return &notFileError{path}
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := textenc.NewReader(f, *encoding)
	if err != nil {
		return err
	}
	p, err := statlog.Summarize(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	sum := &statlog.Summary{File: filepath.Base(path), Peak: p}
	_, err = fmt.Fprintln(w, sum)
	return err
}
