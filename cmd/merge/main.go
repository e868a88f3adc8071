// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Merge joins a timing log with resource usage summaries and prints
// one line per run:
//
//	<name> <size> <time> <cpu> <mem> <unit>
//
// Usage:
//
//	merge [-encoding enc] [-v] time_file resource_file
//
// The time file holds lines such as
//
//	cho_mkl_size_2500.txt: Среднее время 0.06711 секунд
//
// as written by avgtime. The resource file is either a file of
// get_cpu_mem output lines or a directory of *_stats.log resource
// logs, which are summarized directly.
//
// Lines that cannot be parsed are reported on stderr and skipped.
// Runs present in only one of the inputs are dropped; -v lists them.
// Output lines are sorted.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/linalgbench/benchreduce/internal/textenc"
	"github.com/linalgbench/benchreduce/merge"
	"github.com/linalgbench/benchreduce/statlog"
	"github.com/linalgbench/benchreduce/timelog"
)

var exit = os.Exit // replaced during testing

// errArgs reports a wrong number of arguments. Usage has already been
// printed.
var errArgs = errors.New("wrong number of arguments")

func main() {
	log.SetPrefix("merge: ")
	log.SetFlags(0)
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		exit(2)
	} else if errors.Is(err, errArgs) {
		exit(1)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		exit(1)
	}
}

// errorLine formats a fatal error for the user.
func errorLine(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) && errors.Is(err, fs.ErrNotExist) {
		return "Error: Could not find file - " + pe.Path
	}
	return "Error: " + err.Error()
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("merge", flag.ContinueOnError)
	flags.SetOutput(wErr)
	encoding := flags.String("encoding", textenc.Default, "decode inputs from `charset`")
	verbose := flags.Bool("v", false, "list runs that appear in only one input")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: merge [options] time_file resource_file\noptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return errArgs
	}
	if _, err := textenc.Lookup(*encoding); err != nil {
		return err
	}
	warn := func(text string, err error) {
		fmt.Fprintf(wErr, "Warning: Could not parse line: %s (%v)\n", text, err)
	}

	timings, err := readTimings(flags.Arg(0), *encoding, warn)
	if err != nil {
		return err
	}
	resources, err := readResources(flags.Arg(1), *encoding, warn)
	if err != nil {
		return err
	}

	res := merge.Join(timings, resources)
	for _, line := range res.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if *verbose {
		l := log.New(wErr, "merge: ", 0)
		for _, name := range res.UnmatchedTiming {
			l.Printf("no resource usage for %s", name)
		}
		for _, name := range res.UnmatchedResources {
			l.Printf("no timing for %s", name)
		}
	}
	return nil
}

func readTimings(path, encoding string, warn func(string, error)) (*timelog.Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := textenc.NewReader(f, encoding)
	if err != nil {
		return nil, err
	}
	l, bad, err := timelog.Parse(r, path)
	for _, e := range bad {
		warn(e.Text, e)
	}
	return l, err
}

func readResources(path, encoding string, warn func(string, error)) (map[string]*statlog.Record, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return statlog.SummarizeDir(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := textenc.NewReader(f, encoding)
	if err != nil {
		return nil, err
	}
	recs, bad, err := statlog.ParseSummaries(r, path)
	for _, e := range bad {
		warn(e.Text, e)
	}
	return recs, err
}
