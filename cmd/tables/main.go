// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Tables splits a merged benchmark dataset into one table per matrix
// size.
//
// Usage:
//
//	tables [-html] [-encoding enc] input_file
//
// The input is merge output, one run per line:
//
//	<name> <size> <time,sec> <cpu,%> <mem>[GB] [unit]
//
// For each size, in increasing order, tables prints a ruled table of
// the runs of that size ordered by name, and writes the same runs in
// input order to <input>_<size>_output.csv next to the input file.
// With -html, the tables are printed as an HTML page instead and the
// names of the CSV files are reported on stderr.
//
// Any malformed line is fatal and no CSV file is written.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/linalgbench/benchreduce/internal/textenc"
	"github.com/linalgbench/benchreduce/tables"
)

var exit = os.Exit // replaced during testing

// errArgs reports a wrong number of arguments. Usage has already been
// printed.
var errArgs = errors.New("wrong number of arguments")

func main() {
	log.SetPrefix("tables: ")
	log.SetFlags(0)
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		exit(2)
	} else if errors.Is(err, errArgs) {
		exit(1)
	} else if err != nil {
		for _, line := range diagnose(err) {
			fmt.Fprintln(os.Stderr, line)
		}
		exit(1)
	}
}

// diagnose describes err for the user, one line per wrapped cause.
func diagnose(err error) []string {
	var pe *fs.PathError
	if errors.As(err, &pe) && errors.Is(err, fs.ErrNotExist) {
		return []string{"Error: Could not find file - " + pe.Path}
	}
	lines := []string{"An error occurred: " + err.Error()}
	var se *tables.SyntaxError
	if errors.As(err, &se) {
		lines = append(lines, fmt.Sprintf("\t%s:%d: %s", se.FileName, se.Line, se.Text))
	}
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		lines = append(lines, fmt.Sprintf("\tcaused by %T: %v", e, e))
	}
	return lines
}

// An output is one CSV file to write.
type output struct {
	size int
	path string
	data []byte
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("tables", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flagHTML := flags.Bool("html", false, "print tables as an HTML page")
	encoding := flags.String("encoding", textenc.Default, "decode the input from `charset`")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: tables [options] input_file\noptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errArgs
	}
	input := flags.Arg(0)

	d, err := readDataset(input, *encoding)
	if err != nil {
		return err
	}
	groups := d.Groups()

	// Render everything before touching the file system.
	var text bytes.Buffer
	if *flagHTML {
		text.WriteString(htmlHeader)
		if err := tables.WriteHTML(&text, groups); err != nil {
			return err
		}
		text.WriteString(htmlFooter)
	}
	outputs := make([]output, len(groups))
	for i, g := range groups {
		var buf bytes.Buffer
		if err := tables.WriteCSV(&buf, g); err != nil {
			return err
		}
		outputs[i] = output{g.Size, tables.OutputPath(input, g.Size), buf.Bytes()}
	}

	if *flagHTML {
		if _, err := w.Write(text.Bytes()); err != nil {
			return err
		}
	}
	for i, out := range outputs {
		if !*flagHTML {
			if err := tables.WriteText(w, groups[i]); err != nil {
				return err
			}
		}
		if err := os.WriteFile(out.path, out.data, 0666); err != nil {
			return err
		}
		msg := w
		if *flagHTML {
			msg = wErr
		}
		fmt.Fprintf(msg, "\nResult for size %d saved to %s\n", out.size, out.path)
	}
	return nil
}

func readDataset(path, encoding string) (*tables.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := textenc.NewReader(f, encoding)
	if err != nil {
		return nil, err
	}
	return tables.Read(r, path)
}

var htmlHeader = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark Results by Matrix Size</title>
<style>
.benchreduce { border-collapse: collapse; }
.benchreduce th { border-bottom: 1px solid #666; }
.benchreduce td:nth-child(1n+2) { text-align: right; padding: 0em 1em; }
</style>
</head>
<body>
`
var htmlFooter = `</body>
</html>
`
