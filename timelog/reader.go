// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timelog reads the timing logs written by the benchmark
// harness.
//
// A timing log is line-oriented text. Each useful line names one
// benchmark run, the matrix size it ran at, and the time it took,
// for example
//
//	cholesky_mkl_size_2500.txt: Среднее время 0.06711 секунд
//
// Producers have changed their output several times, so the Reader
// tries an ordered list of Formats on each line and takes the first
// that matches. Lines that match none are returned as *SyntaxError
// records; they are not fatal.
package timelog

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/linalgbench/benchreduce/internal/lineread"
)

// MaxLineLen is the longest line a Reader parses. Longer lines are
// reported as *SyntaxError records.
const MaxLineLen = 64 << 10

// A Record is one item read from a timing log. It is either a *Result
// or a *SyntaxError.
type Record interface {
	// Pos returns the file name and 1-based line number this
	// record was read from.
	Pos() (fileName string, line int)
}

// A Result is a single timing record.
type Result struct {
	// Name identifies the run. For current producers this is the
	// name of the run's output file, including its "_size_N.txt"
	// suffix.
	Name string

	// Size is the matrix dimension the run used.
	Size int

	// Elapsed is the run's time in seconds.
	Elapsed float64

	// ElapsedText is Elapsed as it was written in the log.
	ElapsedText string

	// Format is the name of the Format that recognized the line.
	Format string

	fileName string
	line     int
}

// Pos returns the position Result r was read from.
func (r *Result) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// A SyntaxError reports a line that could not be parsed.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string

	// Text is the offending line.
	Text string
}

// Pos returns the position of the bad line.
func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

var _ Record = (*Result)(nil)
var _ Record = (*SyntaxError)(nil)

// A Reader reads timing records from a log.
//
// Its API is modeled on bufio.Scanner.
type Reader struct {
	s        *lineread.Reader
	fileName string
	line     int
	formats  []Format

	rec Record
	err error
}

// NewReader returns a Reader that parses the timing log in r using the
// built-in formats. fileName is used only in diagnostics.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &Reader{
		s:        lineread.NewReader(r, MaxLineLen),
		fileName: fileName,
		formats:  Formats(),
	}
}

// AddFormat appends f to the formats tried by r. It is tried after all
// formats already known to r.
func (r *Reader) AddFormat(f Format) {
	r.formats = append(r.formats, f)
}

// Scan advances to the next record and reports whether there was one.
// Blank lines are skipped without producing a record. When Scan
// returns false, the caller should check Err.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		text := r.s.Text()
		if r.s.TooLong() {
			r.rec = r.syntaxError(abbrev(text), fmt.Sprintf("line too long (%d bytes, limit %d)", r.s.Len(), MaxLineLen))
			return true
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		r.rec = r.parseLine(text)
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
	}
	return false
}

func (r *Reader) parseLine(text string) Record {
	for _, f := range r.formats {
		m := f.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name, size, elapsedText, err := f.Extract(m)
		if err != nil {
			return r.syntaxError(text, err.Error())
		}
		elapsed, err := strconv.ParseFloat(elapsedText, 64)
		if err != nil {
			return r.syntaxError(text, fmt.Sprintf("parsing elapsed time: %v", err))
		}
		return &Result{
			Name:        name,
			Size:        size,
			Elapsed:     elapsed,
			ElapsedText: elapsedText,
			Format:      f.Name,
			fileName:    r.fileName,
			line:        r.line,
		}
	}
	return r.syntaxError(text, "unrecognized timing line")
}

// abbrev shortens a too-long line for use in diagnostics.
func abbrev(text string) string {
	const n = 80
	if len(text) <= n {
		return text
	}
	i := n
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return text[:i] + "..."
}

func (r *Reader) syntaxError(text, msg string) *SyntaxError {
	return &SyntaxError{FileName: r.fileName, Line: r.line, Msg: msg, Text: text}
}

// Result returns the record read by the last call to Scan.
func (r *Reader) Result() Record {
	return r.rec
}

// Err returns the first I/O error encountered by r.
func (r *Reader) Err() error {
	return r.err
}
