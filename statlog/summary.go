// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statlog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linalgbench/benchreduce/internal/lineread"
)

// A Record is the resource usage of one run.
type Record struct {
	// Name is the run name, derived from the resource log's file
	// name with StatsSuffix removed.
	Name string

	// CPU is the peak CPU percentage.
	CPU float64

	// Memory is the peak memory use with its unit, for example
	// "2.500 GB".
	Memory string
}

// A SyntaxError reports a summary line that could not be used.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
	Text     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// maxSummaryLen is the longest line ParseSummaries parses.
const maxSummaryLen = 64 << 10

// ParseSummaries reads a file of get_cpu_mem output lines, one per
// run, and returns the records keyed by run name. Each line has the
// form
//
//	<name>_stats.log <cpu> % <mem> <unit>
//
// Memory is everything in the fourth and fifth fields. Lines with
// fewer than two fields, lines longer than 64 KiB, an unparsable CPU value, or a repeated run
// name are reported in the returned slice; the first record for a name
// wins. The error is non-nil only for I/O errors.
func ParseSummaries(r io.Reader, fileName string) (map[string]*Record, []*SyntaxError, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	out := make(map[string]*Record)
	firstLine := make(map[string]int)
	var bad []*SyntaxError
	s := lineread.NewReader(r, maxSummaryLen)
	n := 0
	for s.Scan() {
		n++
		text := s.Text()
		fail := func(format string, args ...interface{}) {
			bad = append(bad, &SyntaxError{fileName, n, fmt.Sprintf(format, args...), text})
		}
		if s.TooLong() {
			text = text[:80] + "..."
			fail("line too long (%d bytes, limit %d)", s.Len(), maxSummaryLen)
			continue
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			fail("want at least 2 fields, got %d", len(fields))
			continue
		}
		cpu, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			fail("parsing CPU percentage: %v", err)
			continue
		}
		name := RunName(fields[0])
		if first, ok := firstLine[name]; ok {
			fail("duplicate run name %q (first seen on line %d)", name, first)
			continue
		}
		var mem string
		if len(fields) > 3 {
			mem = strings.Join(fields[3:min(5, len(fields))], " ")
		}
		firstLine[name] = n
		out[name] = &Record{Name: name, CPU: cpu, Memory: mem}
	}
	if err := s.Err(); err != nil {
		return nil, bad, fmt.Errorf("%s:%d: %w", fileName, n+1, err)
	}
	return out, bad, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
