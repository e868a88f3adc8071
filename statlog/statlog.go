// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statlog reduces resource-usage logs to peak values.
//
// A resource log is written by a sampler that runs alongside one
// benchmark run. Lines of interest contain "CPU: <pct>%" and/or
// "Memory: <val>GiB"; everything else is ignored. The log for run X is
// named X_stats.log.
package statlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/linalgbench/benchreduce/internal/lineread"
)

// StatsSuffix is the file name suffix of resource logs.
const StatsSuffix = "_stats.log"

var (
	cpuPattern = regexp.MustCompile(`CPU: ([\d.]+)%`)
	memPattern = regexp.MustCompile(`Memory: ([\d.]+)GiB`)
)

// A Peak holds the largest CPU percentage and memory use (in GiB) seen
// so far in a resource log.
//
// The two maxima are tracked independently: the peak CPU and the peak
// memory may come from different lines.
type Peak struct {
	CPU    float64
	Memory float64
}

// Observe returns p updated with the values found in one log line.
func (p Peak) Observe(line string) Peak {
	if v, ok := match(cpuPattern, line); ok && v > p.CPU {
		p.CPU = v
	}
	if v, ok := match(memPattern, line); ok && v > p.Memory {
		p.Memory = v
	}
	return p
}

func match(re *regexp.Regexp, line string) (float64, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	// "[\d.]+" admits things like "1.2.3". Such a sample is
	// simply not a number.
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MaxLineLen is the longest resource log line Summarize looks at.
// Samplers write short lines; anything longer is skipped.
const MaxLineLen = 1 << 20

// Summarize folds every line of r into a Peak. Both maxima are 0 if no
// line matches. The only errors are I/O errors.
func Summarize(r io.Reader) (Peak, error) {
	var p Peak
	s := lineread.NewReader(r, MaxLineLen)
	for s.Scan() {
		if s.TooLong() {
			continue
		}
		p = p.Observe(s.Text())
	}
	return p, s.Err()
}

// A Summary is the Peak of one resource log file.
type Summary struct {
	// File is the base name of the log file.
	File string
	Peak
}

// SummarizeFile summarizes the resource log at path. Errors opening or
// reading the file name the path.
func SummarizeFile(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Summarize(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Summary{File: filepath.Base(path), Peak: p}, nil
}

// String formats s the way get_cpu_mem prints it:
//
//	<file> <cpu> % <mem> GB
func (s *Summary) String() string {
	return fmt.Sprintf("%s %.2f %% %.3f GB", s.File, s.CPU, s.Memory)
}

// Record converts s to a Record keyed by run name.
func (s *Summary) Record() *Record {
	return &Record{
		Name:   RunName(s.File),
		CPU:    s.CPU,
		Memory: fmt.Sprintf("%.3f GB", s.Memory),
	}
}

// RunName returns the run name for a resource log file name: the base
// name with StatsSuffix removed.
func RunName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), StatsSuffix)
}

// SummarizeDir summarizes every *_stats.log file directly inside dir
// and returns the records keyed by run name.
func SummarizeDir(dir string) (map[string]*Record, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Record)
	for _, ent := range ents {
		if !ent.Type().IsRegular() || !strings.HasSuffix(ent.Name(), StatsSuffix) {
			continue
		}
		sum, err := SummarizeFile(filepath.Join(dir, ent.Name()))
		if err != nil {
			return nil, err
		}
		rec := sum.Record()
		out[rec.Name] = rec
	}
	return out, nil
}
