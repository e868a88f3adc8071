// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package merge joins timing results with resource usage by run name.
//
// The join is an inner join. Runs that appear on only one side are not
// errors: a sampler may have been disabled for a run, or a run may
// have crashed before printing its time. Such runs are dropped from
// the merged records and listed in Result so callers can report them.
package merge

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/linalgbench/benchreduce/statlog"
	"github.com/linalgbench/benchreduce/timelog"
)

// A Record is one run with both its timing and its resource usage.
type Record struct {
	// Name is the timing log's run name that was joined on.
	Name string

	// BaseName is Name without its ".txt" and "_size_N" suffixes.
	BaseName string

	Size    int
	Elapsed float64 // seconds
	CPU     float64 // peak percent
	Memory  string  // peak, with unit

	// ElapsedText is Elapsed as the timing log wrote it, if known.
	ElapsedText string
}

// String formats r as one line of merge output:
//
//	<base> <size> <time> <cpu> <memory>
//
// The time is ElapsedText if set, so that it is copied through
// unchanged, and otherwise the shortest form of Elapsed.
func (r *Record) String() string {
	elapsed := r.ElapsedText
	if elapsed == "" {
		elapsed = strconv.FormatFloat(r.Elapsed, 'f', -1, 64)
	}
	s := fmt.Sprintf("%s %d %s %.2f %s", r.BaseName, r.Size, elapsed, r.CPU, r.Memory)
	return strings.TrimRight(s, " ")
}

// ParseRecord parses one line of merge output, as produced by
// Record.String. Name is set to the base name.
func ParseRecord(line string) (*Record, error) {
	f := strings.Fields(line)
	if len(f) < 4 {
		return nil, fmt.Errorf("want at least 4 fields, got %d", len(f))
	}
	size, err := strconv.Atoi(f[1])
	if err != nil {
		return nil, fmt.Errorf("parsing size: %w", err)
	}
	elapsed, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing time: %w", err)
	}
	cpu, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing cpu: %w", err)
	}
	return &Record{
		Name:        f[0],
		BaseName:    f[0],
		Size:        size,
		Elapsed:     elapsed,
		CPU:         cpu,
		Memory:      strings.Join(f[4:], " "),
		ElapsedText: f[2],
	}, nil
}

// A Result is the outcome of a Join.
type Result struct {
	// Records are the joined runs, in timing log order.
	Records []*Record

	// UnmatchedTiming lists timing run names with no resource
	// record, sorted.
	UnmatchedTiming []string

	// UnmatchedResources lists resource run names that no timing
	// result used, sorted.
	UnmatchedResources []string
}

// Lines returns the merge output lines for res, sorted.
func (res *Result) Lines() []string {
	lines := make([]string, len(res.Records))
	for i, r := range res.Records {
		lines[i] = r.String()
	}
	sort.Strings(lines)
	return lines
}

// Join joins the timing results in timings with the resource records
// in resources.
//
// Timing run names carry the producer's ".txt" file name while
// resource names are derived from the sampler's log file name, which
// may or may not include it. A timing name "X_size_N.txt" therefore
// matches the first of "X_size_N.txt", "X_size_N" and "X" present in
// resources.
func Join(timings *timelog.Log, resources map[string]*statlog.Record) *Result {
	res := new(Result)
	used := make(map[string]bool)
	for _, name := range timings.Names() {
		t, _ := timings.Lookup(name)
		key, ok := resolve(name, resources)
		if !ok {
			res.UnmatchedTiming = append(res.UnmatchedTiming, name)
			continue
		}
		used[key] = true
		r := resources[key]
		res.Records = append(res.Records, &Record{
			Name:        name,
			BaseName:    BaseName(name),
			Size:        t.Size,
			Elapsed:     t.Elapsed,
			CPU:         r.CPU,
			Memory:      r.Memory,
			ElapsedText: t.ElapsedText,
		})
	}
	for name := range resources {
		if !used[name] {
			res.UnmatchedResources = append(res.UnmatchedResources, name)
		}
	}
	sort.Strings(res.UnmatchedTiming)
	sort.Strings(res.UnmatchedResources)
	return res
}

// resolve returns the key in resources that timing name name joins
// with.
func resolve(name string, resources map[string]*statlog.Record) (string, bool) {
	for _, key := range []string{name, strings.TrimSuffix(name, ".txt"), BaseName(name)} {
		if _, ok := resources[key]; ok {
			return key, true
		}
	}
	return "", false
}

var sizeSuffix = regexp.MustCompile(`^(.*)_size_\d+$`)

// BaseName strips a trailing ".txt" and then a trailing "_size_<digits>"
// from name. Names without a size segment are returned with only the
// ".txt" removed.
func BaseName(name string) string {
	name = strings.TrimSuffix(name, ".txt")
	if m := sizeSuffix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}
