// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runlog extracts timings from the raw output of a single
// benchmark program and reduces them to the one-line averages that
// package timelog reads.
//
// A run log is whatever a benchmark program printed while it ran,
// usually several repetitions of the same inversion. Each repetition
// reports its wall time on a line such as
//
//	Время, затраченное на обращение матрицы размерности 500x500: 0.0123 секунд
//	Time to invert 500x500 matrix: 0.0123 seconds
//
// Some programs also report whether the computed inverse checked out
// and what the matrix size was.
package runlog

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/linalgbench/benchreduce/internal/lineread"
)

// timePatterns are the timing line shapes, tried in order. The last
// submatch of each is the elapsed time in seconds. Patterns that
// report the size do so in the submatch named "n".
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Время, затраченное на обращение матрицы размерности (?P<n>\d+)x(\d+): ([\d.]+) секунд`),
	regexp.MustCompile(`Время, затраченное на обращение матрицы(?: \(разложение Холецкого\)| \(QR-разложение\))?: ([\d.]+) секунд`),
	regexp.MustCompile(`Time to invert (?P<n>\d+)x(\d+) matrix: ([\d.]+) seconds`),
	regexp.MustCompile(`Time for (?:LU|QR) decomposition and inversion: ([\d.]+) seconds`),
}

var (
	correctRe  = regexp.MustCompile(`Корректность обращения матрицы: (True|False)`)
	maxErrRe   = regexp.MustCompile(`Maximum error in inverse verification: ([-+\d.eE]+)`)
	dockerRe   = regexp.MustCompile(`Running docker run \S+ (\d+)`)
	sizeLineRe = regexp.MustCompile(`Matrix size: (\d+)x(\d+)`)
)

// A Run is what was extracted from one run log.
type Run struct {
	// Times holds each reported elapsed time in seconds, in the
	// order reported.
	Times []float64

	// Size is the matrix order, or 0 if the log never stated it.
	Size int

	// Checks holds each reported correctness verdict.
	Checks []bool

	// MaxErrors holds each reported maximum verification error.
	MaxErrors []float64
}

// Summarize scans a run log.
func Summarize(r io.Reader) (*Run, error) {
	run := new(Run)
	s := lineread.NewReader(r, 0)
	for s.Scan() {
		if s.TooLong() {
			continue
		}
		run.observe(strings.TrimSpace(s.Text()))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return run, nil
}

func (run *Run) observe(line string) {
	for _, re := range timePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// Square matrices only.
		if i := re.SubexpIndex("n"); i >= 0 {
			if m[i] != m[i+1] {
				break
			}
			if n, err := strconv.Atoi(m[i]); err == nil {
				run.Size = n
			}
		}
		if t, err := strconv.ParseFloat(m[len(m)-1], 64); err == nil {
			run.Times = append(run.Times, t)
		}
		break
	}
	if m := correctRe.FindStringSubmatch(line); m != nil {
		run.Checks = append(run.Checks, m[1] == "True")
	}
	if m := maxErrRe.FindStringSubmatch(line); m != nil {
		if e, err := strconv.ParseFloat(m[1], 64); err == nil {
			run.MaxErrors = append(run.MaxErrors, e)
		}
	}
	for _, re := range []*regexp.Regexp{dockerRe, sizeLineRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			if len(m) == 3 && m[1] != m[2] {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil {
				run.Size = n
			}
		}
	}
}

// Mean returns the mean of the reported times, or NaN if there are
// none.
func (run *Run) Mean() float64 {
	return stats.Mean(run.Times)
}

// Median returns the median of the reported times, or NaN if there
// are none.
func (run *Run) Median() float64 {
	return stats.Sample{Xs: run.Times}.Quantile(0.5)
}

// Correct reports whether every correctness verdict was True. It
// returns false if there were none.
func (run *Run) Correct() bool {
	if len(run.Checks) == 0 {
		return false
	}
	for _, ok := range run.Checks {
		if !ok {
			return false
		}
	}
	return true
}

// AverageLine formats a summary line for file in the form package
// timelog reads, using the mean of the times.
func (run *Run) AverageLine(file string) string {
	return FormatAverage(file, run.Mean())
}

// FormatAverage formats a summary line for file with the average time
// avg. If avg is NaN, the line reports that no time was found.
func FormatAverage(file string, avg float64) string {
	if math.IsNaN(avg) {
		return fmt.Sprintf("%s: Время не найдено", file)
	}
	return fmt.Sprintf("%s: Среднее время %.5f секунд", file, avg)
}

// CheckHeader names the columns of the rows CheckRows returns.
var CheckHeader = []string{"file", "size", "time", "correct", "max_error"}

// CheckRows pairs each time with its correctness verdict, one row per
// repetition. Rows name the base name of file and write verdicts as
// True or False. The max_error column is filled only when the log
// reported one maximum error per time. It fails if the log reported a
// different number of times and verdicts.
func (run *Run) CheckRows(file string) ([][]string, error) {
	if len(run.Times) != len(run.Checks) {
		return nil, fmt.Errorf("%s: %d times but %d correctness checks", file, len(run.Times), len(run.Checks))
	}
	size := ""
	if run.Size > 0 {
		size = strconv.Itoa(run.Size)
	}
	base := filepath.Base(file)
	rows := make([][]string, len(run.Times))
	for i, t := range run.Times {
		verdict := "False"
		if run.Checks[i] {
			verdict = "True"
		}
		maxErr := ""
		if len(run.MaxErrors) == len(run.Times) {
			maxErr = strconv.FormatFloat(run.MaxErrors[i], 'g', -1, 64)
		}
		rows[i] = []string{base, size, strconv.FormatFloat(t, 'f', -1, 64), verdict, maxErr}
	}
	return rows, nil
}
