// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timelog

import (
	"fmt"
	"regexp"
	"strconv"
)

// A Format recognizes one shape of timing line.
//
// Pattern is matched against the whole line. Extract converts the
// submatches of a successful match into a run name, matrix size, and
// the text of the elapsed time in seconds, which the Reader parses as
// a float. If Extract or that parse fails, the line is
// reported as a *SyntaxError with that message and no later Format is
// tried: the line had the right shape, but bad contents.
type Format struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(m []string) (name string, size int, elapsed string, err error)
}

// The producer formats seen so far, oldest producers last. New
// producers get a new Format appended to builtinFormats; existing
// entries are never edited, so that old logs keep parsing the same way.
var builtinFormats = []Format{
	{
		// Written by avgtime on Russian-locale hosts.
		Name:    "ru-average",
		Pattern: regexp.MustCompile(`^(.+_size_(\d+)\.txt): Среднее время ([\d.]+) секунд`),
		Extract: nameSizeTime,
	},
	{
		// Same producer, English locale.
		Name:    "en-average",
		Pattern: regexp.MustCompile(`^(.+_size_(\d+)\.txt): Average time ([\d.]+) seconds`),
		Extract: nameSizeTime,
	},
	{
		// Early producers printed the size explicitly.
		Name:    "legacy",
		Pattern: regexp.MustCompile(`^(.+): (\d+) ([\d.]+)`),
		Extract: nameSizeTime,
	},
}

// Formats returns a copy of the built-in formats in the order they are
// tried.
func Formats() []Format {
	return append([]Format(nil), builtinFormats...)
}

// nameSizeTime extracts a (name, size, time) triple from submatches
// 1, 2 and 3.
func nameSizeTime(m []string) (name string, size int, elapsed string, err error) {
	size, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", fmt.Errorf("parsing matrix size: %w", err)
	}
	if size <= 0 {
		return "", 0, "", fmt.Errorf("matrix size %d is not positive", size)
	}
	return m[1], size, m[3], nil
}
