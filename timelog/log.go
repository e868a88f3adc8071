// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timelog

import (
	"fmt"
	"io"
)

// A Log is the set of timing results from one log file, keyed by run
// name.
//
// If a run name appears more than once, the first occurrence wins.
type Log struct {
	names  []string
	byName map[string]*Result
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{byName: make(map[string]*Result)}
}

// Add adds res to l and reports whether it was added. It is not added
// if l already has a result with the same name.
func (l *Log) Add(res *Result) bool {
	if _, ok := l.byName[res.Name]; ok {
		return false
	}
	l.names = append(l.names, res.Name)
	l.byName[res.Name] = res
	return true
}

// Names returns the run names in l in the order they were first read.
func (l *Log) Names() []string {
	return append([]string(nil), l.names...)
}

// Lookup returns the result for run name.
func (l *Log) Lookup(name string) (*Result, bool) {
	res, ok := l.byName[name]
	return res, ok
}

// Len returns the number of runs in l.
func (l *Log) Len() int {
	return len(l.names)
}

// Parse reads a whole timing log. It returns the parsed Log and the
// lines that could not be used, either because no format recognized
// them or because they repeat a run name already seen. The returned
// error is non-nil only for I/O errors.
func Parse(r io.Reader, fileName string) (*Log, []*SyntaxError, error) {
	log := NewLog()
	var bad []*SyntaxError
	rd := NewReader(r, fileName)
	for rd.Scan() {
		switch rec := rd.Result().(type) {
		case *SyntaxError:
			bad = append(bad, rec)
		case *Result:
			if !log.Add(rec) {
				first, _ := log.Lookup(rec.Name)
				_, firstLine := first.Pos()
				bad = append(bad, &SyntaxError{
					FileName: rec.fileName,
					Line:     rec.line,
					Msg:      fmt.Sprintf("duplicate run name %q (first seen on line %d)", rec.Name, firstLine),
					Text:     FormatLine(rec),
				})
			}
		}
	}
	if err := rd.Err(); err != nil {
		return nil, bad, err
	}
	return log, bad, nil
}
