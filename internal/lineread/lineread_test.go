// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lineread

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type line struct {
	Text    string
	Len     int
	TooLong bool
}

func readAll(t *testing.T, r io.Reader, limit int) []line {
	t.Helper()
	lr := NewReader(r, limit)
	var out []line
	for lr.Scan() {
		out = append(out, line{lr.Text(), lr.Len(), lr.TooLong()})
	}
	if err := lr.Err(); err != nil {
		t.Fatal("reading failed: ", err)
	}
	return out
}

func TestScan(t *testing.T) {
	for _, test := range []struct {
		name  string
		in    string
		limit int
		want  []line
	}{
		{"empty", "", 10, nil},
		{"no final newline", "a\nbc", 10, []line{{"a", 1, false}, {"bc", 2, false}}},
		{"crlf", "a\r\n\r\nb\r", 10, []line{{"a", 1, false}, {"", 0, false}, {"b", 1, false}}},
		{"at limit", "abcd\nabcd\r\n", 4, []line{{"abcd", 4, false}, {"abcd", 4, false}}},
		{"over limit", "abcdef\nok\n", 4, []line{{"abcd", 6, true}, {"ok", 2, false}}},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := readAll(t, strings.NewReader(test.in), test.limit)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("lines differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLongerThanBuffer(t *testing.T) {
	// Several times bufio's default buffer, and past DefaultLimit.
	long := strings.Repeat("x", 2*DefaultLimit)
	got := readAll(t, strings.NewReader("first\n"+long+"\nlast\n"), 0)
	want := []line{
		{"first", 5, false},
		{long[:DefaultLimit], len(long), true},
		{"last", 4, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines differ (-want +got):\n%s", diff)
	}

	mid := strings.Repeat("y", 5*bufio.MaxScanTokenSize)
	got = readAll(t, strings.NewReader(mid+"\n"), 0)
	if len(got) != 1 || got[0].Text != mid || got[0].TooLong {
		t.Errorf("want one full %d-byte line, got %d lines", len(mid), len(got))
	}
}

type failingReader struct{ data string }

var errBroken = errors.New("broken pipe")

func (f *failingReader) Read(p []byte) (int, error) {
	if f.data == "" {
		return 0, errBroken
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestErr(t *testing.T) {
	lr := NewReader(&failingReader{"a\nb"}, 0)
	if !lr.Scan() || lr.Text() != "a" {
		t.Fatalf("want first line %q", "a")
	}
	if lr.Scan() {
		t.Fatalf("want Scan to fail, got line %q", lr.Text())
	}
	if !errors.Is(lr.Err(), errBroken) {
		t.Errorf("want %v, got %v", errBroken, lr.Err())
	}
}
