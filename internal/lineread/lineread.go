// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lineread reads newline-terminated lines of any length.
//
// Unlike bufio.Scanner, a Reader never fails on a long line. It keeps
// at most a fixed number of bytes of each line and reports lines that
// exceeded it, so callers can skip them and carry on.
package lineread

import (
	"bufio"
	"io"
)

// DefaultLimit is the longest line kept in full by readers created
// with a zero limit.
const DefaultLimit = 1 << 20

// A Reader reads lines. Its API is modeled on bufio.Scanner.
type Reader struct {
	br    *bufio.Reader
	limit int

	buf []byte
	n   int // length of the current line, without its terminator
	err error
}

// NewReader returns a Reader that keeps lines of up to limit bytes.
// If limit <= 0, DefaultLimit is used.
func NewReader(r io.Reader, limit int) *Reader {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Reader{br: bufio.NewReader(r), limit: limit}
}

// Scan advances to the next line and reports whether there was one.
// A final line without a newline counts. When Scan returns false, the
// caller should check Err.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	r.buf = r.buf[:0]
	r.n = 0
	read := false
	for {
		frag, err := r.br.ReadSlice('\n')
		if len(frag) > 0 {
			read = true
		}
		if err == nil {
			frag = frag[:len(frag)-1]
		}
		r.n += len(frag)
		// Keep one byte past the limit so a "\r" just past it can be
		// told apart from real content.
		if room := r.limit + 1 - len(r.buf); room > 0 {
			if len(frag) > room {
				frag = frag[:room]
			}
			r.buf = append(r.buf, frag...)
		}
		switch err {
		case nil:
			r.dropCR()
			return true
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			r.err = io.EOF
			r.dropCR()
			return read
		default:
			r.err = err
			return false
		}
	}
}

func (r *Reader) dropCR() {
	if r.n == len(r.buf) && r.n > 0 && r.buf[r.n-1] == '\r' {
		r.buf = r.buf[:r.n-1]
		r.n--
	}
}

// Text returns the current line without its line terminator. For a
// line that is TooLong, only the first limit bytes are returned.
func (r *Reader) Text() string {
	if len(r.buf) > r.limit {
		return string(r.buf[:r.limit])
	}
	return string(r.buf)
}

// Len returns the full length of the current line in bytes.
func (r *Reader) Len() int {
	return r.n
}

// TooLong reports whether the current line was longer than the limit.
func (r *Reader) TooLong() bool {
	return r.n > r.limit
}

// Err returns the first non-EOF error encountered by r.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}
