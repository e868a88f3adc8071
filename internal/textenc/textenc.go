// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package textenc resolves the character encoding of benchmark logs.
//
// Timing logs are written by producers running on different hosts and
// locales. Most are UTF-8, but older Windows hosts wrote the Russian
// prose lines in windows-1251 and some Linux hosts in koi8-r.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Default is the encoding assumed when none is given.
const Default = "utf-8"

// Lookup returns the encoding registered under name. Names follow the
// WHATWG encoding standard, so "cp1251", "windows-1251" and "koi8-r"
// are all accepted. Lookup returns nil for UTF-8, which needs no
// decoding.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = Default
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == Default {
		return nil, nil
	}
	return enc, nil
}

// NewReader wraps r so that it yields UTF-8 text decoded from the
// named encoding.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}
