// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/linalgbench/benchreduce/internal/golden"
)

// workdir copies testdata/name into a fresh directory and returns the
// directory and the absolute path of testdata.
func workdir(t *testing.T, name, content string) (dir, testdata string) {
	t.Helper()
	testdata, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatal(err)
	}
	if content == "" {
		data, err := os.ReadFile(filepath.Join(testdata, name))
		if err != nil {
			t.Fatal(err)
		}
		content = string(data)
	}
	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return dir, testdata
}

func TestTables(t *testing.T) {
	dir, testdata := workdir(t, "data.txt", "")
	var out, outErr bytes.Buffer
	golden.InDir(t, dir, func() {
		if err := run(&out, &outErr, []string{"data.txt"}); err != nil {
			t.Fatal(err)
		}
	})
	golden.Compare(t, filepath.Join(testdata, "data.stdout"), out.Bytes())
	golden.Compare(t, filepath.Join(testdata, "data.stderr"), outErr.Bytes())
	for _, size := range []string{"2500", "5000"} {
		got, err := os.ReadFile(filepath.Join(dir, "data_"+size+"_output.csv"))
		if err != nil {
			t.Fatal(err)
		}
		golden.Compare(t, filepath.Join(testdata, "data_"+size+".csv"), got)
	}
}

func TestHTML(t *testing.T) {
	dir, _ := workdir(t, "data.txt", "")
	var out, outErr bytes.Buffer
	golden.InDir(t, dir, func() {
		if err := run(&out, &outErr, []string{"-html", "data.txt"}); err != nil {
			t.Fatal(err)
		}
	})
	for _, want := range []string{"<!doctype html>", "<h2>Size: 2500</h2>", "<tr><td>lu_mkl<td>0.393082<td>98.250000<td>\n", "</html>"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
	want := "\nResult for size 2500 saved to data_2500_output.csv\n\nResult for size 5000 saved to data_5000_output.csv\n"
	if outErr.String() != want {
		t.Errorf("stderr = %q, want %q", outErr.String(), want)
	}
	if _, err := os.Stat(filepath.Join(dir, "data_5000_output.csv")); err != nil {
		t.Error(err)
	}
}

func TestMalformed(t *testing.T) {
	dir, _ := workdir(t, "bad.txt", "cho_mkl 2500 0.067106 99.50 1.250 GB\ncho_mkl x 0.1 1 1 GB\n")
	var out, outErr bytes.Buffer
	var err error
	golden.InDir(t, dir, func() {
		err = run(&out, &outErr, []string{"bad.txt"})
	})
	if err == nil {
		t.Fatal("want error")
	}
	want := []string{
		`An error occurred: bad.txt:2: parsing size: strconv.Atoi: parsing "x": invalid syntax`,
		"\tbad.txt:2: cho_mkl x 0.1 1 1 GB",
		`	caused by *strconv.NumError: strconv.Atoi: parsing "x": invalid syntax`,
		"\tcaused by *errors.errorString: invalid syntax",
	}
	if diff := cmp.Diff(want, diagnose(err)); diff != "" {
		t.Errorf("diagnostic differs (-want +got):\n%s", diff)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
	ents, _ := os.ReadDir(dir)
	if len(ents) != 1 {
		t.Errorf("malformed input left %d files, want only bad.txt", len(ents))
	}
}

func TestMissing(t *testing.T) {
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{filepath.Join(t.TempDir(), "missing.txt")})
	got := diagnose(err)
	if len(got) != 1 || !strings.HasPrefix(got[0], "Error: Could not find file - ") || !strings.HasSuffix(got[0], "missing.txt") {
		t.Errorf("diagnose = %q", got)
	}
}

func TestExitCodes(t *testing.T) {
	defer func(args []string, e func(int)) { os.Args, exit = args, e }(os.Args, exit)
	for _, test := range []struct {
		args []string
		want int
	}{
		{nil, 1},
		{[]string{"a.txt", "b.txt"}, 1},
		{[]string{"-h"}, 2},
	} {
		code := 0
		exit = func(c int) { code = c }
		os.Args = append([]string{"tables"}, test.args...)
		main()
		if code != test.want {
			t.Errorf("tables %v: exit %d, want %d", test.args, code, test.want)
		}
	}
}
