// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package golden compares command output against files in testdata.
package golden

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// A Main runs a command with args, writing to w and wErr.
type Main func(w, wErr io.Writer, args []string) error

// Run runs cmd with args inside testdata and compares its stdout and
// stderr with testdata/<name>.stdout and testdata/<name>.stderr.
func Run(t *testing.T, cmd Main, name string, args ...string) {
	t.Helper()
	var got, gotErr bytes.Buffer
	InDir(t, "testdata", func() {
		t.Logf("%s", strings.Join(args, " "))
		if err := cmd(&got, &gotErr, args); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		Compare(t, name+".stdout", got.Bytes())
		Compare(t, name+".stderr", gotErr.Bytes())
	})
}

// InDir runs f with the working directory set to dir.
func InDir(t *testing.T, dir string, f func()) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	f()
}

// Compare compares got with the contents of wantPath. A missing file
// is treated as empty. On mismatch it reports a diff and writes got
// next to wantPath for reference.
func Compare(t *testing.T, wantPath string, got []byte) {
	t.Helper()
	want, err := os.ReadFile(wantPath)
	if err != nil {
		if os.IsNotExist(err) {
			want = nil
		} else {
			t.Fatal(err)
		}
	}

	if !diff(t, want, got) {
		return
	}
	// diff printed the error.

	ext := filepath.Ext(wantPath)
	gotPath := strings.TrimSuffix(wantPath, ext) + ".got-" + strings.TrimPrefix(ext, ".")
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}

func diff(t *testing.T, want, got []byte) bool {
	t.Helper()
	if bytes.Equal(want, got) {
		return false
	}

	cmdName := "diff"
	if runtime.GOOS == "plan9" {
		cmdName = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmdName); err != nil {
		t.Errorf("want:\n%sgot:\n%s", want, got)
		return true
	}

	d := t.TempDir()
	wantPath, gotPath := filepath.Join(d, "want"), filepath.Join(d, "got")
	if err := os.WriteFile(wantPath, want, 0666); err != nil {
		t.Fatalf("error writing %s: %s", wantPath, err)
	}
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}

	cmd := exec.Command(cmdName, "-Nu", "want", "got")
	cmd.Dir = d
	// diff exits with a non-zero status when the files don't match.
	data, err := cmd.CombinedOutput()
	if len(data) == 0 && err != nil {
		t.Errorf("%s: %v\nwant:\n%sgot:\n%s", cmdName, err, want, got)
		return true
	}
	t.Errorf("\n%s", data)
	return true
}
