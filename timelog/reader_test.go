// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timelog

import (
	"errors"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func parseAll(t *testing.T, data string, setup ...func(r *Reader)) []Record {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test")
	for _, f := range setup {
		f(r)
	}
	var out []Record
	for r.Scan() {
		out = append(out, r.Result())
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out
}

var cmpRecords = cmpopts.IgnoreUnexported(Result{})

func TestReader(t *testing.T) {
	type test struct {
		name string
		in   string
		want []Record
	}
	for _, test := range []test{
		{
			"ru-average",
			"run_a_size_100.txt: Среднее время 0.01234 секунд\n",
			[]Record{
				&Result{Name: "run_a_size_100.txt", Size: 100, Elapsed: 0.01234, ElapsedText: "0.01234", Format: "ru-average"},
			},
		},
		{
			"en-average",
			"lu_mkl_size_2500.txt: Average time 1.5 seconds\n",
			[]Record{
				&Result{Name: "lu_mkl_size_2500.txt", Size: 2500, Elapsed: 1.5, ElapsedText: "1.5", Format: "en-average"},
			},
		},
		{
			"legacy",
			"cho_numpy: 5000 0.605983\n",
			[]Record{
				&Result{Name: "cho_numpy", Size: 5000, Elapsed: 0.605983, ElapsedText: "0.605983", Format: "legacy"},
			},
		},
		{
			"crlf and blank lines",
			"\r\nrun_size_7.txt: Среднее время 2 секунд\r\n\n   \n",
			[]Record{
				&Result{Name: "run_size_7.txt", Size: 7, Elapsed: 2, ElapsedText: "2", Format: "ru-average"},
			},
		},
		{
			"bad line does not stop parsing",
			"run_a_size_1.txt: Время не найдено\nrun_b_size_2.txt: Среднее время 0.5 секунд\n",
			[]Record{
				&SyntaxError{"test", 1, "unrecognized timing line", "run_a_size_1.txt: Время не найдено"},
				&Result{Name: "run_b_size_2.txt", Size: 2, Elapsed: 0.5, ElapsedText: "0.5", Format: "ru-average"},
			},
		},
		{
			"bad number",
			"run_size_3.txt: Среднее время 1.2.3 секунд\n",
			[]Record{
				&SyntaxError{"test", 1, `parsing elapsed time: strconv.ParseFloat: parsing "1.2.3": invalid syntax`, "run_size_3.txt: Среднее время 1.2.3 секунд"},
			},
		},
		{
			"zero size",
			"run_size_0.txt: Среднее время 1 секунд\n",
			[]Record{
				&SyntaxError{"test", 1, "matrix size 0 is not positive", "run_size_0.txt: Среднее время 1 секунд"},
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := parseAll(t, test.in)
			if diff := cmp.Diff(test.want, got, cmpRecords); diff != "" {
				t.Errorf("records differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReaderPos(t *testing.T) {
	recs := parseAll(t, "garbage\n\nx_size_2.txt: Среднее время 1 секунд\n")
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}
	for i, wantLine := range []int{1, 3} {
		file, line := recs[i].Pos()
		if file != "test" || line != wantLine {
			t.Errorf("record %d: want test:%d, got %s:%d", i, wantLine, file, line)
		}
	}
}

func TestAddFormat(t *testing.T) {
	csvLine := Format{
		Name:    "csv",
		Pattern: regexp.MustCompile(`^(\w+),(\d+),([\d.]+),ok`),
		Extract: nameSizeTime,
	}
	const in = "svd,100,0.25,ok\nrun_size_5.txt: Среднее время 3 секунд\n"

	// Without the format, the first line is rejected.
	got := parseAll(t, in)
	if _, ok := got[0].(*SyntaxError); !ok {
		t.Errorf("want *SyntaxError before AddFormat, got %T", got[0])
	}

	got = parseAll(t, in, func(r *Reader) { r.AddFormat(csvLine) })
	want := []Record{
		&Result{Name: "svd", Size: 100, Elapsed: 0.25, ElapsedText: "0.25", Format: "csv"},
		&Result{Name: "run_size_5.txt", Size: 5, Elapsed: 3, ElapsedText: "3", Format: "ru-average"},
	}
	if diff := cmp.Diff(want, got, cmpRecords); diff != "" {
		t.Errorf("records differ (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		size := 1 + rng.Intn(50000)
		elapsed := rng.ExpFloat64() * float64(rng.Intn(1000)+1)
		if i%7 == 0 {
			// Exercise the 5-digit values avgtime writes.
			elapsed, _ = strconv.ParseFloat(strconv.FormatFloat(elapsed, 'f', 5, 64), 64)
		}
		in := &Result{Name: "run_" + strconv.Itoa(i) + "_size_" + strconv.Itoa(size) + ".txt", Size: size, Elapsed: elapsed}

		line := FormatLine(in)
		recs := parseAll(t, line+"\n")
		if len(recs) != 1 {
			t.Fatalf("%q: want 1 record, got %d", line, len(recs))
		}
		out, ok := recs[0].(*Result)
		if !ok {
			t.Fatalf("%q: got %v", line, recs[0])
		}
		if out.Size != in.Size || out.Elapsed != in.Elapsed || out.Name != in.Name {
			t.Errorf("%q: want (%s, %d, %v), got (%s, %d, %v)", line, in.Name, in.Size, in.Elapsed, out.Name, out.Size, out.Elapsed)
		}
	}
}

func TestLongLine(t *testing.T) {
	long := strings.Repeat("x", 70000)
	recs := parseAll(t, long+"\nrun_a_size_100.txt: Среднее время 0.01234 секунд\n")
	want := []Record{
		&SyntaxError{"test", 1, "line too long (70000 bytes, limit 65536)", strings.Repeat("x", 80) + "..."},
		&Result{Name: "run_a_size_100.txt", Size: 100, Elapsed: 0.01234, ElapsedText: "0.01234", Format: "ru-average"},
	}
	if diff := cmp.Diff(want, recs, cmpRecords); diff != "" {
		t.Errorf("records differ (-want +got):\n%s", diff)
	}
}

type brokenReader struct{ data string }

var errBroken = errors.New("broken pipe")

func (b *brokenReader) Read(p []byte) (int, error) {
	if b.data == "" {
		return 0, errBroken
	}
	n := copy(p, b.data)
	b.data = b.data[n:]
	return n, nil
}

func TestReadErrorPos(t *testing.T) {
	r := NewReader(&brokenReader{"x_size_2.txt: Среднее время 1 секунд\nhalf a li"}, "times.txt")
	for r.Scan() {
	}
	err := r.Err()
	if !errors.Is(err, errBroken) {
		t.Fatalf("want %v, got %v", errBroken, err)
	}
	if want := "times.txt:2: broken pipe"; err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
}

func TestFormatLineAddsSize(t *testing.T) {
	got := FormatLine(&Result{Name: "cho_numpy", Size: 5000, Elapsed: 0.5})
	want := "cho_numpy_size_5000.txt: Среднее время 0.5 секунд"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
