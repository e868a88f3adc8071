// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Archive stores merge output in a SQL database.
//
// Usage:
//
//	archive [-driver name] -dsn source [-list] [file...]
//
// Each file is stored as one upload. The default driver is sqlite3,
// where the data source is a file name; with -driver mysql it is a
// MySQL DSN, and Cloud SQL instances are reachable as
// "user@cloudsql(project:region:instance)/db".
//
// With -list, archive prints every upload after storing the files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/linalgbench/benchreduce/internal/lineread"
	"github.com/linalgbench/benchreduce/internal/texttab"
	"github.com/linalgbench/benchreduce/merge"
	"github.com/linalgbench/benchreduce/storage/db"
	_ "github.com/linalgbench/benchreduce/storage/db/sqlite3"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("archive: ")
	log.SetFlags(0)
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		exit(2)
	} else if err != nil {
		log.Print(err)
		exit(1)
	}
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("archive", flag.ContinueOnError)
	flags.SetOutput(wErr)
	driver := flags.String("driver", "sqlite3", "database `driver` (sqlite3 or mysql)")
	dsn := flags.String("dsn", "", "data `source` name")
	list := flags.Bool("list", false, "list uploads")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: archive [options] [file...]\noptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *dsn == "" || (flags.NArg() == 0 && !*list) {
		flags.Usage()
		return flag.ErrHelp
	}

	// Parse everything first so a bad file stores nothing.
	files := make([][]*merge.Record, flags.NArg())
	for i, path := range flags.Args() {
		recs, err := readRecords(path)
		if err != nil {
			return err
		}
		files[i] = recs
	}

	ctx := context.Background()
	d, err := db.OpenSQL(*driver, *dsn)
	if err != nil {
		return err
	}
	defer d.Close()

	for i, path := range flags.Args() {
		id, err := store(ctx, d, path, files[i])
		if err != nil {
			return fmt.Errorf("storing %s: %w", path, err)
		}
		fmt.Fprintf(w, "archived %d records from %s as upload %s\n", len(files[i]), path, id)
	}

	if *list {
		uploads, err := d.ListUploads(ctx)
		if err != nil {
			return err
		}
		var tab texttab.Table
		tab.Row().Cell("upload", texttab.Right).Cell("records", texttab.Right).Cell("source")
		for _, u := range uploads {
			tab.Row().Cell(u.ID, texttab.Right).Cell(strconv.Itoa(u.Records), texttab.Right).Cell(u.Source)
		}
		return tab.Format(w)
	}
	return nil
}

func store(ctx context.Context, d *db.DB, source string, recs []*merge.Record) (string, error) {
	u, err := d.NewUpload(ctx, source)
	if err != nil {
		return "", err
	}
	for _, r := range recs {
		if err := u.InsertRecord(ctx, r); err != nil {
			u.Abort()
			return "", err
		}
	}
	return u.ID, u.Commit()
}

func readRecords(path string) ([]*merge.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var recs []*merge.Record
	s := lineread.NewReader(f, 0)
	line := 0
	for s.Scan() {
		line++
		if s.TooLong() {
			return nil, fmt.Errorf("%s:%d: line too long (%d bytes)", path, line, s.Len())
		}
		if strings.TrimSpace(s.Text()) == "" {
			continue
		}
		r, err := merge.ParseRecord(s.Text())
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		recs = append(recs, r)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", path, line+1, err)
	}
	return recs, nil
}
