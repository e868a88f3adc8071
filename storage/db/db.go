// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives merged benchmark records in a SQL database.
package db

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/linalgbench/benchreduce/merge"
	"golang.org/x/net/context"
)

// DB is a high-level interface to the archive database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	insertRecord *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	if driverName == "sqlite3" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Source VARCHAR(1024)
);
CREATE TABLE IF NOT EXISTS Records (
	UploadID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Name VARCHAR(255),
	Size BIGINT,
	Elapsed DOUBLE,
	CPU DOUBLE,
	Memory VARCHAR(64),
	PRIMARY KEY (UploadID, RecordID),
{{if not .sqlite3}}
	Index (Name(100), Size),
{{end}}
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordsNameSize ON Records(Name, Size);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(Source) VALUES (?)")
	if err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare("INSERT INTO Records(UploadID, RecordID, Name, Size, Elapsed, CPU, Memory) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// An Upload is a set of records archived together, usually one merge
// output file.
type Upload struct {
	// ID identifies the upload in Records and Uploads.
	ID string

	// id is the numeric value used as the primary key. ID is a
	// string for the public API; the underlying table actually
	// uses an integer key.
	id int64
	// recordid is the index of the next record to insert.
	recordid int64
	// tx holds every insert of the upload until Commit.
	tx *sql.Tx
	db *DB
}

// NewUpload starts a new upload of records read from source. The
// records are not visible to readers until Commit is called.
func (db *DB) NewUpload(ctx context.Context, source string) (*Upload, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := tx.StmtContext(ctx, db.insertUpload).ExecContext(ctx, source)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Upload{
		ID: fmt.Sprint(i),
		id: i,
		tx: tx,
		db: db,
	}, nil
}

// InsertRecord adds a single record to the upload.
func (u *Upload) InsertRecord(ctx context.Context, r *merge.Record) error {
	if _, err := u.tx.StmtContext(ctx, u.db.insertRecord).ExecContext(ctx, u.id, u.recordid, r.BaseName, r.Size, r.Elapsed, r.CPU, r.Memory); err != nil {
		return err
	}
	u.recordid++
	return nil
}

// Commit makes the upload and its records visible.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort discards the upload and its records.
func (u *Upload) Abort() error {
	return u.tx.Rollback()
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// An UploadInfo describes an archived upload.
type UploadInfo struct {
	ID      string
	Source  string
	Records int
}

// ListUploads returns every upload, oldest first.
func (db *DB) ListUploads(ctx context.Context) ([]UploadInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT u.UploadID, u.Source, COUNT(r.RecordID)
FROM Uploads u LEFT JOIN Records r ON u.UploadID = r.UploadID
GROUP BY u.UploadID, u.Source
ORDER BY u.UploadID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UploadInfo
	for rows.Next() {
		var (
			id   int64
			info UploadInfo
		)
		if err := rows.Scan(&id, &info.Source, &info.Records); err != nil {
			return nil, err
		}
		info.ID = fmt.Sprint(id)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Records returns the records of upload uploadID in insertion order.
func (db *DB) Records(ctx context.Context, uploadID string) ([]*merge.Record, error) {
	id, err := strconv.ParseInt(uploadID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid upload ID %q", uploadID)
	}
	rows, err := db.sql.QueryContext(ctx, "SELECT Name, Size, Elapsed, CPU, Memory FROM Records WHERE UploadID = ? ORDER BY RecordID", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*merge.Record
	for rows.Next() {
		r := new(merge.Record)
		if err := rows.Scan(&r.BaseName, &r.Size, &r.Elapsed, &r.CPU, &r.Memory); err != nil {
			return nil, err
		}
		r.Name = r.BaseName
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertUpload.Close(); err != nil {
		return err
	}
	if err := db.insertRecord.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
