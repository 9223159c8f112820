// Package journal keeps a persistent record of finished conversions in a small
// SQLite database, so repeated runs over the same document set can skip work
// that already succeeded.
package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	stamp       TEXT    NOT NULL,
	src         TEXT    NOT NULL,
	size        INTEGER NOT NULL,
	sha256      TEXT    NOT NULL,
	format      TEXT    NOT NULL,
	output      TEXT    NOT NULL,
	status      TEXT    NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS conversions_fingerprint ON conversions(sha256, size, format);
`

// Status of a journaled conversion.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Entry describes a single conversion attempt.
type Entry struct {
	Src      string
	Size     int64
	SHA256   string
	Format   string
	Output   string
	Status   Status
	Duration time.Duration
}

// Journal records conversions in a SQLite database. It is not safe for
// concurrent use, conversions are journaled from a single goroutine.
type Journal struct {
	conn *sqlite.Conn
	path string
}

// Fingerprint returns the size and hex encoded SHA256 of the document content,
// the identity the journal matches on.
func Fingerprint(data []byte) (int64, string) {
	sum := sha256.Sum256(data)
	return int64(len(data)), hex.EncodeToString(sum[:])
}

// Open opens the journal at path, creating the database and its schema when missing.
func Open(path string) (*Journal, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal %s: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare journal %s: %w", path, err)
	}
	return &Journal{conn: conn, path: path}, nil
}

func (j *Journal) Close() error {
	if j == nil || j.conn == nil {
		return nil
	}
	conn := j.conn
	j.conn = nil
	if err := conn.Close(); err != nil {
		return fmt.Errorf("unable to close journal %s: %w", j.path, err)
	}
	return nil
}

// HasSucceeded reports whether a document with the same content fingerprint was
// already converted to format successfully. The source path is deliberately not
// part of the match, moving or renaming a file does not make it new.
func (j *Journal) HasSucceeded(size int64, sha, format string) (bool, error) {
	var count int64
	err := sqlitex.Execute(j.conn,
		`SELECT COUNT(*) FROM conversions WHERE sha256 = ? AND size = ? AND format = ? AND status = ?`,
		&sqlitex.ExecOptions{
			Args: []any{sha, size, format, string(StatusOK)},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return false, fmt.Errorf("unable to query journal: %w", err)
	}
	return count > 0, nil
}

// Record appends e to the journal.
func (j *Journal) Record(e Entry) error {
	err := sqlitex.Execute(j.conn,
		`INSERT INTO conversions (stamp, src, size, sha256, format, output, status, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				time.Now().UTC().Format(time.RFC3339),
				e.Src, e.Size, e.SHA256, e.Format, e.Output, string(e.Status),
				e.Duration.Milliseconds(),
			},
		})
	if err != nil {
		return fmt.Errorf("unable to record conversion: %w", err)
	}
	return nil
}

// Count returns the number of journaled conversions.
func (j *Journal) Count() (int64, error) {
	var count int64
	err := sqlitex.Execute(j.conn, `SELECT COUNT(*) FROM conversions`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("unable to query journal: %w", err)
	}
	return count, nil
}
