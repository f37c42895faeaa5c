package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS grades (
    key TEXT PRIMARY KEY,
    grade INTEGER NOT NULL,
    feedback TEXT NOT NULL
);
`

// SQLite is a store backed by a local database file, so cached grades
// survive process restarts.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string) (Result, bool, error) {
	var r Result
	err := s.db.QueryRow(`SELECT grade, feedback FROM grades WHERE key = ?`, key).Scan(&r.Grade, &r.Feedback)
	if err == sql.ErrNoRows {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("cache get: %w", err)
	}
	return r, true, nil
}

// Put inserts the result; an existing row for the key is kept as-is.
func (s *SQLite) Put(key string, r Result) error {
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO grades(key, grade, feedback) VALUES(?,?,?)`,
		key, r.Grade, r.Feedback,
	); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
