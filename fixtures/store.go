// Package fixtures is a test-only golden-corpus store for command-line
// regression fixtures (cmdline.Split cases), backed by SQLite the way
// the teacher's database.go persists process records. It is never
// imported from the runtime report path — spec.md §1 explicitly rules
// out persistent storage of reports, so this package is confined to
// feeding table-driven tests a larger fixture set than is practical to
// hand-write inline.
package fixtures

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// CommandFixture is one golden command-line regression case: a raw
// command line and the command/args cmdline.Split is expected to
// recover from it.
type CommandFixture struct {
	ID              int64
	CommandLine     string
	ExpectedCommand string
	ExpectedArgs    string
	Description     string
}

// Store wraps a SQLite-backed golden corpus. Unlike the teacher's DB,
// there is exactly one schema version and no duplicate initialization
// path.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the SQLite database at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("fixtures: enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("fixtures: init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS command_fixtures (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		command_line     TEXT NOT NULL,
		expected_command TEXT NOT NULL,
		expected_args    TEXT NOT NULL,
		description      TEXT
	);`
	_, err := db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertCommand adds one golden fixture to the corpus.
func (s *Store) InsertCommand(f CommandFixture) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO command_fixtures (command_line, expected_command, expected_args, description) VALUES (?, ?, ?, ?)`,
		f.CommandLine, f.ExpectedCommand, f.ExpectedArgs, f.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("fixtures: insert command fixture: %w", err)
	}
	return result.LastInsertId()
}

// LoadCommands returns every golden fixture in the corpus, ordered by
// insertion id.
func (s *Store) LoadCommands() ([]CommandFixture, error) {
	rows, err := s.db.Query(`SELECT id, command_line, expected_command, expected_args, description FROM command_fixtures ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("fixtures: query command fixtures: %w", err)
	}
	defer rows.Close()

	var out []CommandFixture
	for rows.Next() {
		var f CommandFixture
		if err := rows.Scan(&f.ID, &f.CommandLine, &f.ExpectedCommand, &f.ExpectedArgs, &f.Description); err != nil {
			return nil, fmt.Errorf("fixtures: scan command fixture: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
