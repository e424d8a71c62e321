// Package sqlite provides a line source backed by a column of a SQLite table.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teenjuna/lineq/internal"
)

var _ internal.Source = (*Source)(nil)

// Source streams the values of one text column in rowid order. NULL values are returned as empty
// lines.
type Source struct {
	cfg  *Config
	file string
	db   *sql.DB
	rows *sql.Rows
}

// Open opens the SQLite database file read-only and starts the query.
//
// Default configuration:
//   - Table: "line"
//   - Column: "text"
//
// Returns an error if the database can't be opened or the table or column doesn't exist.
func Open(file string, configFuncs ...ConfigFunc) (*Source, error) {
	file = strings.TrimSpace(file)
	if file == "" {
		return nil, errors.New("file can't be blank")
	}
	if strings.ContainsAny(file, "?#") {
		return nil, errors.New("file can't contain ? or #")
	}

	cfg := &Config{}
	cfg.Table("line")
	cfg.Column("text")
	for _, cf := range configFuncs {
		if cf != nil {
			cf(cfg)
		}
	}

	db, err := open(file)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	rows, err := db.Query(query(cfg))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("query: %w", err)
	}

	source := Source{
		cfg:  cfg,
		file: file,
		db:   db,
		rows: rows,
	}

	return &source, nil
}

// Next returns the next line, or [io.EOF] if there are no more rows.
func (s *Source) Next() (string, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		return "", io.EOF
	}

	var line sql.NullString
	if err := s.rows.Scan(&line); err != nil {
		return "", fmt.Errorf("scan: %w", err)
	}

	return line.String, nil
}

// Name returns the database file with the table and column, e.g. "words.db:line.text".
func (s *Source) Name() string {
	return fmt.Sprintf("%s:%s.%s", s.file, s.cfg.table, s.cfg.column)
}

// Close closes the query and the underlying SQLite database.
func (s *Source) Close() error {
	return errors.Join(s.rows.Close(), s.db.Close())
}

func open(file string) (*sql.DB, error) {
	uri, err := url.Parse(file)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Add("mode", "ro")
	params.Add("_timeout", "5000") // 5s
	uri.RawQuery = params.Encode()

	db, err := sql.Open("sqlite3", "file:"+uri.String())
	if err != nil {
		return nil, err
	}

	// A single query streams the whole table, so one connection is enough.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func query(cfg *Config) string {
	q := fmt.Sprintf("select [%s] from [%s]", cfg.column, cfg.table)
	if cfg.where != "" {
		q += " where " + cfg.where
	}
	return q + " order by rowid"
}
