package sqlite_test

import (
	"database/sql"
	"errors"
	"io"
	"path"
	"testing"

	"github.com/teenjuna/lineq/internal/testing/require"
	"github.com/teenjuna/lineq/source/sqlite"
)

func TestOpen(t *testing.T) {
	file := createDB(t, "line", "text", []any{"a", "b"})

	source, err := sqlite.Open(file)
	require.Nil(t, err)
	require.NotNil(t, source)
	require.Equal(t, source.Name(), file+":line.text")
	require.Nil(t, source.Close())
}

func TestOpenNilConfigFunc(t *testing.T) {
	file := createDB(t, "line", "text", []any{"a"})

	source, err := sqlite.Open(file, nil)
	require.Nil(t, err)
	t.Cleanup(func() { _ = source.Close() })

	line, err := source.Next()
	require.Nil(t, err)
	require.Equal(t, line, "a")
}

func TestOpenErrors(t *testing.T) {
	file := createDB(t, "line", "text", nil)

	tests := []struct {
		name string
		file string
		cfg  sqlite.ConfigFunc
	}{
		{name: "Blank file", file: " "},
		{name: "File with query", file: file + "?mode=rw"},
		{name: "Missing file", file: path.Join(t.TempDir(), "missing.db")},
		{name: "Missing table", file: file, cfg: func(c *sqlite.Config) { c.Table("words") }},
		{name: "Missing column", file: file, cfg: func(c *sqlite.Config) { c.Column("word") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfgs []sqlite.ConfigFunc
			if tt.cfg != nil {
				cfgs = append(cfgs, tt.cfg)
			}
			source, err := sqlite.Open(tt.file, cfgs...)
			require.NotNil(t, err)
			require.Nil(t, source)
		})
	}
}

func TestNext(t *testing.T) {
	file := createDB(t, "words", "word", []any{"alpha", nil, "", "gamma", "delta"})

	source, err := sqlite.Open(file, func(c *sqlite.Config) {
		c.Table("words")
		c.Column("word")
	})
	require.Nil(t, err)
	t.Cleanup(func() { _ = source.Close() })

	var lines []string
	for {
		line, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.Nil(t, err)
		lines = append(lines, line)
	}

	require.Equal(t, lines, []string{"alpha", "", "", "gamma", "delta"})

	_, err = source.Next()
	require.Equal(t, err, io.EOF)
}

func TestNextWhere(t *testing.T) {
	file := createDB(t, "line", "text", []any{"short", "longer one", "tiny", "long enough"})

	source, err := sqlite.Open(file, func(c *sqlite.Config) {
		c.Where("length(text) > 5")
	})
	require.Nil(t, err)
	t.Cleanup(func() { _ = source.Close() })

	line, err := source.Next()
	require.Nil(t, err)
	require.Equal(t, line, "longer one")

	line, err = source.Next()
	require.Nil(t, err)
	require.Equal(t, line, "long enough")

	_, err = source.Next()
	require.Equal(t, err, io.EOF)
}

func TestConfigValidation(t *testing.T) {
	cfg := &sqlite.Config{}

	require.PanicWithError(t, "table must be an identifier", func() {
		cfg.Table("line; drop table line")
	})

	require.PanicWithError(t, "column must be an identifier", func() {
		cfg.Column("1text")
	})

	require.PanicWithError(t, "condition can't be blank", func() {
		cfg.Where(" ")
	})

	require.PanicWithError(t, "condition can't contain ;", func() {
		cfg.Where("1; drop table line")
	})
}

// createDB creates a database with a single table and inserts values in order.
func createDB(t *testing.T, table, column string, values []any) string {
	t.Helper()

	file := path.Join(t.TempDir(), "lines.db")
	db, err := sql.Open("sqlite3", file)
	require.Nil(t, err)
	defer db.Close()

	_, err = db.Exec("create table " + table + " (id integer primary key, " + column + " text)")
	require.Nil(t, err)

	for _, v := range values {
		_, err = db.Exec("insert into "+table+" ("+column+") values (?)", v)
		require.Nil(t, err)
	}

	return file
}
