package sqlite

import (
	"regexp"
	"strings"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Config struct {
	table  string
	column string
	where  string
}

type ConfigFunc = func(c *Config)

// Table sets the table the lines are read from. Defaults to "line".
func (c *Config) Table(table string) {
	table = strings.TrimSpace(table)
	if !identifier.MatchString(table) {
		panic("table must be an identifier")
	}
	c.table = table
}

// Column sets the column holding the lines. Defaults to "text".
func (c *Config) Column(column string) {
	column = strings.TrimSpace(column)
	if !identifier.MatchString(column) {
		panic("column must be an identifier")
	}
	c.column = column
}

// Where restricts the rows with an SQL condition, e.g. "length(text) >= 8".
func (c *Config) Where(condition string) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		panic("condition can't be blank")
	}
	if strings.Contains(condition, ";") {
		panic("condition can't contain ;")
	}
	c.where = condition
}
