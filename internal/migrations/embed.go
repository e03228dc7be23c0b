// Package migrations provides embedded SQL migration files.
package migrations

import (
	_ "embed"
	"strings"
)

//go:embed sql/001_initial.sql
var InitialSQL string

//go:embed sql/postgres/001_initial.sql
var PostgresInitialSQL string

// Statements splits a migration into individual statements for drivers that
// execute one statement per call.
func Statements(migration string) []string {
	var out []string
	for _, stmt := range strings.Split(migration, ";") {
		if s := strings.TrimSpace(stmt); s != "" && !onlyComments(s) {
			out = append(out, s)
		}
	}
	return out
}

func onlyComments(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
