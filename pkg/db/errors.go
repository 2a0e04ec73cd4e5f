package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure from
// Postgres or SQLite. When names are given, the violation must mention one
// of them: Postgres reports the index name, SQLite the table.column list.
func IsUniqueViolation(err error, names ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return mentionsAny(pgErr.ConstraintName+" "+pgErr.Message, names)
	}

	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	return mentionsAny(msg, names)
}

func mentionsAny(text string, names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if strings.Contains(text, name) {
			return true
		}
	}
	return false
}
