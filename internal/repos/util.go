package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicate marks a write rejected by a unique index.
var ErrDuplicate = errors.New("duplicate key")

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// mustAffect turns a no-op UPDATE/DELETE into sql.ErrNoRows so callers can
// tell a missing row from success.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return unique(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// unique wraps unique-constraint violations in ErrDuplicate and returns any
// other error unchanged.
func unique(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case sqlite3.SQLITE_CONSTRAINT:
		if strings.Contains(se.Error(), "UNIQUE") {
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
	}
	return err
}
