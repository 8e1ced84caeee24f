// Package sqlite implements the dimensional store on SQLite through the
// pure-Go modernc.org/sqlite driver.
//
// SQLite has no named locks. Every transaction is opened with BEGIN
// IMMEDIATE (the _txlock DSN parameter), which takes the database write
// lock up front, so two loads can never interleave.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"efwetl/internal/storage"
	"efwetl/internal/storage/sqldb"
)

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a file path or file: URI, e.g. "efw.db" or "file:efw.db?cache=shared".
	DSN string
}

// Dialect is SQLite's statement flavor.
var Dialect = storage.Dialect{
	Name:        "sqlite",
	Placeholder: storage.QuestionMark,
	MaxParams:   32766,
}

// Repository is the SQLite storage repository.
type Repository struct {
	*sqldb.Repository
}

// NewRepository opens the database and returns a Repository plus a close
// func. Foreign keys are enforced on every pooled connection.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	r, closeFn, err := sqldb.Open(ctx, "sqlite", withDefaults(cfg.DSN), Dialect, sqldb.NoLock)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{Repository: r}, closeFn, nil
}

// withDefaults appends the connection parameters the loader relies on
// unless the DSN already sets them.
func withDefaults(dsn string) string {
	params := []struct{ key, val string }{
		{"_txlock", "immediate"},
		{"_pragma=foreign_keys", "1"},
		{"_pragma=busy_timeout", "10000"},
	}
	for _, p := range params {
		if strings.Contains(dsn, p.key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		if strings.HasPrefix(p.key, "_pragma=") {
			dsn += sep + p.key + "(" + p.val + ")"
		} else {
			dsn += sep + p.key + "=" + p.val
		}
	}
	return dsn
}
