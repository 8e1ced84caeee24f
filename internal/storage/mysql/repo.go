// Package mysql implements the dimensional store on MySQL (InnoDB) through
// go-sql-driver/mysql. The exclusive load lock is a named user lock
// (GET_LOCK) held for the life of the load transaction.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/zeebo/xxh3"

	"efwetl/internal/storage"
	"efwetl/internal/storage/sqldb"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN string // e.g. "user:pass@tcp(localhost:3306)/efw"
}

// Dialect is MySQL's statement flavor.
var Dialect = storage.Dialect{
	Name:        "mysql",
	Placeholder: storage.QuestionMark,
	MaxParams:   65535,
}

// Repository is a MySQL-backed storage repository.
type Repository struct {
	*sqldb.Repository
}

// NewRepository validates the DSN, opens the pool, and returns a Repository
// plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	r, closeFn, err := sqldb.Open(ctx, "mysql", mc.FormatDSN(), Dialect, userLock)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{Repository: r}, closeFn, nil
}

// maxLockName is MySQL's limit on user lock names.
const maxLockName = 64

// LockName returns name, or a hashed stand-in when name is too long for
// GET_LOCK.
func LockName(name string) string {
	if len(name) <= maxLockName {
		return name
	}
	return fmt.Sprintf("efw_%016x", xxh3.HashString(name))
}

// userLock takes GET_LOCK on the connection of tx. User locks belong to the
// session, not the transaction, so RELEASE_LOCK runs on the same pinned
// connection once the transaction has committed or rolled back.
func userLock(ctx context.Context, tx *sql.Tx, name string, timeout time.Duration) (sqldb.Release, error) {
	name = LockName(name)
	secs := int64(-1)
	if timeout > 0 {
		secs = int64(timeout.Round(time.Second) / time.Second)
		if secs == 0 {
			secs = 1
		}
	}
	rows, err := sqldb.QueryInts(ctx, tx, "SELECT GET_LOCK(?, ?)", name, secs)
	if err != nil {
		return nil, describe(err)
	}
	if len(rows) == 0 || rows[0][0] != 1 {
		return nil, fmt.Errorf("GET_LOCK(%q) timed out after %s", name, timeout)
	}
	return func(ctx context.Context, conn sqldb.Querier) error {
		rows, err := sqldb.QueryInts(ctx, conn, "SELECT RELEASE_LOCK(?)", name)
		if err != nil {
			return describe(err)
		}
		if len(rows) == 0 || rows[0][0] != 1 {
			return fmt.Errorf("RELEASE_LOCK(%q): lock not held by this session", name)
		}
		return nil
	}, nil
}

// describe appends the server error number.
func describe(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return fmt.Errorf("%w (error %d)", err, me.Number)
	}
	return err
}
