// Package mssql implements the dimensional store on Microsoft SQL Server
// through go-mssqldb. The exclusive load lock is a transaction-owned
// application lock (sp_getapplock).
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"efwetl/internal/storage"
	"efwetl/internal/storage/sqldb"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Dialect is SQL Server's statement flavor. A statement takes at most 2100
// parameters and a VALUES list at most 1000 rows.
var Dialect = storage.Dialect{
	Name:        "mssql",
	Placeholder: func(i int) string { return "@p" + strconv.Itoa(i) },
	MaxParams:   2000,
	MaxRows:     1000,
}

// Repository is an MSSQL-backed storage repository.
type Repository struct {
	*sqldb.Repository
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	r, closeFn, err := sqldb.Open(ctx, "sqlserver", cfg.DSN, Dialect, appLock)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{Repository: r}, closeFn, nil
}

const getAppLock = `SET NOCOUNT ON;
DECLARE @r int;
EXEC @r = sp_getapplock @Resource = @p1, @LockMode = 'Exclusive', @LockOwner = 'Transaction', @LockTimeout = @p2;
SELECT @r;`

// appLock takes an exclusive application lock owned by tx. SQL Server
// releases it when the transaction ends.
func appLock(ctx context.Context, tx *sql.Tx, name string, timeout time.Duration) (sqldb.Release, error) {
	ms := int64(-1)
	if timeout > 0 {
		ms = timeout.Milliseconds()
	}
	rows, err := sqldb.QueryInts(ctx, tx, getAppLock, name, ms)
	if err != nil {
		return nil, describe(err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("sp_getapplock returned no status")
	}
	if code := rows[0][0]; code < 0 {
		return nil, fmt.Errorf("sp_getapplock: %s (%d)", appLockStatus(code), code)
	}
	return nil, nil
}

func appLockStatus(code int64) string {
	switch code {
	case -1:
		return "timed out"
	case -2:
		return "canceled"
	case -3:
		return "chosen as deadlock victim"
	default:
		return "parameter or call error"
	}
}

// describe appends the server error number, which identifies deadlocks
// (1205) and lock timeouts (1222).
func describe(err error) error {
	var e mssql.Error
	if errors.As(err, &e) {
		return fmt.Errorf("%w (error %d, state %d)", err, e.Number, e.State)
	}
	return err
}
