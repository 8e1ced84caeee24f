// Package sqldb implements storage.Repository over database/sql. The MSSQL,
// MySQL, and SQLite backends share it and differ only in driver, dialect,
// and how they take the exclusive load lock.
package sqldb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"efwetl/internal/storage"
)

// Locker takes the backend's exclusive lock inside tx. A non-nil release
// func runs on the transaction's connection after Commit or Rollback has
// finished, so session-scoped locks outlive the transaction's writes.
type Locker func(ctx context.Context, tx *sql.Tx, name string, timeout time.Duration) (release Release, err error)

// Release frees a session-scoped lock on conn.
type Release func(ctx context.Context, conn Querier) error

// NoLock is a Locker for backends whose transactions are already exclusive.
func NoLock(context.Context, *sql.Tx, string, time.Duration) (Release, error) {
	return nil, nil
}

// Repository is a database/sql-backed storage repository without Close;
// backends wrap it to add their own cleanup.
type Repository struct {
	db      *sql.DB
	dialect storage.Dialect
	lock    Locker
	prefix  string
}

// Open opens driver/dsn, pings it, and returns a Repository plus a close func.
func Open(ctx context.Context, driver, dsn string, d storage.Dialect, lock Locker) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("%s: DSN must not be empty", d.Name)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: open: %w", d.Name, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%s: ping: %w", d.Name, err)
	}
	return New(db, d, lock), func() { _ = db.Close() }, nil
}

// New wraps an already open *sql.DB.
func New(db *sql.DB, d storage.Dialect, lock Locker) *Repository {
	if lock == nil {
		lock = NoLock
	}
	return &Repository{db: db, dialect: d, lock: lock, prefix: d.Name + ": "}
}

// DB exposes the pool for backend-specific setup.
func (r *Repository) DB() *sql.DB { return r.db }

func (r *Repository) Dialect() storage.Dialect { return r.dialect }

// Exec runs q outside any transaction. Blank statements are ignored.
func (r *Repository) Exec(ctx context.Context, q string, args ...any) error {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("%sexec: %w", r.prefix, err)
	}
	return nil
}

// BeginTx pins a pool connection and starts a transaction on it. The
// connection goes back to the pool only after the lock is released.
func (r *Repository) BeginTx(ctx context.Context) (storage.Tx, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%sconn: %w", r.prefix, err)
	}
	t, err := conn.BeginTx(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%sbegin tx: %w", r.prefix, err)
	}
	return &tx{conn: conn, tx: t, lock: r.lock, prefix: r.prefix}, nil
}

type tx struct {
	conn    *sql.Conn
	tx      *sql.Tx
	lock    Locker
	release Release
	prefix  string
}

func (t *tx) Exec(ctx context.Context, q string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("%sexec: %w", t.prefix, err)
	}
	return nil
}

func (t *tx) QueryInts(ctx context.Context, q string, args ...any) ([][]int64, error) {
	return QueryInts(ctx, t.tx, q, args...)
}

func (t *tx) Lock(ctx context.Context, name string, timeout time.Duration) error {
	release, err := t.lock(ctx, t.tx, name, timeout)
	if err != nil {
		return fmt.Errorf("%slock %q: %w", t.prefix, name, err)
	}
	t.release = release
	return nil
}

// Commit commits, then releases the lock and returns the connection.
func (t *tx) Commit(ctx context.Context) error {
	var cerr error
	if err := t.tx.Commit(); err != nil {
		cerr = fmt.Errorf("%scommit: %w", t.prefix, err)
	}
	return errors.Join(cerr, t.finish(ctx))
}

func (t *tx) Rollback(ctx context.Context) error {
	var rerr error
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		rerr = fmt.Errorf("%srollback: %w", t.prefix, err)
	}
	return errors.Join(rerr, t.finish(ctx))
}

// finish runs the lock release on the pinned connection and closes it. A
// connection whose release failed may still hold the lock, so it is
// discarded instead of returned to the pool.
func (t *tx) finish(ctx context.Context) error {
	if t.conn == nil {
		return nil
	}
	conn, release := t.conn, t.release
	t.conn, t.release = nil, nil

	var uerr error
	if release != nil {
		if err := release(context.WithoutCancel(ctx), conn); err != nil {
			uerr = fmt.Errorf("%sunlock: %w", t.prefix, err)
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
	}
	_ = conn.Close()
	return uerr
}

// Querier is satisfied by *sql.DB, *sql.Tx, and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryInts scans every row of an all-integer result set. NULL reads as 0.
func QueryInts(ctx context.Context, q Querier, query string, args ...any) ([][]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]sql.NullInt64, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var out [][]int64
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]int64, len(cols))
		for i, v := range vals {
			row[i] = v.Int64
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
