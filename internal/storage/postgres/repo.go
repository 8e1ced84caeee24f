// Package postgres implements the dimensional store on Postgres using pgx v5.
// The exclusive load lock is a transaction-scoped advisory lock keyed by a
// 64-bit hash of the lock name.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zeebo/xxh3"

	"efwetl/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Dialect is Postgres' statement flavor.
var Dialect = storage.Dialect{
	Name:        "postgres",
	Placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
	MaxParams:   65535,
}

// Repository is a Postgres-backed storage repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, pool.Close, nil
}

func (r *Repository) Dialect() storage.Dialect { return Dialect }

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string, args ...any) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("postgres: exec: %w", describe(err))
	}
	return nil
}

// BeginTx starts a read-committed transaction.
func (r *Repository) BeginTx(ctx context.Context) (storage.Tx, error) {
	t, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin tx: %w", err)
	}
	return &tx{tx: t}, nil
}

type tx struct {
	tx pgx.Tx
}

func (t *tx) Exec(ctx context.Context, sql string, args ...any) error {
	if _, err := t.tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("postgres: exec: %w", describe(err))
	}
	return nil
}

func (t *tx) QueryInts(ctx context.Context, sql string, args ...any) ([][]int64, error) {
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, describe(err)
	}
	defer rows.Close()

	var out [][]int64
	for rows.Next() {
		n := len(rows.FieldDescriptions())
		vals := make([]*int64, n)
		ptrs := make([]any, n)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]int64, n)
		for i, v := range vals {
			if v != nil {
				row[i] = *v
			}
		}
		out = append(out, row)
	}
	return out, describe(rows.Err())
}

// Lock takes pg_advisory_xact_lock on the hashed name. A positive timeout is
// applied as the transaction's lock_timeout; the advisory lock is released
// when the transaction ends.
func (t *tx) Lock(ctx context.Context, name string, timeout time.Duration) error {
	if timeout > 0 {
		set := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())
		if _, err := t.tx.Exec(ctx, set); err != nil {
			return fmt.Errorf("postgres: set lock_timeout: %w", describe(err))
		}
	}
	if _, err := t.tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", LockKey(name)); err != nil {
		return fmt.Errorf("postgres: advisory lock %q: %w", name, describe(err))
	}
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", describe(err))
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("postgres: rollback: %w", err)
	}
	return nil
}

// LockKey maps a lock name onto the bigint advisory lock key space.
func LockKey(name string) int64 {
	return int64(xxh3.HashString(name))
}

// describe surfaces the server's detail and SQLSTATE, which pgx leaves out
// of the error string.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s; SQLSTATE %s)", err, pgErr.Detail, pgErr.SQLState())
	}
	return err
}
