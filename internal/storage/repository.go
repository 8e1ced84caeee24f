// Package storage holds the backend-agnostic side of the dimensional load:
// the Repository and Tx contracts every backend implements, a registry of
// backend factories, and Load, which writes a normalize.Model into a store
// idempotently inside one locked transaction.
//
// Backends register themselves from init; import efwetl/internal/storage/all
// to enable every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Repository is an open connection to a dimensional store.
type Repository interface {
	// Exec runs a statement outside any transaction (typically DDL).
	Exec(ctx context.Context, sql string, args ...any) error

	// BeginTx starts the transaction a load runs in.
	BeginTx(ctx context.Context) (Tx, error)

	// Dialect describes the SQL flavor of the backend.
	Dialect() Dialect

	Close()
}

// Tx is one load transaction.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) error

	// QueryInts runs a query whose columns are all integers and returns
	// every row. NULL reads as 0.
	QueryInts(ctx context.Context, sql string, args ...any) ([][]int64, error)

	// Lock takes the backend's exclusive load lock named name, waiting at
	// most timeout (zero waits indefinitely where the backend allows). The
	// lock is held until Commit or Rollback has finished.
	Lock(ctx context.Context, name string, timeout time.Duration) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Dialect captures the statement differences Load has to care about.
type Dialect struct {
	Name string

	// Placeholder renders the i-th (1-based) bind parameter.
	Placeholder func(i int) string

	// MaxParams bounds bind parameters per statement.
	MaxParams int

	// MaxRows bounds rows per multi-row INSERT (SQL Server allows 1000).
	MaxRows int
}

// QuestionMark is the placeholder style of MySQL and SQLite.
func QuestionMark(int) string { return "?" }

// Config selects and configures a backend.
type Config struct {
	Kind string
	DSN  string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a backend available under kind. It is called from backend
// init functions; registering a kind twice replaces the earlier factory.
func Register(kind string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = f
}

// Kinds lists the registered backend kinds, sorted.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository of cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	registryMu.RLock()
	f, ok := registry[cfg.Kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %s)", cfg.Kind, strings.Join(Kinds(), ", "))
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("storage: %s: DSN must not be empty", cfg.Kind)
	}
	return f(ctx, cfg)
}
