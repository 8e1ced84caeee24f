package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper creates the dimension and fact tables for one backend when
// they do not exist yet. It must be safe to run against an existing schema.
type DDLBootstrapper func(ctx context.Context, repo Repository) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDLBootstrapper for kind. Backends
// call it from init.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureSchema runs the bootstrapper registered for kind against repo.
func EnsureSchema(ctx context.Context, kind string, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	if err := fn(ctx, repo); err != nil {
		return fmt.Errorf("ensure schema (%s): %w", kind, err)
	}
	return nil
}

// ExecAll runs statements in order on repo; bootstrappers use it for their
// literal DDL.
func ExecAll(ctx context.Context, repo Repository, statements []string) error {
	for i, s := range statements {
		if err := repo.Exec(ctx, s); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}
