package mssql

import (
	"context"
	"errors"
	"strings"
	"testing"

	mssql "github.com/microsoft/go-mssqldb"

	"efwetl/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "mssql" backend
// registered in init() uses the newRepository hook and that wrappedRepo
// delegates Close.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		called bool
		gotCfg Config
		closed bool
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: "sqlserver://example"})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if !called || gotCfg.DSN != "sqlserver://example" {
		t.Fatalf("hook called=%v cfg=%+v", called, gotCfg)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close() did not invoke closeFn")
	}
}

func TestNewRepository_RejectsBadDSN(t *testing.T) {
	t.Parallel()

	_, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://user@host?connection+timeout=abc"})
	if err == nil || !strings.Contains(err.Error(), "mssql dsn") {
		t.Fatalf("want dsn error, got %v", err)
	}
}

func TestDialect_FitsServerLimits(t *testing.T) {
	t.Parallel()

	if Dialect.MaxParams > 2100 || Dialect.MaxRows > 1000 {
		t.Fatalf("dialect exceeds server limits: %+v", Dialect)
	}
	if Dialect.Placeholder(12) != "@p12" {
		t.Fatalf("placeholder = %q", Dialect.Placeholder(12))
	}
}

func TestSchema_Guarded(t *testing.T) {
	t.Parallel()

	for i, s := range schema {
		if !strings.HasPrefix(s, "IF OBJECT_ID(N'efw_") {
			t.Errorf("statement %d is not guarded: %.40s", i, s)
		}
	}
}

func TestAppLockStatus(t *testing.T) {
	t.Parallel()

	for code, want := range map[int64]string{-1: "timed out", -2: "canceled", -3: "deadlock", -999: "parameter"} {
		if got := appLockStatus(code); !strings.Contains(got, want) {
			t.Errorf("appLockStatus(%d) = %q", code, got)
		}
	}
}

func TestDescribe_AddsErrorNumber(t *testing.T) {
	t.Parallel()

	err := describe(mssql.Error{Number: 1222, State: 51, Message: "Lock request time out period exceeded."})
	if !strings.Contains(err.Error(), "error 1222") {
		t.Fatalf("describe() = %v", err)
	}
	var me mssql.Error
	if !errors.As(err, &me) {
		t.Fatal("describe() lost the wrapped mssql.Error")
	}
}
