package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNew_Registry(t *testing.T) {
	ctx := context.Background()

	var gotCfg Config
	Register("mem-test", func(_ context.Context, cfg Config) (Repository, error) {
		gotCfg = cfg
		return newMemStore(), nil
	})

	repo, err := New(ctx, Config{Kind: "mem-test", DSN: "mem://x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer repo.Close()
	if gotCfg.DSN != "mem://x" {
		t.Fatalf("factory got %+v", gotCfg)
	}

	if _, err := New(ctx, Config{Kind: "nope", DSN: "x"}); err == nil || !strings.Contains(err.Error(), "mem-test") {
		t.Fatalf("unknown kind error should list registered kinds, got %v", err)
	}
	if _, err := New(ctx, Config{Kind: "mem-test"}); err == nil {
		t.Fatalf("empty DSN accepted")
	}
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()

	var ran int
	RegisterDDL("mem-ddl", func(ctx context.Context, repo Repository) error {
		ran++
		return ExecAll(ctx, repo, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"})
	})
	if err := EnsureSchema(ctx, "mem-ddl", newMemStore()); err != nil || ran != 1 {
		t.Fatalf("EnsureSchema: ran=%d err=%v", ran, err)
	}

	if err := EnsureSchema(ctx, "unregistered", newMemStore()); err == nil {
		t.Fatalf("expected error for unregistered kind")
	}

	boom := errors.New("boom")
	RegisterDDL("mem-ddl-fail", func(context.Context, Repository) error { return boom })
	if err := EnsureSchema(ctx, "mem-ddl-fail", newMemStore()); !errors.Is(err, boom) {
		t.Fatalf("want wrapped boom, got %v", err)
	}
}
