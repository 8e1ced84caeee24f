package sqlite

import (
	"context"
	"testing"

	"efwetl/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "sqlite" backend
// registered in init() goes through the newRepository hook and that
// wrappedRepo delegates Close.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	ctx := context.Background()

	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		gotCfg   Config
		closed   bool
		fakeRepo = &Repository{}
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: "file:efw.db"})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if gotCfg.DSN != "file:efw.db" {
		t.Errorf("hook cfg.DSN = %q", gotCfg.DSN)
	}
	w, ok := repo.(*wrappedRepo)
	if !ok {
		t.Fatalf("storage.New() type = %T, want *wrappedRepo", repo)
	}
	if w.Repository != fakeRepo {
		t.Fatalf("wrappedRepo.Repository = %p, want %p", w.Repository, fakeRepo)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close() did not invoke closeFn")
	}
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"efw.db", "efw.db?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"},
		{"file:efw.db?cache=shared", "file:efw.db?cache=shared&_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"},
		{"efw.db?_txlock=deferred&_pragma=busy_timeout(1)", "efw.db?_txlock=deferred&_pragma=busy_timeout(1)&_pragma=foreign_keys(1)"},
	}
	for _, c := range cases {
		if got := withDefaults(c.in); got != c.want {
			t.Errorf("withDefaults(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
