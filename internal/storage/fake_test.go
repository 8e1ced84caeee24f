package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory stand-in for a SQL backend. It understands only
// the statement shapes Load issues. Writes are buffered per transaction and
// applied on Commit.
type memStore struct {
	mu     sync.Mutex
	tables map[string][]map[string]any

	failOn  string // Exec fails when the statement contains this
	locks   []string
	commits int
	rollbks int
}

func newMemStore() *memStore { return &memStore{tables: map[string][]map[string]any{}} }

func (s *memStore) Exec(context.Context, string, ...any) error { return nil }
func (s *memStore) Close()                                     {}
func (s *memStore) Dialect() Dialect {
	return Dialect{Name: "mem", Placeholder: QuestionMark, MaxParams: 12, MaxRows: 3}
}

func (s *memStore) BeginTx(context.Context) (Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := map[string][]map[string]any{}
	for t, rows := range s.tables {
		snap[t] = append([]map[string]any(nil), rows...)
	}
	return &memTx{store: s, tables: snap}, nil
}

func (s *memStore) count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

func (s *memStore) rows(table string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.tables[table]...)
}

type memTx struct {
	store  *memStore
	tables map[string][]map[string]any
	done   bool
}

func (t *memTx) Lock(_ context.Context, name string, _ time.Duration) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.locks = append(t.store.locks, name)
	return nil
}

func (t *memTx) Exec(_ context.Context, q string, args ...any) error {
	if t.store.failOn != "" && strings.Contains(q, t.store.failOn) {
		return errors.New("injected failure")
	}
	var table, cols string
	if _, err := fmt.Sscanf(q, "INSERT INTO %s", &table); err != nil {
		return fmt.Errorf("mem: unsupported statement %q", q)
	}
	cols = q[strings.Index(q, "(")+1 : strings.Index(q, ")")]
	names := strings.Split(cols, ", ")
	if len(args)%len(names) != 0 {
		return fmt.Errorf("mem: %d args for %d columns", len(args), len(names))
	}
	for i := 0; i < len(args); i += len(names) {
		row := map[string]any{}
		for j, n := range names {
			row[n] = args[i+j]
		}
		t.tables[table] = append(t.tables[table], row)
	}
	return nil
}

func (t *memTx) QueryInts(_ context.Context, q string, args ...any) ([][]int64, error) {
	switch {
	case strings.HasPrefix(q, "SELECT COALESCE(MAX(id), 0) FROM "):
		var m int64
		for _, r := range t.tables[strings.TrimPrefix(q, "SELECT COALESCE(MAX(id), 0) FROM ")] {
			if id := r["id"].(int64); id > m {
				m = id
			}
		}
		return [][]int64{{m}}, nil

	case strings.HasPrefix(q, "SELECT year_id, country_id, indicator_id FROM "):
		var out [][]int64
		for _, r := range t.tables[TableFact] {
			out = append(out, []int64{r["year_id"].(int64), r["country_id"].(int64), r["indicator_id"].(int64)})
		}
		return out, nil

	case strings.HasPrefix(q, "SELECT language_id, "):
		var col, table string
		if _, err := fmt.Sscanf(q, "SELECT language_id, %s FROM %s", &col, &table); err != nil {
			return nil, err
		}
		var out [][]int64
		for _, r := range t.tables[table] {
			out = append(out, []int64{r["language_id"].(int64), r[col].(int64)})
		}
		return out, nil

	case strings.HasPrefix(q, "SELECT id FROM "):
		var table, col string
		if _, err := fmt.Sscanf(q, "SELECT id FROM %s WHERE %s = ?", &table, &col); err != nil {
			return nil, err
		}
		for _, r := range t.tables[table] {
			if fmt.Sprint(r[col]) == fmt.Sprint(args[0]) {
				return [][]int64{{r["id"].(int64)}}, nil
			}
		}
		return nil, nil
	}
	return nil, fmt.Errorf("mem: unsupported query %q", q)
}

func (t *memTx) Commit(context.Context) error {
	if t.done {
		return errors.New("mem: tx already finished")
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.tables = t.tables
	t.store.commits++
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.done {
		return errors.New("mem: tx already finished")
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.rollbks++
	return nil
}
