package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"efwetl/internal/storage"
)

var testDialect = storage.Dialect{Name: "sqlite", Placeholder: storage.QuestionMark, MaxParams: 999}

// eventLock records lock and release calls. On release it counts the rows
// of t through a second pool connection, which only sees committed data.
type eventLock struct {
	mu         sync.Mutex
	events     []string
	repo       *Repository
	releaseErr error
}

func (l *eventLock) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLock) lock(ctx context.Context, tx *sql.Tx, name string, _ time.Duration) (Release, error) {
	l.add("lock " + name)
	return func(ctx context.Context, conn Querier) error {
		if _, err := QueryInts(ctx, conn, "SELECT 1"); err != nil {
			return fmt.Errorf("pinned conn unusable: %w", err)
		}
		rows, err := QueryInts(ctx, l.repo.DB(), "SELECT COUNT(*) FROM t")
		if err != nil {
			return err
		}
		l.add(fmt.Sprintf("release visible=%d", rows[0][0]))
		return l.releaseErr
	}, nil
}

func openLocked(t *testing.T) (*Repository, *eventLock) {
	t.Helper()
	l := &eventLock{}
	r, closeFn, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "t.db"), testDialect, l.lock)
	require.NoError(t, err)
	t.Cleanup(closeFn)
	l.repo = r
	require.NoError(t, r.Exec(context.Background(), "CREATE TABLE t (id INTEGER)"))
	return r, l
}

func writeOne(t *testing.T, r *Repository) storage.Tx {
	t.Helper()
	ctx := context.Background()
	tx, err := r.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Lock(ctx, "efw_test", time.Second))
	require.NoError(t, tx.Exec(ctx, "INSERT INTO t (id) VALUES (?)", 1))
	return tx
}

func TestTx_ReleasesLockAfterCommit(t *testing.T) {
	t.Parallel()

	r, l := openLocked(t)
	tx := writeOne(t, r)
	require.NoError(t, tx.Commit(context.Background()))
	require.Equal(t, []string{"lock efw_test", "release visible=1"}, l.events)

	// A second Rollback after Commit is a no-op and does not release twice.
	require.NoError(t, tx.Rollback(context.Background()))
	require.Len(t, l.events, 2)
}

func TestTx_ReleasesLockAfterRollback(t *testing.T) {
	t.Parallel()

	r, l := openLocked(t)
	tx := writeOne(t, r)
	require.NoError(t, tx.Rollback(context.Background()))
	require.Equal(t, []string{"lock efw_test", "release visible=0"}, l.events)
}

func TestTx_ReleaseFailureSurfaces(t *testing.T) {
	t.Parallel()

	r, l := openLocked(t)
	l.releaseErr = errors.New("lock lost")
	tx := writeOne(t, r)

	err := tx.Commit(context.Background())
	require.ErrorContains(t, err, "unlock")
	require.ErrorIs(t, err, l.releaseErr)

	// The write itself committed; the broken connection was discarded and
	// the pool still serves queries.
	rows, qerr := QueryInts(context.Background(), r.DB(), "SELECT COUNT(*) FROM t")
	require.NoError(t, qerr)
	require.Equal(t, int64(1), rows[0][0])
}

func TestNoLock_ReleasesNothing(t *testing.T) {
	t.Parallel()

	r, closeFn, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "n.db"), testDialect, nil)
	require.NoError(t, err)
	defer closeFn()

	ctx := context.Background()
	tx, err := r.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Lock(ctx, "efw_test", 0))
	require.NoError(t, tx.Commit(ctx))
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, _, err := Open(context.Background(), "sqlite", "  ", testDialect, nil)
	require.ErrorContains(t, err, "DSN must not be empty")
}
