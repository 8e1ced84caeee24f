package storage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// insertBatches writes rows into table with multi-row INSERT statements
// sized to the dialect's parameter and row limits. Progress is logged per
// statement when verbose is set.
func insertBatches(ctx context.Context, tx Tx, d Dialect, table string, columns []string, rows [][]any, verbose bool) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	per := len(rows)
	if d.MaxParams > 0 && per*len(columns) > d.MaxParams {
		per = d.MaxParams / len(columns)
	}
	if d.MaxRows > 0 && per > d.MaxRows {
		per = d.MaxRows
	}
	if per <= 0 {
		return 0, fmt.Errorf("insert %s: %d columns exceed the parameter limit %d", table, len(columns), d.MaxParams)
	}

	var (
		total   int64
		batches int
		start   = time.Now()
		prefix  = fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
	)
	for lo := 0; lo < len(rows); lo += per {
		hi := lo + per
		if hi > len(rows) {
			hi = len(rows)
		}
		stmt, args := valuesStatement(d, prefix, len(columns), rows[lo:hi])
		if err := tx.Exec(ctx, stmt, args...); err != nil {
			log.Printf("load: insert into %s failed after=%d err=%v", table, total, err)
			return total, fmt.Errorf("insert %s: %w", table, err)
		}
		total += int64(hi - lo)
		batches++
		if verbose {
			elapsed := time.Since(start)
			rps := float64(0)
			if elapsed > 0 {
				rps = float64(total) / elapsed.Seconds()
			}
			log.Printf("load: %s batch #%d: rows=%d total=%d rps=%.0f elapsed=%s", table, batches, hi-lo, total, rps, elapsed.Truncate(time.Millisecond))
		}
	}
	return total, nil
}

// valuesStatement renders prefix followed by one placeholder tuple per row.
func valuesStatement(d Dialect, prefix string, width int, rows [][]any) (string, []any) {
	var b strings.Builder
	b.Grow(len(prefix) + len(rows)*width*5)
	b.WriteString(prefix)
	args := make([]any, 0, len(rows)*width)
	n := 0
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < width; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			n++
			b.WriteString(d.Placeholder(n))
			args = append(args, r[j])
		}
		b.WriteByte(')')
	}
	return b.String(), args
}
