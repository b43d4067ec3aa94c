package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConflictPolicy controls what a flush does when a row collides on a
// uniqueness constraint
type ConflictPolicy int

const (
	// Strict fails the whole batch on the first duplicate key. Used for
	// primary inserts, which must not run against a populated table.
	Strict ConflictPolicy = iota
	// Ignore silently drops colliding rows. Used for the alternate-name
	// materialization pass, which coexists with rows already present.
	Ignore
)

// Execer is the slice of pgxpool.Pool the bulk writer needs
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// BulkWriter batches rows for one table and flushes them as grouped
// multi-row inserts. Callers must Flush after the last row of a write
// phase to drain the remainder.
type BulkWriter struct {
	db        Execer
	table     string
	columns   []string
	policy    ConflictPolicy
	batchSize int

	args []any
	rows int
}

// NewBulkWriter creates a writer bound to a table and column list
func NewBulkWriter(db Execer, table string, columns []string, policy ConflictPolicy, batchSize int) *BulkWriter {
	return &BulkWriter{
		db:        db,
		table:     table,
		columns:   columns,
		policy:    policy,
		batchSize: batchSize,
		args:      make([]any, 0, batchSize*len(columns)),
	}
}

// Append adds one row to the pending batch, flushing when it is full
func (w *BulkWriter) Append(ctx context.Context, vals ...any) error {
	if len(vals) != len(w.columns) {
		return fmt.Errorf("bulk insert into %s: got %d values for %d columns", w.table, len(vals), len(w.columns))
	}
	w.args = append(w.args, vals...)
	w.rows++

	if w.rows >= w.batchSize {
		return w.Flush(ctx)
	}
	return nil
}

// Flush writes any pending rows as a single grouped insert
func (w *BulkWriter) Flush(ctx context.Context) error {
	if w.rows == 0 {
		return nil
	}

	sql := w.statement(w.rows)
	if _, err := w.db.Exec(ctx, sql, w.args...); err != nil {
		return fmt.Errorf("bulk insert into %s failed: %w", w.table, err)
	}

	w.args = w.args[:0]
	w.rows = 0
	return nil
}

// Pending returns the number of buffered, unflushed rows
func (w *BulkWriter) Pending() int {
	return w.rows
}

// statement builds the grouped insert for the given row count
func (w *BulkWriter) statement(rows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", w.table, strings.Join(w.columns, ", "))

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range w.columns {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}

	if w.policy == Ignore {
		b.WriteString(" ON CONFLICT DO NOTHING")
	}
	return b.String()
}
