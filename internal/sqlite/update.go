package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// updateBuilder accumulates SET clauses for a partial UPDATE. Column names
// come from fixed literals at the call sites; values are always bound
// parameters. Callers add one Set per field present in the request, so
// absent fields are never touched.
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

// Set records column = value for the pending statement.
func (u *updateBuilder) Set(column string, value any) *updateBuilder {
	u.sets = append(u.sets, column+" = ?")
	u.args = append(u.args, value)
	return u
}

// Empty reports whether no field has been recorded yet.
func (u *updateBuilder) Empty() bool {
	return len(u.sets) == 0
}

// Exec runs the accumulated UPDATE restricted by the where clause and
// returns the number of rows changed.
func (u *updateBuilder) Exec(ctx context.Context, q querier, where string, whereArgs ...any) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s`, u.table, strings.Join(u.sets, ", "), where)
	args := append(append([]any{}, u.args...), whereArgs...)
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", u.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", u.table, err)
	}
	return n, nil
}
