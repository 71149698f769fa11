package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Postgres talks to the record store's database directly.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	// Rows carry more columns than the structs they are scanned into.
	return &Postgres{db: db.Unsafe()}
}

func (p *Postgres) Find(ctx context.Context, q Query, dest any) error {
	if err := checkCollection(q.Collection); err != nil {
		return err
	}
	if q.empty() {
		return resetSlice(dest)
	}
	query, args := buildSelect(q)
	if err := p.selectInto(ctx, dest, query, args); err != nil {
		return errors.Wrapf(err, "postgres find %s", q.Collection)
	}
	return nil
}

func (p *Postgres) Count(ctx context.Context, q Query) (int, error) {
	if err := checkCollection(q.Collection); err != nil {
		return 0, err
	}
	if q.empty() {
		return 0, nil
	}
	where, args := buildWhere(q.Filters, 1)
	query := "SELECT COUNT(*) FROM " + pq.QuoteIdentifier(string(q.Collection)) + where

	var n int
	if err := p.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, errors.Wrapf(err, "postgres count %s", q.Collection)
	}
	return n, nil
}

func (p *Postgres) Upsert(ctx context.Context, c Collection, values Values, onConflict []string, dest any) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("upsert %s: no values", c)
	}
	query, args := buildUpsert(c, values, onConflict)

	var err error
	switch d := dest.(type) {
	case nil:
		_, err = p.db.ExecContext(ctx, query, args...)
	case *Row:
		row := map[string]any{}
		err = p.db.QueryRowxContext(ctx, query, args...).MapScan(row)
		*d = normalizeRow(row)
	default:
		err = p.db.QueryRowxContext(ctx, query, args...).StructScan(dest)
	}
	if err != nil {
		return errors.Wrapf(err, "postgres upsert %s", c)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, q Query, values Values, dest any) error {
	if err := checkCollection(q.Collection); err != nil {
		return err
	}
	if len(q.Filters) == 0 {
		return fmt.Errorf("update %s: refusing to update without filters", q.Collection)
	}
	if len(values) == 0 {
		return fmt.Errorf("update %s: no values", q.Collection)
	}
	if q.empty() {
		return resetSlice(dest)
	}

	cols := sortedColumns(values)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(q.Filters))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), i+1)
		args = append(args, values[col])
	}
	where, whereArgs := buildWhere(q.Filters, len(cols)+1)
	args = append(args, whereArgs...)
	query := "UPDATE " + pq.QuoteIdentifier(string(q.Collection)) + " SET " + strings.Join(sets, ", ") + where

	var err error
	if dest == nil {
		_, err = p.db.ExecContext(ctx, query, args...)
	} else {
		err = p.selectInto(ctx, dest, query+" RETURNING *", args)
	}
	if err != nil {
		return errors.Wrapf(err, "postgres update %s", q.Collection)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, q Query) (int, error) {
	if err := checkCollection(q.Collection); err != nil {
		return 0, err
	}
	if len(q.Filters) == 0 {
		return 0, fmt.Errorf("delete %s: refusing to delete without filters", q.Collection)
	}
	if q.empty() {
		return 0, nil
	}
	where, args := buildWhere(q.Filters, 1)
	res, err := p.db.ExecContext(ctx, "DELETE FROM "+pq.QuoteIdentifier(string(q.Collection))+where, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "postgres delete %s", q.Collection)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "postgres delete %s", q.Collection)
	}
	return int(n), nil
}

func (p *Postgres) selectInto(ctx context.Context, dest any, query string, args []any) error {
	rowsDest, ok := dest.(*[]Row)
	if !ok {
		return p.db.SelectContext(ctx, dest, query, args...)
	}

	rows, err := p.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return err
		}
		out = append(out, normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	*rowsDest = out
	return nil
}

func buildSelect(q Query) (string, []any) {
	cols := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			quoted[i] = pq.QuoteIdentifier(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + cols + " FROM " + pq.QuoteIdentifier(string(q.Collection)))
	where, args := buildWhere(q.Filters, 1)
	sb.WriteString(where)

	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "DESC"
			if o.Ascending {
				dir = "ASC"
			}
			parts[i] = pq.QuoteIdentifier(o.Column) + " " + dir
		}
		sb.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Max > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Max)
	}
	return sb.String(), args
}

// buildWhere renders filters with placeholders numbered from start.
func buildWhere(filters []Filter, start int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	n := start
	conds := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		col := pq.QuoteIdentifier(f.Column)
		switch f.Op {
		case OpIsNull:
			conds = append(conds, col+" IS NULL")
		case OpIn:
			ph := make([]string, len(f.Values))
			for i, v := range f.Values {
				ph[i] = fmt.Sprintf("$%d", n)
				args = append(args, v)
				n++
			}
			conds = append(conds, col+" IN ("+strings.Join(ph, ", ")+")")
		default:
			conds = append(conds, fmt.Sprintf("%s %s $%d", col, sqlOperators[f.Op], n))
			args = append(args, f.Value)
			n++
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var sqlOperators = map[Op]string{
	OpEq:    "=",
	OpNeq:   "<>",
	OpGte:   ">=",
	OpLte:   "<=",
	OpILike: "ILIKE",
}

func buildUpsert(c Collection, values Values, onConflict []string) (string, []any) {
	cols := sortedColumns(values)
	quoted := make([]string, len(cols))
	ph := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col)
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[col]
	}

	query := "INSERT INTO " + pq.QuoteIdentifier(string(c)) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(ph, ", ") + ")"

	if len(onConflict) > 0 {
		conflict := make(map[string]bool, len(onConflict))
		keys := make([]string, len(onConflict))
		for i, col := range onConflict {
			conflict[col] = true
			keys[i] = pq.QuoteIdentifier(col)
		}
		var sets []string
		for _, col := range cols {
			if !conflict[col] {
				sets = append(sets, pq.QuoteIdentifier(col)+" = EXCLUDED."+pq.QuoteIdentifier(col))
			}
		}
		// DO NOTHING would return no row on conflict.
		if len(sets) == 0 {
			sets = append(sets, keys[0]+" = EXCLUDED."+keys[0])
		}
		query += " ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return query + " RETURNING *", args
}

func sortedColumns(values Values) []string {
	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func normalizeRow(row map[string]any) Row {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
	return Row(row)
}
