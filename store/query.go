package store

import "strings"

type Op string

const (
	OpEq     Op = "eq"
	OpNeq    Op = "neq"
	OpGte    Op = "gte"
	OpLte    Op = "lte"
	OpIn     Op = "in"
	OpILike  Op = "ilike"
	OpIsNull Op = "is"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
	// Values holds the operands of OpIn.
	Values []any
}

type Order struct {
	Column    string
	Ascending bool
}

// Query selects rows from one collection. Builder methods return a copy, so a
// base query can be shared and refined.
type Query struct {
	Collection Collection
	Columns    []string
	Filters    []Filter
	Orders     []Order
	Max        int
}

func From(c Collection) Query {
	return Query{Collection: c}
}

func (q Query) with(f Filter) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, f)
	return q
}

// Select restricts the returned columns. No columns means all.
func (q Query) Select(columns ...string) Query {
	q.Columns = append([]string(nil), columns...)
	return q
}

func (q Query) Eq(column string, value any) Query {
	return q.with(Filter{Column: column, Op: OpEq, Value: value})
}

func (q Query) Neq(column string, value any) Query {
	return q.with(Filter{Column: column, Op: OpNeq, Value: value})
}

func (q Query) Gte(column string, value any) Query {
	return q.with(Filter{Column: column, Op: OpGte, Value: value})
}

func (q Query) Lte(column string, value any) Query {
	return q.with(Filter{Column: column, Op: OpLte, Value: value})
}

// ILike matches a case-insensitive pattern where % is the wildcard.
func (q Query) ILike(column, pattern string) Query {
	return q.with(Filter{Column: column, Op: OpILike, Value: pattern})
}

// EscapeLike makes s match itself literally inside an ILike pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// IsNull keeps rows whose column is null.
func (q Query) IsNull(column string) Query {
	return q.with(Filter{Column: column, Op: OpIsNull})
}

func (q Query) In(column string, values ...any) Query {
	return q.with(Filter{Column: column, Op: OpIn, Values: append([]any(nil), values...)})
}

// InStrings is In for the common case of string ids.
func (q Query) InStrings(column string, values []string) Query {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return q.In(column, vs...)
}

func (q Query) Order(column string, ascending bool) Query {
	orders := make([]Order, len(q.Orders), len(q.Orders)+1)
	copy(orders, q.Orders)
	q.Orders = append(orders, Order{Column: column, Ascending: ascending})
	return q
}

// Limit caps the number of rows. Zero means no cap.
func (q Query) Limit(n int) Query {
	q.Max = n
	return q
}

// empty reports whether an In filter with no operands makes q match nothing.
func (q Query) empty() bool {
	for _, f := range q.Filters {
		if f.Op == OpIn && len(f.Values) == 0 {
			return true
		}
	}
	return false
}
