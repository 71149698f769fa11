package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process RecordStore for tests and local runs. Rows are kept
// in their JSON form, so decoding follows the same json tags as Supabase.
type Memory struct {
	mu     sync.RWMutex
	tables map[Collection][]Row
	now    func() time.Time
}

// columnDefaults mirrors the database defaults the services rely on.
var columnDefaults = map[Collection]Values{
	Comments:           {"likes": 0, "dislikes": 0},
	WalletTransactions: {"status": "pending"},
}

func NewMemory() *Memory {
	return &Memory{
		tables: make(map[Collection][]Row),
		now:    time.Now,
	}
}

// Seed inserts rows as given, filling only id and created_at when absent.
func (m *Memory) Seed(c Collection, rows ...Values) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range rows {
		m.tables[c] = append(m.tables[c], m.newRow(c, v))
	}
}

func (m *Memory) Find(ctx context.Context, q Query, dest any) error {
	if err := checkCollection(q.Collection); err != nil {
		return err
	}
	m.mu.RLock()
	rows, err := m.match(q)
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	sortRows(rows, q.Orders)
	if q.Max > 0 && len(rows) > q.Max {
		rows = rows[:q.Max]
	}
	if len(q.Columns) > 0 {
		for i, r := range rows {
			rows[i] = project(r, q.Columns)
		}
	}
	return decode(rows, dest)
}

func (m *Memory) Count(ctx context.Context, q Query) (int, error) {
	if err := checkCollection(q.Collection); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, err := m.match(q)
	return len(rows), err
}

func (m *Memory) Upsert(ctx context.Context, c Collection, values Values, onConflict []string, dest any) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	incoming, err := toRow(values)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var saved Row
	if len(onConflict) > 0 {
		for i, r := range m.tables[c] {
			if sameKey(r, incoming, onConflict) {
				for k, v := range incoming {
					if k != "id" && k != "created_at" {
						r[k] = v
					}
				}
				m.tables[c][i] = r
				saved = r
				break
			}
		}
	}
	if saved == nil {
		saved = m.newRow(c, values)
		m.tables[c] = append(m.tables[c], saved)
	}

	if dest == nil {
		return nil
	}
	b, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

func (m *Memory) Update(ctx context.Context, q Query, values Values, dest any) error {
	if err := checkCollection(q.Collection); err != nil {
		return err
	}
	if len(q.Filters) == 0 {
		return fmt.Errorf("update %s: refusing to update without filters", q.Collection)
	}
	patch, err := toRow(values)
	if err != nil {
		return err
	}

	m.mu.Lock()
	var updated []Row
	for i, r := range m.tables[q.Collection] {
		ok, err := matches(r, q.Filters)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		if !ok {
			continue
		}
		for k, v := range patch {
			r[k] = v
		}
		m.tables[q.Collection][i] = r
		updated = append(updated, copyRow(r))
	}
	m.mu.Unlock()

	if dest == nil {
		return nil
	}
	return decode(updated, dest)
}

func (m *Memory) Delete(ctx context.Context, q Query) (int, error) {
	if err := checkCollection(q.Collection); err != nil {
		return 0, err
	}
	if len(q.Filters) == 0 {
		return 0, fmt.Errorf("delete %s: refusing to delete without filters", q.Collection)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tables[q.Collection][:0]
	removed := 0
	for _, r := range m.tables[q.Collection] {
		ok, err := matches(r, q.Filters)
		if err != nil {
			return 0, err
		}
		if ok {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.tables[q.Collection] = kept
	return removed, nil
}

func (m *Memory) newRow(c Collection, values Values) Row {
	merged := Values{}
	for k, v := range columnDefaults[c] {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	if _, ok := merged["id"]; !ok {
		merged["id"] = uuid.NewString()
	}
	if _, ok := merged["created_at"]; !ok {
		merged["created_at"] = m.now().UTC()
	}
	row, err := toRow(merged)
	if err != nil {
		panic(fmt.Sprintf("memory store: unencodable values for %s: %v", c, err))
	}
	return row
}

func (m *Memory) match(q Query) ([]Row, error) {
	var out []Row
	for _, r := range m.tables[q.Collection] {
		ok, err := matches(r, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, copyRow(r))
		}
	}
	return out, nil
}

func matches(r Row, filters []Filter) (bool, error) {
	for _, f := range filters {
		v, present := r[f.Column]
		switch f.Op {
		case OpIsNull:
			if present && v != nil {
				return false, nil
			}
		case OpIn:
			found := false
			for _, want := range f.Values {
				if compare(v, jsonValue(want)) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		case OpILike:
			s, ok := v.(string)
			if !ok || !likePattern(fmt.Sprint(f.Value)).MatchString(s) {
				return false, nil
			}
		default:
			if v == nil {
				return false, nil
			}
			c := compare(v, jsonValue(f.Value))
			switch f.Op {
			case OpEq:
				if c != 0 {
					return false, nil
				}
			case OpNeq:
				if c == 0 {
					return false, nil
				}
			case OpGte:
				if c < 0 {
					return false, nil
				}
			case OpLte:
				if c > 0 {
					return false, nil
				}
			default:
				return false, fmt.Errorf("unsupported operator %q", f.Op)
			}
		}
	}
	return true, nil
}

func sameKey(a, b Row, cols []string) bool {
	for _, c := range cols {
		if compare(a[c], b[c]) != 0 {
			return false
		}
	}
	return true
}

// compare orders JSON values: numbers numerically, timestamps chronologically,
// everything else by its string form. nil sorts first.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	if ta, err := time.Parse(time.RFC3339Nano, sa); err == nil {
		if tb, err := time.Parse(time.RFC3339Nano, sb); err == nil {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(sa, sb)
}

func sortRows(rows []Row, orders []Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compare(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

// likePattern compiles a LIKE pattern: % and _ are wildcards and a
// backslash makes the next character literal.
func likePattern(p string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?is)^")
	escaped := false
	for _, r := range p {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

func project(r Row, cols []string) Row {
	out := make(Row, len(cols))
	for _, c := range cols {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func toRow(values Values) (Row, error) {
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var r Row
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return r, nil
}

func jsonValue(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}

func decode(rows []Row, dest any) error {
	if rows == nil {
		rows = []Row{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}
