package tmux

import "strconv"

// Row is one record of tmux format output: field name → raw string value.
// Rows are snapshots; they are never updated by the tmux server.
type Row map[string]string

// Get returns the value of field, or "" when the field is absent.
func (r Row) Get(field string) string {
	return r[field]
}

// Int returns the value of field parsed as an integer. The second return
// value is false when the field is absent or not numeric.
func (r Row) Int(field string) (int, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bool reports whether a tmux flag field is set ("1").
func (r Row) Bool(field string) bool {
	return r[field] == "1"
}

// Matches reports whether every attribute in attrs is present in the row
// with an equal value. An empty attrs matches every row.
func (r Row) Matches(attrs map[string]string) bool {
	for k, want := range attrs {
		got, ok := r[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// clone returns a copy so callers can't mutate a snapshot shared elsewhere.
func (r Row) clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Where returns all rows matching attrs, in their original order.
func Where(rows []Row, attrs map[string]string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Matches(attrs) {
			out = append(out, r)
		}
	}
	return out
}

// FindWhere returns the first row matching attrs.
func FindWhere(rows []Row, attrs map[string]string) (Row, bool) {
	for _, r := range rows {
		if r.Matches(attrs) {
			return r, true
		}
	}
	return nil, false
}
