package store

import (
	"encoding/json"
	"fmt"
)

// encodeStringList serializes a string slice to its JSON column form.
// nil encodes as "[]" so columns never hold SQL NULL for list fields.
func encodeStringList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		// []string marshaling cannot fail; keep the column well-formed anyway.
		return "[]"
	}
	return string(b)
}

// decodeStringList parses a JSON array column back into a string slice.
// Empty input decodes as an empty (non-nil) slice.
func decodeStringList(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("malformed list column %q: %w", s, err)
	}
	return out, nil
}

// queryStringColumn executes query and returns all values of the first string column.
func queryStringColumn(q Querier, query string, args ...any) ([]string, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if scanErr := rows.Scan(&s); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
