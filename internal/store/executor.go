package store

import (
	"context"
	"strings"
)

// QueryResult is the structured outcome of executing one statement.
// Store-level errors never escape as Go errors from Execute; they become
// a failure result the orchestrator reports to the caller. The JSON tags
// match the per-query result echoed in the chat payload.
type QueryResult struct {
	Success      bool             `json:"success"`
	Rows         []map[string]any `json:"data,omitempty"`
	RowsAffected int64            `json:"rows_affected,omitempty"`
	LastID       int64            `json:"last_id,omitempty"`
	Error        string           `json:"error,omitempty"`
}

func failure(err error) QueryResult {
	return QueryResult{Success: false, Error: err.Error()}
}

// isReadStatement classifies a statement by its leading keyword. WITH is
// included so CTE reads take the row path.
func isReadStatement(statement string) bool {
	upper := strings.ToUpper(strings.TrimSpace(statement))
	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH")
}

// hasReturning reports whether a write statement hands rows back, in
// which case it goes through the row path and the inserted id is scanned.
func hasReturning(statement string) bool {
	return strings.Contains(strings.ToUpper(statement), "RETURNING")
}

// Execute runs one validated statement on a connection scoped to the
// call. Reads return column-name→value row maps; writes report the
// affected-row count, or the returned id when the statement carries a
// RETURNING clause.
func (s *Store) Execute(ctx context.Context, statement string) QueryResult {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return failure(err)
	}
	defer conn.Release()

	if isReadStatement(statement) || hasReturning(statement) {
		rows, err := conn.Query(ctx, statement)
		if err != nil {
			return failure(err)
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		var out []map[string]any
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return failure(err)
			}
			row := make(map[string]any, len(fields))
			for i, fd := range fields {
				row[fd.Name] = values[i]
			}
			out = append(out, row)
		}
		if err := rows.Err(); err != nil {
			return failure(err)
		}

		if isReadStatement(statement) {
			if out == nil {
				out = []map[string]any{}
			}
			return QueryResult{Success: true, Rows: out}
		}
		// Write with RETURNING: surface the id of the last returned row.
		res := QueryResult{Success: true, RowsAffected: int64(len(out))}
		if len(out) > 0 {
			if id, ok := out[len(out)-1]["id"]; ok {
				switch v := id.(type) {
				case int64:
					res.LastID = v
				case int32:
					res.LastID = int64(v)
				}
			}
		}
		return res
	}

	tag, err := conn.Exec(ctx, statement)
	if err != nil {
		return failure(err)
	}
	return QueryResult{Success: true, RowsAffected: tag.RowsAffected()}
}
