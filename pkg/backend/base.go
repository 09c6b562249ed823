package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// BaseSQLBackend provides common database/sql functionality for
// backends. Embed it in concrete implementations to get standard Close
// and Query behavior; the embedder supplies Connect.
type BaseSQLBackend struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLBackend) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing backend connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected reports whether the connection is established.
func (b *BaseSQLBackend) IsConnected() bool {
	return b.DB != nil
}

// Query executes a statement and collects every row, converting all
// values to their string form so callers can look columns up by name
// without driver-specific typing.
func (b *BaseSQLBackend) Query(ctx context.Context, query string) (*Result, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("backend connection not established")
	}
	if b.Logger != nil {
		b.Logger.Debug("executing query", slog.String("query", query))
	}

	rows, err := b.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var collected []Row
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = stringValue(values[i])
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return NewResult(cols, collected), nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
