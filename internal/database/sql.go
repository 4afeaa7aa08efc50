package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// sqlDatabase implements Database on top of a database/sql driver
type sqlDatabase struct {
	driver string
	dsn    string
	// quote wraps an identifier in the dialect's quoting characters
	quote func(string) string
	// columnsQuery builds the catalog query returning column_name, data_type, is_nullable
	columnsQuery func(schema, table string) (string, []any)
	db           *sql.DB
}

// Connect establishes a connection to the database
func (d *sqlDatabase) Connect(ctx context.Context) error {
	db, err := sql.Open(d.driver, d.dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", d.driver, err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to %s database: %w", d.driver, err)
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *sqlDatabase) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Query executes a query and returns the materialized rows
func (d *sqlDatabase) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	if d.db == nil {
		return nil, fmt.Errorf("%s database is not connected", d.driver)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// Exec executes a statement without returning rows
func (d *sqlDatabase) Exec(ctx context.Context, query string, args ...any) error {
	if d.db == nil {
		return fmt.Errorf("%s database is not connected", d.driver)
	}
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// GetColumns returns the columns of a table in ordinal order
func (d *sqlDatabase) GetColumns(ctx context.Context, schema, table string) ([]Column, error) {
	query, args := d.columnsQuery(schema, table)
	rows, err := d.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns of %s: %w", table, err)
	}
	return columnsFromRows(rows), nil
}

// Quote quotes an identifier for the dialect
func (d *sqlDatabase) Quote(ident string) string {
	return d.quote(ident)
}

func columnsFromRows(rows []Row) []Column {
	columns := make([]Column, 0, len(rows))
	for i, row := range rows {
		columns = append(columns, Column{
			Name:     fmt.Sprint(row.Get("column_name")),
			Type:     fmt.Sprint(row.Get("data_type")),
			Nullable: isNullable(row.Get("is_nullable")),
			Position: i,
		})
	}
	return columns
}

func isNullable(v any) bool {
	switch n := v.(type) {
	case bool:
		return n
	case string:
		return strings.EqualFold(n, "YES") || n == "1" || strings.EqualFold(n, "true")
	default:
		i, err := ToInt64(v)
		return err == nil && i != 0
	}
}

// normalize converts driver-specific byte slices to strings
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func doubleQuote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func backtickQuote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func bracketQuote(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}
