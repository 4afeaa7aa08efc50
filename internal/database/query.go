package database

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Stats holds the aggregate counts used to profile a column
type Stats struct {
	RowCount      int64
	NotNullCount  int64
	DistinctCount int64
}

// NotNullProportion returns the share of non-null values, 0 for an empty table
func (s *Stats) NotNullProportion() float64 {
	if s.RowCount == 0 {
		return 0
	}
	return float64(s.NotNullCount) / float64(s.RowCount)
}

// DistinctProportion returns the share of distinct values, 0 for an empty table
func (s *Stats) DistinctProportion() float64 {
	if s.RowCount == 0 {
		return 0
	}
	return float64(s.DistinctCount) / float64(s.RowCount)
}

// IsUnique reports whether every row holds a distinct value
func (s *Stats) IsUnique() bool {
	return s.RowCount > 0 && s.DistinctCount == s.RowCount
}

// Qualify returns the quoted schema.table reference
func Qualify(db Database, schema, table string) string {
	if schema == "" {
		return db.Quote(table)
	}
	return db.Quote(schema) + "." + db.Quote(table)
}

// DistinctValues returns the sorted distinct non-null values of a column
func DistinctValues(ctx context.Context, db Database, schema, table, column string) ([]any, error) {
	col := db.Quote(column)
	query := fmt.Sprintf("SELECT DISTINCT %s AS value FROM %s WHERE %s IS NOT NULL ORDER BY 1",
		col, Qualify(db, schema, table), col)

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct values of %s.%s: %w", table, column, err)
	}

	values := make([]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Get("value"))
	}
	return values, nil
}

// ColumnStats counts rows, non-null values and distinct values of a column
func ColumnStats(ctx context.Context, db Database, schema, table, column string) (*Stats, error) {
	col := db.Quote(column)
	query := fmt.Sprintf(
		"SELECT COUNT(*) AS row_count, COUNT(%s) AS not_null_count, COUNT(DISTINCT %s) AS distinct_count FROM %s",
		col, col, Qualify(db, schema, table))

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to profile %s.%s: %w", table, column, err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("failed to profile %s.%s: expected one row, got %d", table, column, len(rows))
	}

	var stats Stats
	for name, dest := range map[string]*int64{
		"row_count":      &stats.RowCount,
		"not_null_count": &stats.NotNullCount,
		"distinct_count": &stats.DistinctCount,
	} {
		n, err := ToInt64(rows[0].Get(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s of %s.%s: %w", name, table, column, err)
		}
		*dest = n
	}

	return &stats, nil
}

// ToInt64 converts the integer representations returned by the drivers
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case *big.Int:
		return n.Int64(), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected numeric value %v (%T)", v, v)
	}
}
