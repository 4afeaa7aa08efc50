package database

import (
	"context"

	"github.com/gerhard-ee/dbtschema/internal/config"
)

// PerQuery opens a fresh connection for every call and closes it afterwards.
// An idle DuckDB handle would hold the file lock the profiler needs.
type PerQuery struct {
	config *config.Config
}

// NewPerQuery creates a PerQuery accessor for the configured warehouse
func NewPerQuery(cfg *config.Config) *PerQuery {
	return &PerQuery{config: cfg}
}

func (p *PerQuery) with(ctx context.Context, fn func(Database) error) error {
	db, err := Open(ctx, p.config)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// DistinctValues returns the sorted distinct non-null values of a column
func (p *PerQuery) DistinctValues(ctx context.Context, schema, table, column string) ([]any, error) {
	var values []any
	err := p.with(ctx, func(db Database) error {
		var err error
		values, err = DistinctValues(ctx, db, schema, table, column)
		return err
	})
	return values, err
}

// ColumnStats counts rows, non-null values and distinct values of a column
func (p *PerQuery) ColumnStats(ctx context.Context, schema, table, column string) (*Stats, error) {
	var stats *Stats
	err := p.with(ctx, func(db Database) error {
		var err error
		stats, err = ColumnStats(ctx, db, schema, table, column)
		return err
	})
	return stats, err
}

// GetColumns returns the columns of a table in ordinal order
func (p *PerQuery) GetColumns(ctx context.Context, schema, table string) ([]Column, error) {
	var columns []Column
	err := p.with(ctx, func(db Database) error {
		var err error
		columns, err = db.GetColumns(ctx, schema, table)
		return err
	})
	return columns, err
}
