package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/gerhard-ee/dbtschema/internal/database"
)

// StatsSource exposes the catalog and column statistics of a warehouse
type StatsSource interface {
	GetColumns(ctx context.Context, schema, table string) ([]database.Column, error)
	ColumnStats(ctx context.Context, schema, table, column string) (*database.Stats, error)
}

// SQLProvider computes profiles directly in the warehouse, without dbt
type SQLProvider struct {
	Source StatsSource
}

// Profile builds a model from the catalog and per-column aggregate queries
func (p *SQLProvider) Profile(ctx context.Context, schema, table string, exclude []string) (*Model, error) {
	columns, err := p.Source.GetColumns(ctx, schema, table)
	if err != nil {
		return nil, fmt.Errorf("profile %s.%s: %w", schema, table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w for %s.%s", ErrNoProfile, schema, table)
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(name)] = struct{}{}
	}

	model := &Model{Name: table}
	for _, col := range columns {
		if _, ok := skip[strings.ToLower(col.Name)]; ok {
			continue
		}

		stats, err := p.Source.ColumnStats(ctx, schema, table, col.Name)
		if err != nil {
			return nil, fmt.Errorf("profile %s.%s: %w", schema, table, err)
		}

		model.Columns = append(model.Columns, &Column{
			Name: col.Name,
			Meta: Metadata{
				DataType: strings.ToLower(col.Type),
				Stats: map[string]any{
					KeyRowCount:           stats.RowCount,
					KeyNotNullProportion:  stats.NotNullProportion(),
					KeyDistinctProportion: stats.DistinctProportion(),
					KeyDistinctCount:      stats.DistinctCount,
					KeyIsUnique:           stats.IsUnique(),
				},
			},
		})
	}

	return model, nil
}
