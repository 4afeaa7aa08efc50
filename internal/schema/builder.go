package schema

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/gerhard-ee/dbtschema/internal/database"
	"github.com/gerhard-ee/dbtschema/internal/profile"
)

// SchemaVersion is the dbt properties file version
const SchemaVersion = 2

// ValueSource returns the sorted distinct non-null values of a column
type ValueSource interface {
	DistinctValues(ctx context.Context, schema, table, column string) ([]any, error)
}

// Catalog returns the columns of a table in ordinal order
type Catalog interface {
	GetColumns(ctx context.Context, schema, table string) ([]database.Column, error)
}

// Builder turns profiles of the models in a directory into a dbt schema file
type Builder struct {
	Provider profile.Provider
	Values   ValueSource
	// Catalog resolves excluded columns; only needed when Exclude is set
	Catalog           Catalog
	MaxAcceptedValues int
	// Exclude maps table names to columns left out of profiling
	Exclude map[string][]string
}

func (b *Builder) maxAcceptedValues() int {
	if b.MaxAcceptedValues > 0 {
		return b.MaxAcceptedValues
	}
	return DefaultMaxAcceptedValues
}

// Compose profiles every model found in fileLocation and renders the schema file
func (b *Builder) Compose(ctx context.Context, schema, fileLocation string) (string, error) {
	tables, err := ListArtifacts(fileLocation)
	if err != nil {
		return "", err
	}

	doc := &profile.Document{Version: SchemaVersion, Models: []*profile.Model{}}
	for _, table := range tables {
		model, err := b.Build(ctx, schema, table)
		if err != nil {
			return "", err
		}
		doc.Models = append(doc.Models, model)
	}

	return Render(doc)
}

// Build profiles one table and infers its tests
func (b *Builder) Build(ctx context.Context, schema, table string) (*profile.Model, error) {
	excluded, err := b.excludedColumns(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(excluded))
	for i, ex := range excluded {
		names[i] = ex.Name
	}

	model, err := b.Provider.Profile(ctx, schema, table, names)
	if err != nil {
		return nil, err
	}

	if err := b.ProcessModel(ctx, model, schema, table, excluded); err != nil {
		return nil, err
	}
	return model, nil
}

// ProcessModel restores excluded columns, adds tests and trims metadata down to the data type
func (b *Builder) ProcessModel(ctx context.Context, model *profile.Model, schema, table string, excluded []profile.ExcludedColumn) error {
	model.Columns = MergeExcluded(model.Columns, excluded)

	skip := make(map[string]struct{}, len(excluded))
	for _, ex := range excluded {
		skip[ex.Name] = struct{}{}
	}

	for _, col := range model.Columns {
		dataType := col.Meta.DataType

		// No profiling data, so no way to add tests
		if _, ok := skip[col.Name]; ok {
			continue
		}

		inf, err := Infer(col, b.maxAcceptedValues())
		if err != nil {
			log.Printf("Column %s (%s) has incomplete metadata: %v", col.Name, dataType, col.Meta.Stats)
			return fmt.Errorf("column %s.%s.%s: %w", schema, table, col.Name, err)
		}

		col.Tests = nil
		if inf.Any() {
			if col.Tests, err = b.tests(ctx, inf, schema, table, col.Name, dataType); err != nil {
				return err
			}
		}

		col.Meta = profile.Metadata{DataType: dataType}
		if inf.AllNull {
			col.Meta.AllNullWarning = allNullWarning
		}
	}

	return nil
}

// tests builds the tests of a column in not_null, unique, accepted_values order
func (b *Builder) tests(ctx context.Context, inf Inference, schema, table, column, dataType string) ([]profile.Test, error) {
	var tests []profile.Test
	if inf.NotNull {
		tests = append(tests, profile.NotNull)
	}
	if inf.Unique {
		tests = append(tests, profile.Unique)
	}
	if inf.Categorical {
		values, err := b.Values.DistinctValues(ctx, schema, table, column)
		if err != nil {
			return nil, fmt.Errorf("accepted values for %s.%s.%s: %w", schema, table, column, err)
		}
		tests = append(tests, profile.NewAcceptedValues(values, IsString(dataType)))
	}
	return tests, nil
}

// excludedColumns resolves the configured exclusions of a table against the catalog
func (b *Builder) excludedColumns(ctx context.Context, schema, table string) ([]profile.ExcludedColumn, error) {
	names := b.Exclude[table]
	if len(names) == 0 {
		return nil, nil
	}
	if b.Catalog == nil {
		return nil, fmt.Errorf("cannot resolve excluded columns of %s.%s without a catalog", schema, table)
	}

	columns, err := b.Catalog.GetColumns(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	excluded := make([]profile.ExcludedColumn, 0, len(names))
	for _, name := range names {
		col, ok := findColumn(columns, name)
		if !ok {
			return nil, fmt.Errorf("excluded column %s not found in %s.%s", name, schema, table)
		}
		excluded = append(excluded, profile.ExcludedColumn{
			Name:     col.Name,
			DataType: strings.ToLower(col.Type),
			Position: col.Position,
		})
	}

	// Ascending positions make each insertion land on its final index
	sort.SliceStable(excluded, func(i, j int) bool {
		return excluded[i].Position < excluded[j].Position
	})
	return excluded, nil
}

func findColumn(columns []database.Column, name string) (database.Column, bool) {
	for _, col := range columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return database.Column{}, false
}
