package database

import (
	"path/filepath"

	"github.com/gerhard-ee/dbtschema/internal/config"
	_ "github.com/marcboeker/go-duckdb"
)

// NewDuckDB creates a new DuckDB instance backed by a local file
func NewDuckDB(cfg *config.Config) Database {
	// For DuckDB, the Database is treated as a file path
	dbPath := cfg.Database
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(".", dbPath)
	}

	return &sqlDatabase{
		driver:       "duckdb",
		dsn:          dbPath,
		quote:        doubleQuote,
		columnsQuery: informationSchemaColumns("?", "?", "main"),
	}
}

// informationSchemaColumns builds the ANSI catalog query shared by most warehouses
func informationSchemaColumns(schemaParam, tableParam, defaultSchema string) func(schema, table string) (string, []any) {
	return func(schema, table string) (string, []any) {
		if schema == "" {
			schema = defaultSchema
		}
		query := `
			SELECT column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = ` + schemaParam + ` AND table_name = ` + tableParam + `
			ORDER BY ordinal_position
		`
		return query, []any{schema, table}
	}
}
