package database

import (
	"github.com/gerhard-ee/dbtschema/internal/config"
	_ "modernc.org/sqlite"
)

// NewSQLite creates a new SQLite instance backed by a local file
func NewSQLite(cfg *config.Config) Database {
	return &sqlDatabase{
		driver: "sqlite",
		dsn:    cfg.Database,
		quote:  doubleQuote,
		columnsQuery: func(schema, table string) (string, []any) {
			if schema == "" {
				schema = "main"
			}
			query := `
				SELECT name AS column_name, type AS data_type,
					CASE WHEN "notnull" = 1 THEN 'NO' ELSE 'YES' END AS is_nullable
				FROM pragma_table_info(?, ?)
				ORDER BY cid
			`
			return query, []any{table, schema}
		},
	}
}
