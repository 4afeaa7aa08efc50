package database

import (
	"fmt"
	"net/url"

	"github.com/gerhard-ee/dbtschema/internal/config"
	_ "github.com/snowflakedb/gosnowflake"
)

// NewSnowflake creates a new Snowflake instance
func NewSnowflake(cfg *config.Config) Database {
	params := url.Values{}
	if cfg.Warehouse != "" {
		params.Set("warehouse", cfg.Warehouse)
	}
	if cfg.Role != "" {
		params.Set("role", cfg.Role)
	}

	// user:password@account/database?warehouse=...&role=...
	connStr := fmt.Sprintf("%s:%s@%s/%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Account, cfg.Database)
	if len(params) > 0 {
		connStr += "?" + params.Encode()
	}

	return &sqlDatabase{
		driver: "snowflake",
		dsn:    connStr,
		quote:  doubleQuote,
		columnsQuery: func(schema, table string) (string, []any) {
			// Unquoted identifiers are stored upper case
			query := `
				SELECT column_name, data_type, is_nullable
				FROM information_schema.columns
				WHERE UPPER(table_schema) = UPPER(?) AND UPPER(table_name) = UPPER(?)
				ORDER BY ordinal_position
			`
			return query, []any{schema, table}
		},
	}
}
