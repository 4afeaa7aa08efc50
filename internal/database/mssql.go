package database

import (
	"fmt"

	"github.com/gerhard-ee/dbtschema/internal/config"
	_ "github.com/denisenkom/go-mssqldb"
)

// NewMSSQL creates a new SQL Server instance
func NewMSSQL(cfg *config.Config) Database {
	port := cfg.Port
	if port == 0 {
		port = 1433
	}

	connStr := fmt.Sprintf("server=%s;port=%d;user id=%s;password=%s;database=%s",
		cfg.Host,
		port,
		cfg.User,
		cfg.Password,
		cfg.Database)

	return &sqlDatabase{
		driver: "sqlserver",
		dsn:    connStr,
		quote:  bracketQuote,
		columnsQuery: func(schema, table string) (string, []any) {
			if schema == "" {
				schema = "dbo"
			}
			query := `
				SELECT 
					COLUMN_NAME AS column_name,
					DATA_TYPE AS data_type,
					IS_NULLABLE AS is_nullable
				FROM INFORMATION_SCHEMA.COLUMNS
				WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2
				ORDER BY ORDINAL_POSITION
			`
			return query, []any{schema, table}
		},
	}
}
