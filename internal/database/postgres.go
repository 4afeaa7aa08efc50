package database

import (
	"fmt"

	"github.com/gerhard-ee/dbtschema/internal/config"
	_ "github.com/lib/pq"
)

// NewPostgres creates a new PostgreSQL instance
func NewPostgres(cfg *config.Config) Database {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		port,
		cfg.User,
		cfg.Password,
		cfg.Database)

	return &sqlDatabase{
		driver:       "postgres",
		dsn:          connStr,
		quote:        doubleQuote,
		columnsQuery: informationSchemaColumns("$1", "$2", "public"),
	}
}
