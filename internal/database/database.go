package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/gerhard-ee/dbtschema/internal/config"
)

// Database defines the interface for warehouse operations
type Database interface {
	// Connect establishes a connection to the database
	Connect(ctx context.Context) error
	// Close closes the database connection
	Close() error
	// Query executes a query and returns the materialized rows
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	// Exec executes a statement without returning rows
	Exec(ctx context.Context, query string, args ...any) error
	// GetColumns returns the columns of a table in ordinal order
	GetColumns(ctx context.Context, schema, table string) ([]Column, error)
	// Quote quotes an identifier for the dialect
	Quote(ident string) string
}

// Column represents a database column
type Column struct {
	Name     string
	Type     string
	Nullable bool
	// Position is the zero-based ordinal position within the table
	Position int
}

// Row is a single result row keyed by column name
type Row map[string]any

// Get returns the value of a column, falling back to a case-insensitive match
// for warehouses that fold unquoted aliases.
func (r Row) Get(name string) any {
	if v, ok := r[name]; ok {
		return v
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

// NewDatabase creates a new database instance based on the configured type
func NewDatabase(cfg *config.Config) (Database, error) {
	switch cfg.Type {
	case config.TypeDuckDB:
		return NewDuckDB(cfg), nil
	case config.TypeSQLite:
		return NewSQLite(cfg), nil
	case config.TypePostgres:
		return NewPostgres(cfg), nil
	case config.TypeMSSQL:
		return NewMSSQL(cfg), nil
	case config.TypeSnowflake:
		return NewSnowflake(cfg), nil
	case config.TypeDatabricks:
		return NewDatabricks(cfg), nil
	case config.TypeBigQuery:
		return NewBigQuery(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open creates and connects a database instance
func Open(ctx context.Context, cfg *config.Config) (Database, error) {
	db, err := NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
