package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Supported warehouse types
const (
	TypeDuckDB     = "duckdb"
	TypeSQLite     = "sqlite"
	TypePostgres   = "postgres"
	TypeMSSQL      = "mssql"
	TypeSnowflake  = "snowflake"
	TypeDatabricks = "databricks"
	TypeBigQuery   = "bigquery"
)

// Supported profile sources
const (
	ProfilerDBT = "dbt"
	ProfilerSQL = "sql"
)

// Config represents the warehouse and profiler configuration
type Config struct {
	// Common fields
	Type     string `env:"WAREHOUSE_TYPE" envDefault:"duckdb"`
	Host     string `env:"WAREHOUSE_HOST"`
	Port     int    `env:"WAREHOUSE_PORT"`
	User     string `env:"WAREHOUSE_USER"`
	Password string `env:"WAREHOUSE_PASSWORD"`
	// Database is the file path for duckdb and sqlite, the database name otherwise
	Database string `env:"WAREHOUSE_FILE" envDefault:"./warehouse.duckdb"`

	// BigQuery specific
	ProjectID       string `env:"BIGQUERY_PROJECT"`
	Location        string `env:"BIGQUERY_LOCATION"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Snowflake specific
	Account   string `env:"SNOWFLAKE_ACCOUNT"`
	Warehouse string `env:"SNOWFLAKE_WAREHOUSE"`
	Role      string `env:"SNOWFLAKE_ROLE"`

	// Databricks specific
	Workspace string `env:"DATABRICKS_HOST"`
	HTTPPath  string `env:"DATABRICKS_HTTP_PATH"`
	Token     string `env:"DATABRICKS_TOKEN"`
	Catalog   string `env:"DATABRICKS_CATALOG"`

	// Profiling
	Profiler          string `env:"PROFILER" envDefault:"dbt"`
	DBTCommand        string `env:"DBT_COMMAND" envDefault:"dbt"`
	DBTProjectDir     string `env:"DBT_PROJECT_DIR"`
	DBTProfilesDir    string `env:"DBT_PROFILES_DIR"`
	MaxAcceptedValues int    `env:"MAX_ACCEPTED_VALUES" envDefault:"20"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the fields required by the selected warehouse type are set
func (c *Config) Validate() error {
	switch c.Type {
	case TypeDuckDB, TypeSQLite:
		if c.Database == "" {
			return fmt.Errorf("database file path is required for %s", c.Type)
		}
	case TypePostgres, TypeMSSQL:
		if c.Host == "" || c.User == "" || c.Database == "" {
			return fmt.Errorf("host, user and database name are required for %s", c.Type)
		}
	case TypeSnowflake:
		if c.Account == "" || c.User == "" || c.Password == "" || c.Database == "" {
			return fmt.Errorf("account, user, password and database are required for snowflake")
		}
	case TypeDatabricks:
		if c.Workspace == "" || c.HTTPPath == "" || c.Token == "" {
			return fmt.Errorf("workspace, http path and access token are required for databricks")
		}
	case TypeBigQuery:
		if c.ProjectID == "" {
			return fmt.Errorf("project ID is required for bigquery")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}

	switch c.Profiler {
	case ProfilerDBT, ProfilerSQL:
	default:
		return fmt.Errorf("unsupported profiler: %s", c.Profiler)
	}

	if c.MaxAcceptedValues < 0 {
		return fmt.Errorf("max accepted values must not be negative, got %d", c.MaxAcceptedValues)
	}

	return nil
}

// FileBacked reports whether the warehouse lives in a local file
func (c *Config) FileBacked() bool {
	return c.Type == TypeDuckDB || c.Type == TypeSQLite
}
