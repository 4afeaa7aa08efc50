package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gerhard-ee/dbtschema/internal/config"
	"github.com/gerhard-ee/dbtschema/internal/database"
	"github.com/gerhard-ee/dbtschema/internal/profile"
	"github.com/gerhard-ee/dbtschema/internal/schema"
)

const usage = "Proper call signature: build_schema <schema> <file_location>"

var errUsage = errors.New(usage)

// excludeFlag collects repeated -exclude table.column values
type excludeFlag map[string][]string

func (e excludeFlag) String() string {
	var parts []string
	for table, columns := range e {
		for _, column := range columns {
			parts = append(parts, table+"."+column)
		}
	}
	return strings.Join(parts, ",")
}

func (e excludeFlag) Set(value string) error {
	table, column, ok := strings.Cut(value, ".")
	if !ok || table == "" || column == "" {
		return fmt.Errorf("expected table.column, got %q", value)
	}
	e[table] = append(e[table], column)
	return nil
}

type options struct {
	schema       string
	fileLocation string
	exclude      excludeFlag
}

// parseArgs applies command line flags on top of cfg and returns the positional arguments
func parseArgs(args []string, cfg *config.Config, output io.Writer) (*options, error) {
	opts := &options{exclude: excludeFlag{}}

	fs := flag.NewFlagSet("build_schema", flag.ContinueOnError)
	fs.SetOutput(output)

	// Warehouse connection flags
	fs.StringVar(&cfg.Type, "type", cfg.Type, "Warehouse type (duckdb, sqlite, postgres, mssql, snowflake, databricks, bigquery)")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Warehouse host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Warehouse port")
	fs.StringVar(&cfg.User, "user", cfg.User, "Warehouse user")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "Warehouse password")
	fs.StringVar(&cfg.Database, "database", cfg.Database, "Warehouse file path or database name")

	// BigQuery specific flags
	fs.StringVar(&cfg.ProjectID, "project", cfg.ProjectID, "Google Cloud project ID")
	fs.StringVar(&cfg.Location, "location", cfg.Location, "BigQuery dataset location")
	fs.StringVar(&cfg.CredentialsFile, "credentials", cfg.CredentialsFile, "Service account credentials file")

	// Snowflake specific flags
	fs.StringVar(&cfg.Account, "account", cfg.Account, "Snowflake account identifier")
	fs.StringVar(&cfg.Warehouse, "warehouse", cfg.Warehouse, "Snowflake warehouse name")
	fs.StringVar(&cfg.Role, "role", cfg.Role, "Snowflake role name")

	// Databricks specific flags
	fs.StringVar(&cfg.Workspace, "workspace", cfg.Workspace, "Databricks workspace host")
	fs.StringVar(&cfg.HTTPPath, "http-path", cfg.HTTPPath, "Databricks SQL warehouse HTTP path")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "Databricks access token")
	fs.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "Databricks catalog name")

	// Profiling flags
	fs.StringVar(&cfg.Profiler, "profiler", cfg.Profiler, "Profile source (dbt or sql)")
	fs.StringVar(&cfg.DBTCommand, "dbt", cfg.DBTCommand, "dbt executable")
	fs.StringVar(&cfg.DBTProjectDir, "project-dir", cfg.DBTProjectDir, "dbt project directory")
	fs.StringVar(&cfg.DBTProfilesDir, "profiles-dir", cfg.DBTProfilesDir, "dbt profiles directory")
	fs.IntVar(&cfg.MaxAcceptedValues, "max-accepted-values", cfg.MaxAcceptedValues, "Largest distinct count that yields an accepted_values test")
	fs.Var(opts.exclude, "exclude", "Column left out of profiling as table.column (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 2 {
		return nil, errUsage
	}
	opts.schema = fs.Arg(0)
	opts.fileLocation = fs.Arg(1)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return opts, nil
}

func newProvider(cfg *config.Config, source *database.PerQuery) profile.Provider {
	if cfg.Profiler == config.ProfilerSQL {
		return &profile.SQLProvider{Source: source}
	}
	return profile.NewDBTProvider(cfg)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts, err := parseArgs(os.Args[1:], cfg, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if errors.Is(err, errUsage) {
		log.Fatal(usage)
	}
	if err != nil {
		log.Fatalf("%v\n%s", err, usage)
	}

	// Handle interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := database.NewPerQuery(cfg)
	builder := &schema.Builder{
		Provider:          newProvider(cfg, source),
		Values:            source,
		Catalog:           source,
		MaxAcceptedValues: cfg.MaxAcceptedValues,
		Exclude:           opts.exclude,
	}

	content, err := builder.Compose(ctx, opts.schema, opts.fileLocation)
	if err != nil {
		log.Fatalf("Failed to build schema: %v", err)
	}

	path, written, err := schema.WriteOutput(content, opts.fileLocation)
	if err != nil {
		log.Fatalf("Failed to write schema: %v", err)
	}
	if written {
		log.Printf("Schema written to %s", path)
	}
}
