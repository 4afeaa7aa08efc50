package main

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/gerhard-ee/dbtschema/internal/config"
	"github.com/gerhard-ee/dbtschema/internal/database"
	"github.com/gerhard-ee/dbtschema/internal/profile"
)

func defaultConfig() *config.Config {
	return &config.Config{
		Type:              config.TypeDuckDB,
		Database:          "./warehouse.duckdb",
		Profiler:          config.ProfilerDBT,
		DBTCommand:        "dbt",
		MaxAcceptedValues: 20,
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
		wantErr   bool
	}{
		{
			name:      "missing positional arguments",
			args:      []string{},
			wantUsage: true,
		},
		{
			name:      "too many positional arguments",
			args:      []string{"mart", "models/mart", "extra"},
			wantUsage: true,
		},
		{
			name: "valid defaults",
			args: []string{"mart", "models/mart"},
		},
		{
			name: "valid postgres",
			args: []string{
				"-type=postgres",
				"-host=localhost",
				"-port=5432",
				"-user=dbt",
				"-database=analytics",
				"-profiler=sql",
				"mart", "models/mart",
			},
		},
		{
			name:    "postgres without host",
			args:    []string{"-type=postgres", "mart", "models/mart"},
			wantErr: true,
		},
		{
			name:    "invalid exclude",
			args:    []string{"-exclude=orders", "mart", "models/mart"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-format=csv", "mart", "models/mart"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args, defaultConfig(), io.Discard)
			if got := errors.Is(err, errUsage); got != tt.wantUsage {
				t.Errorf("usage error = %v, want %v (err: %v)", got, tt.wantUsage, err)
			}
			if got := err != nil && !tt.wantUsage; got != tt.wantErr {
				t.Errorf("parseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseArgsOverridesConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.DBTProjectDir = "from-env"

	opts, err := parseArgs([]string{
		"-database=/tmp/other.duckdb",
		"-max-accepted-values=5",
		"-exclude=orders.payload",
		"-exclude=orders.raw",
		"-exclude=customers.notes",
		"mart", "models/mart",
	}, cfg, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs() failed: %v", err)
	}

	if opts.schema != "mart" || opts.fileLocation != "models/mart" {
		t.Errorf("Unexpected positional arguments: %+v", opts)
	}
	if cfg.Database != "/tmp/other.duckdb" || cfg.MaxAcceptedValues != 5 {
		t.Errorf("Expected flags to override config, got %+v", cfg)
	}
	if cfg.DBTProjectDir != "from-env" {
		t.Errorf("Expected unset flags to keep config values, got %s", cfg.DBTProjectDir)
	}

	want := excludeFlag{
		"orders":    {"payload", "raw"},
		"customers": {"notes"},
	}
	if !reflect.DeepEqual(opts.exclude, want) {
		t.Errorf("exclude = %v, want %v", opts.exclude, want)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := defaultConfig()
	source := database.NewPerQuery(cfg)

	if _, ok := newProvider(cfg, source).(*profile.DBTProvider); !ok {
		t.Error("Expected dbt provider by default")
	}

	cfg.Profiler = config.ProfilerSQL
	p, ok := newProvider(cfg, source).(*profile.SQLProvider)
	if !ok {
		t.Fatal("Expected SQL provider")
	}
	if p.Source != source {
		t.Error("Expected SQL provider to query through the per-query source")
	}
}
