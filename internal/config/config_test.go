package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Type != TypeDuckDB {
		t.Errorf("Expected type %s, got %s", TypeDuckDB, cfg.Type)
	}
	if cfg.Database != "./warehouse.duckdb" {
		t.Errorf("Expected default warehouse file, got %s", cfg.Database)
	}
	if cfg.Profiler != ProfilerDBT || cfg.DBTCommand != "dbt" {
		t.Errorf("Expected dbt profiler, got %s (%s)", cfg.Profiler, cfg.DBTCommand)
	}
	if cfg.MaxAcceptedValues != 20 {
		t.Errorf("Expected 20 max accepted values, got %d", cfg.MaxAcceptedValues)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WAREHOUSE_TYPE", "postgres")
	t.Setenv("WAREHOUSE_HOST", "db.internal")
	t.Setenv("WAREHOUSE_PORT", "6543")
	t.Setenv("WAREHOUSE_USER", "dbt")
	t.Setenv("WAREHOUSE_FILE", "analytics")
	t.Setenv("PROFILER", "sql")
	t.Setenv("MAX_ACCEPTED_VALUES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Type != TypePostgres || cfg.Host != "db.internal" || cfg.Port != 6543 {
		t.Errorf("Unexpected connection settings: %+v", cfg)
	}
	if cfg.Profiler != ProfilerSQL || cfg.MaxAcceptedValues != 5 {
		t.Errorf("Unexpected profiling settings: %+v", cfg)
	}
	if cfg.FileBacked() {
		t.Error("Expected postgres not to be file-backed")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("WAREHOUSE_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"duckdb", Config{Type: TypeDuckDB, Database: "w.duckdb", Profiler: ProfilerDBT}, false},
		{"sqlite without file", Config{Type: TypeSQLite, Profiler: ProfilerDBT}, true},
		{"mssql", Config{Type: TypeMSSQL, Host: "h", User: "u", Database: "d", Profiler: ProfilerSQL}, false},
		{"snowflake without password", Config{Type: TypeSnowflake, Account: "a", User: "u", Database: "d", Profiler: ProfilerDBT}, true},
		{"databricks", Config{Type: TypeDatabricks, Workspace: "w", HTTPPath: "/sql", Token: "t", Profiler: ProfilerSQL}, false},
		{"bigquery without project", Config{Type: TypeBigQuery, Profiler: ProfilerSQL}, true},
		{"unknown type", Config{Type: "oracle", Profiler: ProfilerDBT}, true},
		{"unknown profiler", Config{Type: TypeDuckDB, Database: "w.duckdb", Profiler: "great_expectations"}, true},
		{"negative max", Config{Type: TypeDuckDB, Database: "w.duckdb", Profiler: ProfilerDBT, MaxAcceptedValues: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
