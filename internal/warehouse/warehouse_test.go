package warehouse

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gerhard-ee/dbtschema/internal/config"
)

func TestCreateAndCheck(t *testing.T) {
	for _, dbType := range []string{config.TypeSQLite, config.TypeDuckDB} {
		t.Run(dbType, func(t *testing.T) {
			ctx := context.Background()
			cfg := &config.Config{
				Type:     dbType,
				Database: filepath.Join(t.TempDir(), "warehouse.db"),
			}

			// Creating twice must start from an empty file
			for i := 0; i < 2; i++ {
				if err := Create(ctx, cfg); err != nil {
					t.Fatalf("Create() failed: %v", err)
				}
			}

			rows, err := Check(ctx, cfg)
			if err != nil {
				t.Fatalf("Check() failed: %v", err)
			}

			if len(rows) != len(SampleProducts) {
				t.Fatalf("Expected %d products, got %d: %+v", len(SampleProducts), len(rows), rows)
			}
			for i, want := range []string{"gizmo", "widget"} {
				if rows[i].Name != want {
					t.Errorf("Expected product %s at %d, got %s", want, i, rows[i].Name)
				}
			}
			if rows[0].ID >= rows[1].ID {
				t.Errorf("Expected increasing ids, got %d and %d", rows[0].ID, rows[1].ID)
			}
		})
	}
}

func TestCreateUnsupported(t *testing.T) {
	cfg := &config.Config{Type: config.TypePostgres, Host: "localhost", Database: "analytics"}
	if err := Create(context.Background(), cfg); err == nil {
		t.Error("Expected error for a server warehouse")
	}
}

func TestCheckMissingTable(t *testing.T) {
	cfg := &config.Config{
		Type:     config.TypeSQLite,
		Database: filepath.Join(t.TempDir(), "empty.db"),
	}
	if _, err := Check(context.Background(), cfg); err == nil {
		t.Error("Expected error when products table is missing")
	}
}
