package database

import (
	"context"
	"reflect"
	"testing"

	"github.com/gerhard-ee/dbtschema/internal/config"
)

func TestDuckDB_Connect(t *testing.T) {
	cfg := newTestConfig(t, config.TypeDuckDB)

	db := NewDuckDB(cfg)
	if err := db.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestDuckDB_GetColumns(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, newTestConfig(t, config.TypeDuckDB))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	seed(t, db)

	columns, err := db.GetColumns(ctx, "main", "orders")
	if err != nil {
		t.Fatalf("GetColumns() failed: %v", err)
	}

	expectedColumns := []string{"id", "status", "note"}
	if len(columns) != len(expectedColumns) {
		t.Fatalf("Expected %d columns, got %d", len(expectedColumns), len(columns))
	}

	for i, col := range expectedColumns {
		if columns[i].Name != col {
			t.Errorf("Expected column %s at position %d, got %s", col, i, columns[i].Name)
		}
		if columns[i].Position != i {
			t.Errorf("Expected position %d for %s, got %d", i, col, columns[i].Position)
		}
	}

	if columns[0].Type != "INTEGER" {
		t.Errorf("Expected INTEGER type for id, got %s", columns[0].Type)
	}
}

func TestDuckDB_DistinctValuesAndStats(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, newTestConfig(t, config.TypeDuckDB))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	seed(t, db)

	values, err := DistinctValues(ctx, db, "main", "orders", "status")
	if err != nil {
		t.Fatalf("DistinctValues() failed: %v", err)
	}
	if !reflect.DeepEqual(values, []any{"placed", "shipped"}) {
		t.Errorf("DistinctValues() = %v", values)
	}

	stats, err := ColumnStats(ctx, db, "main", "orders", "status")
	if err != nil {
		t.Fatalf("ColumnStats() failed: %v", err)
	}
	want := Stats{RowCount: 4, NotNullCount: 3, DistinctCount: 2}
	if *stats != want {
		t.Errorf("ColumnStats() = %+v, want %+v", *stats, want)
	}
}
