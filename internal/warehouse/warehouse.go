// Package warehouse creates the local sample warehouse that dbt models are
// built against.
package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/gerhard-ee/dbtschema/internal/config"
	"github.com/gerhard-ee/dbtschema/internal/database"
)

// Product is the JSON payload stored in products.data
type Product struct {
	Name      string   `json:"name"`
	Versions  []int    `json:"versions"`
	Countries []string `json:"countries"`
}

// SampleProducts are inserted by Create
var SampleProducts = []Product{
	{Name: "gizmo", Versions: []int{1, 2, 3}, Countries: []string{"GB", "US"}},
	{Name: "widget", Versions: []int{1, 2}, Countries: []string{"DE", "FR", "IE"}},
}

// ProductRow is one row returned by Check
type ProductRow struct {
	ID   int64
	Name string
}

// extensions are loaded before the products table is touched.
// The bundled DuckDB build does not autoload json.
var extensions = map[string][]string{
	config.TypeDuckDB: {"INSTALL json", "LOAD json"},
}

var ddl = map[string][]string{
	config.TypeDuckDB: {
		"CREATE SEQUENCE product_ids",
		"CREATE TABLE products (id INTEGER DEFAULT NEXTVAL('product_ids'), data JSON)",
	},
	config.TypeSQLite: {
		"CREATE TABLE products (id INTEGER PRIMARY KEY AUTOINCREMENT, data JSON)",
	},
}

// Create replaces the warehouse file with a fresh one holding the sample products.
func Create(ctx context.Context, cfg *config.Config) error {
	statements, ok := ddl[cfg.Type]
	if !ok || !cfg.FileBacked() {
		return fmt.Errorf("cannot create a %s warehouse: only file-backed warehouses are supported", cfg.Type)
	}

	for _, path := range []string{cfg.Database, cfg.Database + ".wal"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	db, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range statements {
		if err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create products table: %w", err)
		}
	}

	for _, product := range SampleProducts {
		data, err := json.Marshal(product)
		if err != nil {
			return fmt.Errorf("failed to encode product %s: %w", product.Name, err)
		}
		if err := db.Exec(ctx, "INSERT INTO products (data) VALUES (?)", string(data)); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", product.Name, err)
		}
	}

	log.Printf("Created warehouse %s with %d products", cfg.Database, len(SampleProducts))
	return nil
}

// Check reads back the product ids and names.
func Check(ctx context.Context, cfg *config.Config) ([]ProductRow, error) {
	db, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(ctx, "SELECT id, data->>'$.name' AS product_name FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	products := make([]ProductRow, 0, len(rows))
	for _, row := range rows {
		id, err := database.ToInt64(row.Get("id"))
		if err != nil {
			return nil, fmt.Errorf("invalid product id: %w", err)
		}
		name, _ := row.Get("product_name").(string)
		products = append(products, ProductRow{ID: id, Name: name})
	}
	return products, nil
}

// open connects to the warehouse and loads the extensions its dialect needs for JSON
func open(ctx context.Context, cfg *config.Config) (database.Database, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for _, stmt := range extensions[cfg.Type] {
		if err := db.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load json support: %w", err)
		}
	}
	return db, nil
}
