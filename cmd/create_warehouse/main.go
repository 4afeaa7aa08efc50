package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gerhard-ee/dbtschema/internal/config"
	"github.com/gerhard-ee/dbtschema/internal/warehouse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	flag.StringVar(&cfg.Database, "database", cfg.Database, "Warehouse file path")
	flag.StringVar(&cfg.Type, "type", cfg.Type, "Warehouse type (duckdb or sqlite)")
	flag.Parse()

	ctx := context.Background()
	if err := warehouse.Create(ctx, cfg); err != nil {
		log.Fatalf("Failed to create warehouse: %v", err)
	}

	rows, err := warehouse.Check(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to check warehouse: %v", err)
	}
	for _, row := range rows {
		fmt.Printf("%d\t%s\n", row.ID, row.Name)
	}
}
