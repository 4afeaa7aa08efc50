package database

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gerhard-ee/dbtschema/internal/config"
	_ "github.com/databricks/databricks-sql-go"
)

// NewDatabricks creates a new Databricks SQL warehouse instance
func NewDatabricks(cfg *config.Config) Database {
	// Databricks connection string format:
	// "token:<access_token>@<host>:443/<http_path>?catalog=<catalog>"
	connStr := fmt.Sprintf("token:%s@%s:443/%s",
		url.PathEscape(cfg.Token),
		strings.TrimPrefix(cfg.Workspace, "https://"),
		strings.TrimPrefix(cfg.HTTPPath, "/"))
	if cfg.Catalog != "" {
		connStr += "?catalog=" + url.QueryEscape(cfg.Catalog)
	}

	return &sqlDatabase{
		driver:       "databricks",
		dsn:          connStr,
		quote:        backtickQuote,
		columnsQuery: informationSchemaColumns("?", "?", "default"),
	}
}
