package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/gerhard-ee/dbtschema/internal/config"
)

// BigQueryDB implements the Database interface for BigQuery
type BigQueryDB struct {
	client *bigquery.Client
	config *config.Config
}

// NewBigQuery creates a new BigQuery instance
func NewBigQuery(cfg *config.Config) Database {
	return &BigQueryDB{config: cfg}
}

// Connect creates the BigQuery client
func (db *BigQueryDB) Connect(ctx context.Context) error {
	var opts []option.ClientOption
	if db.config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(db.config.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, db.config.ProjectID, opts...)
	if err != nil {
		return fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	if db.config.Location != "" {
		client.Location = db.config.Location
	}

	db.client = client
	return nil
}

// Close closes the BigQuery client
func (db *BigQueryDB) Close() error {
	if db.client != nil {
		return db.client.Close()
	}
	return nil
}

func (db *BigQueryDB) query(query string, args []any) (*bigquery.Query, error) {
	if db.client == nil {
		return nil, fmt.Errorf("bigquery client is not connected")
	}
	q := db.client.Query(query)
	for _, arg := range args {
		// Empty names bind positional ? parameters
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{Value: arg})
	}
	return q, nil
}

// Query executes a query and returns the materialized rows
func (db *BigQueryDB) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	q, err := db.query(query, args)
	if err != nil {
		return nil, err
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	var result []Row
	for {
		values := make(map[string]bigquery.Value)
		err := it.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make(Row, len(values))
		for k, v := range values {
			row[k] = v
		}
		result = append(result, row)
	}

	return result, nil
}

// Exec runs a statement and waits for the job to finish
func (db *BigQueryDB) Exec(ctx context.Context, query string, args ...any) error {
	q, err := db.query(query, args)
	if err != nil {
		return err
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for query: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	return nil
}

// GetColumns returns the columns of a table from the dataset's INFORMATION_SCHEMA
func (db *BigQueryDB) GetColumns(ctx context.Context, schema, table string) ([]Column, error) {
	query := fmt.Sprintf(`
		SELECT column_name, data_type, is_nullable
		FROM %s.INFORMATION_SCHEMA.COLUMNS
		WHERE table_name = ?
		ORDER BY ordinal_position
	`, db.Quote(db.config.ProjectID+"."+schema))

	rows, err := db.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns of %s: %w", table, err)
	}
	return columnsFromRows(rows), nil
}

// Quote quotes an identifier with backticks
func (db *BigQueryDB) Quote(ident string) string {
	return backtickQuote(ident)
}
