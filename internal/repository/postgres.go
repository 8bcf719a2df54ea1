package repository

import (
	"context"
	"fmt"
	"time"

	"domli-search/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository reads the property corpus from a Postgres table.
// The table mirrors the CSV columns (text cells, price sentinel included),
// so deployments that import the CSV into Postgres behave identically.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL corpus source
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

type propertyRow struct {
	DeveloperName  string `db:"developer_name"`
	ProjectName    string `db:"project_name"`
	PropertyType   string `db:"property_type"`
	RoomsCount     string `db:"rooms_count"`
	Area           string `db:"area"`
	PriceTotal     string `db:"price_total"`
	CompletionYear string `db:"completion_year"`
	Address        string `db:"address"`
}

// ReadAll fetches every row. IDs are assigned at load time in row order,
// same as the CSV reader. An empty table yields ErrCorpusUnavailable.
func (r *PostgresRepository) ReadAll(ctx context.Context) ([]model.Property, error) {
	query := `
		SELECT
			COALESCE(developer_name, '') AS developer_name,
			COALESCE(project_name, '') AS project_name,
			COALESCE(property_type, '') AS property_type,
			COALESCE(rooms_count, '') AS rooms_count,
			COALESCE(area, '') AS area,
			COALESCE(price_total, '') AS price_total,
			COALESCE(completion_year, '') AS completion_year,
			COALESCE(address, '') AS address
		FROM properties
		ORDER BY id
	`

	var rows []propertyRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: properties table is empty", ErrCorpusUnavailable)
	}

	properties := make([]model.Property, 0, len(rows))
	for i, row := range rows {
		properties = append(properties, buildProperty(
			i+1,
			row.DeveloperName,
			row.ProjectName,
			row.PropertyType,
			row.RoomsCount,
			row.Area,
			row.PriceTotal,
			row.CompletionYear,
			row.Address,
		))
	}
	return properties, nil
}
