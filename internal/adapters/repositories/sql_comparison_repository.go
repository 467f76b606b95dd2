package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/obs"
	"time"
)

// Postgres-backed implementation of the ComparisonRepository port.
type SQLComparisonRepository struct{ DB *sql.DB }

func NewSQLComparisonRepository(db *sql.DB) *SQLComparisonRepository {
	return &SQLComparisonRepository{DB: db}
}

func (s *SQLComparisonRepository) SaveComparison(
	ctx context.Context,
	summary domain.ComparisonSummary,
) (_ int64, err error) {
	defer obs.Time(ctx, "comparisons.sql.Save")(&err)

	if s.DB == nil {
		return 0, errors.New("sql comparison repository: DB is nil")
	}

	records, err := json.Marshal(summary.Records)
	if err != nil {
		return 0, fmt.Errorf("save comparison: marshal records: %w", err)
	}
	created := summary.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var id int64
	err = s.DB.QueryRowContext(ctx, `
	INSERT INTO comparisons (created_at, origin, destination, metric, records)
	VALUES ($1, $2, $3, $4, $5::jsonb)
	RETURNING id;
	`, created, summary.Origin, summary.Destination, string(summary.Metric), string(records)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save comparison: insert: %w", err)
	}
	return id, nil
}

func (s *SQLComparisonRepository) ListComparisons(
	ctx context.Context,
	limit int,
) (_ []domain.ComparisonSummary, err error) {
	defer obs.Time(ctx, "comparisons.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql comparison repository: DB is nil")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, created_at, origin, destination, metric, records
	FROM comparisons
	ORDER BY id DESC
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: query comparisons table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ComparisonSummary, 0, limit)
	for rows.Next() {
		var c domain.ComparisonSummary
		var metric string
		var records []byte
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Origin, &c.Destination, &metric, &records); err != nil {
			return nil, fmt.Errorf("list comparisons: scan row: %w", err)
		}
		c.Metric = domain.Metric(metric)
		if err := json.Unmarshal(records, &c.Records); err != nil {
			return nil, fmt.Errorf("list comparisons: decode records id=%d: %w", c.ID, err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comparisons: row iteration: %w", err)
	}

	return out, nil
}
