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

const defaultListLimit = 20

// SQLite-backed implementation of the ComparisonRepository port.
// Ranked records are stored as one JSON document per comparison.
type SqliteComparisonRepository struct{ DB *sql.DB }

func NewSqliteComparisonRepository(db *sql.DB) *SqliteComparisonRepository {
	return &SqliteComparisonRepository{DB: db}
}

func (s *SqliteComparisonRepository) SaveComparison(
	ctx context.Context,
	summary domain.ComparisonSummary,
) (_ int64, err error) {
	defer obs.Time(ctx, "comparisons.sqlite.Save")(&err)

	if s.DB == nil {
		return 0, errors.New("sqlite comparison repository: DB is nil")
	}

	records, err := json.Marshal(summary.Records)
	if err != nil {
		return 0, fmt.Errorf("save comparison: marshal records: %w", err)
	}
	created := summary.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	res, err := s.DB.ExecContext(ctx, `
	INSERT INTO comparisons (created_at, origin, destination, metric, records)
	VALUES (?, ?, ?, ?, ?);
	`, created.UnixMilli(), summary.Origin, summary.Destination, string(summary.Metric), string(records))
	if err != nil {
		return 0, fmt.Errorf("save comparison: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save comparison: last insert id: %w", err)
	}
	return id, nil
}

// Return the most recent comparisons, newest first.
func (s *SqliteComparisonRepository) ListComparisons(
	ctx context.Context,
	limit int,
) (_ []domain.ComparisonSummary, err error) {
	defer obs.Time(ctx, "comparisons.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite comparison repository: DB is nil")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		id,
		created_at,
		origin,
		destination,
		metric,
		records
	FROM comparisons
	ORDER BY id DESC
	LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: query comparisons table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ComparisonSummary, 0, limit)
	for rows.Next() {
		var c domain.ComparisonSummary
		var createdMs int64
		var metric, records string
		if err := rows.Scan(&c.ID, &createdMs, &c.Origin, &c.Destination, &metric, &records); err != nil {
			return nil, fmt.Errorf("list comparisons: scan row: %w", err)
		}
		c.CreatedAt = time.UnixMilli(createdMs).UTC()
		c.Metric = domain.Metric(metric)
		if err := json.Unmarshal([]byte(records), &c.Records); err != nil {
			return nil, fmt.Errorf("list comparisons: decode records id=%d: %w", c.ID, err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comparisons: row iteration: %w", err)
	}

	return out, nil
}
