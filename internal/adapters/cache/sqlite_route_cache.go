package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/obs"
	"strings"
	"time"
)

// SqliteRouteCache stores provider route alternatives keyed by request
// fingerprint, one row per alternative index.
type SqliteRouteCache struct {
	DB *sql.DB
	// TTL hides rows older than this on read. Zero keeps rows forever.
	TTL time.Duration

	now func() time.Time
}

func NewSqliteRouteCache(db *sql.DB, ttl time.Duration) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, TTL: ttl}
}

func (s *SqliteRouteCache) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Fetch the cached alternatives for a fingerprint.
func (s *SqliteRouteCache) GetRoutes(
	ctx context.Context,
	fingerprint string,
) (_ []domain.RouteAlternative, _ bool, err error) {
	defer obs.Time(ctx, "routes.sqlite.GetRoutes")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return nil, false, errors.New("get route cache: empty fingerprint")
	}

	var minCreated int64
	if s.TTL > 0 {
		minCreated = s.clock().Add(-s.TTL).Unix()
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT alt_index, payload
	FROM route_cache
	WHERE fingerprint = ? AND created_at >= ?;
	`, fingerprint, minCreated)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}
	defer rows.Close()

	payloads := make(map[int][]byte)
	for rows.Next() {
		var idx int
		var payload []byte
		if err := rows.Scan(&idx, &payload); err != nil {
			return nil, false, fmt.Errorf("get route cache: scan rows: %w", err)
		}
		payloads[idx] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("get route cache: row iteration: %w", err)
	}

	alts, ok, err := assemble(payloads)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache fingerprint=%s: %w", fingerprint, err)
	}
	return alts, ok, nil
}

// Replace every cached alternative for a fingerprint.
func (s *SqliteRouteCache) PutRoutes(ctx context.Context, fingerprint string, alts []domain.RouteAlternative) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return errors.New("insert route cache: empty fingerprint")
	}
	if len(alts) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert route cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_cache WHERE fingerprint = ?;`, fingerprint); err != nil {
		return fmt.Errorf("insert route cache: clear fingerprint: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_cache (fingerprint, alt_index, payload, created_at)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert route cache: db prepare: %w", err)
	}
	defer stmt.Close()

	created := s.clock().Unix()
	for i, alt := range alts {
		payload, err := encodeRoute(alt)
		if err != nil {
			return fmt.Errorf("insert route cache alternative=%d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, fingerprint, i, payload, created); err != nil {
			return fmt.Errorf("insert route cache alternative=%d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert route cache commit: %w", err)
	}

	return nil
}

// Purge deletes rows created before cutoff.
func (s *SqliteRouteCache) Purge(ctx context.Context, cutoff time.Time) (_ int64, err error) {
	defer obs.Time(ctx, "routes.sqlite.Purge")(&err)

	if s.DB == nil {
		return 0, errors.New("route cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_cache WHERE created_at < ?;`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge route cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge route cache: rows affected: %w", err)
	}
	return n, nil
}
