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

// SQLRouteCache is the Postgres variant of SqliteRouteCache.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl}
}

func (s *SQLRouteCache) GetRoutes(
	ctx context.Context,
	fingerprint string,
) (_ []domain.RouteAlternative, _ bool, err error) {
	defer obs.Time(ctx, "routes.cache.GetRoutes")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return nil, false, errors.New("get route cache: empty fingerprint")
	}

	minCreated := time.Unix(0, 0).UTC()
	if s.TTL > 0 {
		minCreated = time.Now().Add(-s.TTL)
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT alt_index, payload
	FROM route_cache
	WHERE fingerprint = $1 AND created_at >= $2;
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

func (s *SQLRouteCache) PutRoutes(ctx context.Context, fingerprint string, alts []domain.RouteAlternative) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_cache WHERE fingerprint = $1;`, fingerprint); err != nil {
		return fmt.Errorf("insert route cache: clear fingerprint: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_cache (fingerprint, alt_index, payload, created_at)
	VALUES ($1, $2, $3, NOW());
	`)
	if err != nil {
		return fmt.Errorf("insert route cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, alt := range alts {
		payload, err := encodeRoute(alt)
		if err != nil {
			return fmt.Errorf("insert route cache alternative=%d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, fingerprint, i, payload); err != nil {
			return fmt.Errorf("insert route cache alternative=%d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert route cache commit: %w", err)
	}

	return nil
}

func (s *SQLRouteCache) Purge(ctx context.Context, cutoff time.Time) (_ int64, err error) {
	defer obs.Time(ctx, "routes.cache.Purge")(&err)

	if s.DB == nil {
		return 0, errors.New("route cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_cache WHERE created_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge route cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge route cache: rows affected: %w", err)
	}
	return n, nil
}
