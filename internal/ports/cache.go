package ports

import (
	"context"
	"route-compare-service/internal/domain"
	"time"
)

// RouteCache stores provider alternatives keyed by a request fingerprint.
// Implementations keep one entry per alternative index.
type RouteCache interface {
	// Return the cached alternatives ordered by index; ok is false on a miss.
	GetRoutes(ctx context.Context, fingerprint string) (alternatives []domain.RouteAlternative, ok bool, err error)
	PutRoutes(ctx context.Context, fingerprint string, alternatives []domain.RouteAlternative) error
}

// Optional extension for caches that need explicit eviction.
type PurgeableCache interface {
	// Delete entries written before cutoff and return how many were removed.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// GeocodeCache stores resolved coordinates keyed by normalized address.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
	PutMany(ctx context.Context, points map[string]domain.GeoPoint) error
}
