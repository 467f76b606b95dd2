package ports

import (
	"context"
	"route-compare-service/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.GeoPoint, error)
}

// Optional extension of Geocoder that resolves several addresses in one call.
type BatchGeocoder interface {
	Geocoder
	// Return coordinates keyed by the address as given by the caller.
	GeocodeMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
}
