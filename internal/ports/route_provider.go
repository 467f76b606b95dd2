package ports

import (
	"context"
	"route-compare-service/internal/domain"
)

// Contract for retrieving candidate routes between two points.
type RouteProvider interface {
	// Return every alternative the provider offers, in the provider's order.
	GetRoutes(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.RouteAlternative, error)
}
