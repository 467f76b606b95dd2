package routing

import (
	"context"
	"fmt"
	"route-compare-service/internal/domain"
	"sync"
)

// MockRouteProvider returns a fixed set of alternatives and counts calls.
type MockRouteProvider struct {
	Routes []domain.RouteAlternative
	Err    error

	mu    sync.Mutex
	calls int
}

func (m *MockRouteProvider) GetRoutes(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.RouteAlternative, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.RouteAlternative, len(m.Routes))
	copy(out, m.Routes)
	return out, nil
}

func (m *MockRouteProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	Points map[string]domain.GeoPoint
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	p, ok := m.Points[address]
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("%w: %q", domain.ErrAddressNotFound, address)
	}
	return p, nil
}
