package routing

import (
	"context"
	"route-compare-service/internal/domain"
	"sync"

	"github.com/paulmach/orb"
)

// orbLine repeats p n times.
func orbLine(p domain.GeoPoint, n int) orb.LineString {
	out := make(orb.LineString, n)
	for i := range out {
		out[i] = p.Point()
	}
	return out
}

type memGeocodeCache struct {
	mu     sync.Mutex
	points map[string]domain.GeoPoint
	puts   int
}

func newMemGeocodeCache() *memGeocodeCache {
	return &memGeocodeCache{points: map[string]domain.GeoPoint{}}
}

func (c *memGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.GeoPoint)
	for _, a := range addresses {
		if p, ok := c.points[a]; ok {
			out[a] = p
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(ctx context.Context, points map[string]domain.GeoPoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	for k, v := range points {
		c.points[k] = v
	}
	return nil
}
