package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/obs"
	"route-compare-service/internal/ports"
)

// CachedRouteProvider decorates a RouteProvider with a RouteCache.
// The cache is an explicit collaborator keyed by RequestFingerprint; a nil
// Cache turns the decorator into a pass-through.
type CachedRouteProvider struct {
	Provider ports.RouteProvider
	Cache    ports.RouteCache
	Profile  string
}

func (c *CachedRouteProvider) GetRoutes(
	ctx context.Context,
	origin domain.GeoPoint,
	destination domain.GeoPoint,
) (_ []domain.RouteAlternative, err error) {
	defer obs.Time(ctx, "routes.cached.GetRoutes")(&err)

	if c.Provider == nil {
		return nil, errors.New("cached route provider: provider is nil")
	}
	if c.Cache == nil {
		return c.Provider.GetRoutes(ctx, origin, destination)
	}

	fp := RequestFingerprint(origin, destination, c.Profile)

	// Check the route cache before calling the provider.
	cached, ok, err := c.Cache.GetRoutes(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("cached route provider: read cache %s: %w", fp, err)
	}
	if ok {
		return cached, nil
	}

	fresh, err := c.Provider.GetRoutes(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("cached route provider: %w", err)
	}

	if len(fresh) > 0 {
		if err := cacheable(fresh); err != nil {
			log.Printf("route cache write skipped: fingerprint=%s err=%v", fp, err)
		} else if err := c.Cache.PutRoutes(ctx, fp, fresh); err != nil {
			log.Printf("route cache write failed: fingerprint=%s err=%v", fp, err)
		}
	}

	return fresh, nil
}

// Only fully valid responses are cached, so a malformed alternative is
// fetched again on the next request.
func cacheable(alts []domain.RouteAlternative) error {
	for i, alt := range alts {
		if err := alt.ValidateAt(i); err != nil {
			return err
		}
	}
	return nil
}
