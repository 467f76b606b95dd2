package routing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/ports"
	"strings"
)

var errEmptyAddress = errors.New("address cannot be empty")

type fetchFunc func(ctx context.Context, normalized string) (domain.GeoPoint, error)

// geocodeCached resolves addresses through cache first and fetch for the
// misses. Fresh results are written back; a failed write is only logged.
// The result is keyed by the address as given by the caller.
func geocodeCached(
	ctx context.Context,
	cache ports.GeocodeCache,
	addresses []string,
	fetch fetchFunc,
) (map[string]domain.GeoPoint, error) {
	keys := make(map[string]string, len(addresses))
	needed := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if strings.TrimSpace(a) == "" {
			return nil, errEmptyAddress
		}
		k := domain.NormalizeAddress(a)
		if _, ok := keys[a]; !ok {
			needed = append(needed, k)
		}
		keys[a] = k
	}

	hits := make(map[string]domain.GeoPoint)
	if cache != nil {
		var err error
		hits, err = cache.GetMany(ctx, needed)
		if err != nil {
			return nil, fmt.Errorf("get geocode cache: %w", err)
		}
	}

	fresh := make(map[string]domain.GeoPoint)
	for _, k := range needed {
		if _, ok := hits[k]; ok {
			continue
		}
		if _, ok := fresh[k]; ok {
			continue
		}
		p, err := fetch(ctx, k)
		if err != nil {
			return nil, err
		}
		fresh[k] = p
	}

	if cache != nil && len(fresh) > 0 {
		if err := cache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	out := make(map[string]domain.GeoPoint, len(keys))
	for a, k := range keys {
		if p, ok := hits[k]; ok {
			out[a] = p
			continue
		}
		out[a] = fresh[k]
	}
	return out, nil
}

func geocodeOne(ctx context.Context, g ports.BatchGeocoder, address string) (domain.GeoPoint, error) {
	res, err := g.GeocodeMany(ctx, []string{address})
	if err != nil {
		return domain.GeoPoint{}, err
	}
	p, ok := res[address]
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("no geocode result for %q", address)
	}
	return p, nil
}
