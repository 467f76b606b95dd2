package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/ports"
	"strings"
)

type GeocodeSeed struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Populate the geocode cache with known addresses from a JSON file.
// Returns the number of addresses written.
func SeedGeocodesFromJSON(ctx context.Context, cache ports.GeocodeCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed geocodes: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed geocodes: parse json: %w", err)
	}

	points := make(map[string]domain.GeoPoint, len(data))
	for i, item := range data {
		addr := strings.TrimSpace(item.Address)
		if addr == "" {
			return 0, fmt.Errorf("seed geocodes: item at index %d: address cannot be empty", i+1)
		}

		p, err := domain.NewGeoPoint(item.Lat, item.Lon)
		if err != nil {
			return 0, fmt.Errorf("seed geocodes: item %q at index %d: %w", addr, i+1, err)
		}
		points[domain.NormalizeAddress(addr)] = p
	}

	if err := cache.PutMany(ctx, points); err != nil {
		return 0, fmt.Errorf("seed geocodes: %w", err)
	}

	return len(points), nil
}
