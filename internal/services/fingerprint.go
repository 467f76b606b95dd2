package services

import (
	"fmt"
	"math"
	"route-compare-service/internal/domain"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// RequestFingerprint is the canonical cache key for a route request.
// Coordinates are quantized to 1e-6 degrees (about 10 cm) so that equivalent
// requests share a key.
func RequestFingerprint(origin, destination domain.GeoPoint, profile string) string {
	q := func(v float64) int64 { return int64(math.Round(v * 1e6)) }

	key := fmt.Sprintf(
		"%d,%d|%d,%d|%s",
		q(origin.Lat), q(origin.Lon),
		q(destination.Lat), q(destination.Lon),
		strings.ToLower(strings.TrimSpace(profile)),
	)
	return strconv.FormatUint(xxhash.Sum64String(key), 16)
}
