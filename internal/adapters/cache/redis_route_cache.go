package cache

import (
	"context"
	"errors"
	"fmt"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisRouteKeyPrefix = "routes:"

// RedisRouteCache keeps each fingerprint as a hash of alternative index to
// encoded route. Expiry is handled by Redis through TTL.
type RedisRouteCache struct {
	Client redis.UniversalClient
	TTL    time.Duration
}

func NewRedisRouteCache(client redis.UniversalClient, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func redisRouteKey(fingerprint string) string {
	return redisRouteKeyPrefix + fingerprint
}

func (r *RedisRouteCache) GetRoutes(
	ctx context.Context,
	fingerprint string,
) (_ []domain.RouteAlternative, _ bool, err error) {
	defer obs.Time(ctx, "routes.redis.GetRoutes")(&err)

	if r.Client == nil {
		return nil, false, errors.New("route cache: redis client is nil")
	}
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return nil, false, errors.New("get route cache: empty fingerprint")
	}

	fields, err := r.Client.HGetAll(ctx, redisRouteKey(fingerprint)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: hgetall: %w", err)
	}

	payloads := make(map[int][]byte, len(fields))
	for k, v := range fields {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			return nil, false, fmt.Errorf("get route cache: bad field %q", k)
		}
		payloads[idx] = []byte(v)
	}

	alts, ok, err := assemble(payloads)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache fingerprint=%s: %w", fingerprint, err)
	}
	return alts, ok, nil
}

func (r *RedisRouteCache) PutRoutes(ctx context.Context, fingerprint string, alts []domain.RouteAlternative) error {
	if r.Client == nil {
		return errors.New("route cache: redis client is nil")
	}
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return errors.New("insert route cache: empty fingerprint")
	}
	if len(alts) == 0 {
		return nil
	}

	values := make(map[string]any, len(alts))
	for i, alt := range alts {
		payload, err := encodeRoute(alt)
		if err != nil {
			return fmt.Errorf("insert route cache alternative=%d: %w", i, err)
		}
		values[strconv.Itoa(i)] = payload
	}

	key := redisRouteKey(fingerprint)
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, values)
		if r.TTL > 0 {
			p.Expire(ctx, key, r.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert route cache: redis pipeline: %w", err)
	}
	return nil
}
