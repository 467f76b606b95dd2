package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"route-compare-service/internal/adapters/cache"
	"route-compare-service/internal/adapters/repositories"
	"route-compare-service/internal/adapters/routing"
	"route-compare-service/internal/config"
	"route-compare-service/internal/platform/db"
	"route-compare-service/internal/ports"
	"route-compare-service/internal/services"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

type stores struct {
	db          *sql.DB
	redis       *redis.Client
	routes      ports.RouteCache
	geocodes    ports.GeocodeCache
	comparisons ports.ComparisonRepository
}

func (s *stores) Close() {
	if s.redis != nil {
		s.redis.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// openStores picks Postgres when DATABASE_URL is set and SQLite otherwise.
// REDIS_URL moves the route cache to Redis.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	st := &stores{}

	if cfg.DatabaseURL != "" {
		conn, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st.db = conn
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			st.Close()
			return nil, err
		}
		st.routes = cache.NewSQLRouteCache(conn, cfg.CacheTTL)
		st.geocodes = cache.NewSQLGeocodeCache(conn)
		st.comparisons = repositories.NewSQLComparisonRepository(conn)
	} else {
		conn, err := db.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		st.db = conn
		if err := repositories.InitSchema(ctx, conn); err != nil {
			st.Close()
			return nil, err
		}
		st.routes = cache.NewSqliteRouteCache(conn, cfg.CacheTTL)
		st.geocodes = cache.NewSqliteGeocodeCache(conn)
		st.comparisons = repositories.NewSqliteComparisonRepository(conn)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open redis: parse url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			st.Close()
			return nil, fmt.Errorf("open redis: ping: %w", err)
		}
		st.redis = client
		st.routes = cache.NewRedisRouteCache(client, cfg.CacheTTL)
	}

	if err := seedGeocodes(ctx, st.geocodes, cfg.SeedPath); err != nil {
		st.Close()
		return nil, err
	}

	return st, nil
}

// seedGeocodes loads known addresses when the seed file exists.
func seedGeocodes(ctx context.Context, geocodes ports.GeocodeCache, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Printf("geocode seed not found, skipping: path=%s", path)
		return nil
	}
	n, err := repositories.SeedGeocodesFromJSON(ctx, geocodes, path)
	if err != nil {
		return err
	}
	log.Printf("geocode cache seeded: path=%s addresses=%d", path, n)
	return nil
}

func newGeocoder(cfg config.Config, geocodes ports.GeocodeCache) (ports.Geocoder, error) {
	switch cfg.Geocoder {
	case "ors":
		g, err := routing.NewORSGeocoder(cfg.ORSAPIKey, cfg.GeocodeCountry, geocodes)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		ncfg := routing.DefaultNominatimConfig()
		ncfg.City = cfg.GeocodeCity
		ncfg.CountryCode = cfg.GeocodeCountry
		return routing.NewNominatimGeocoder(ncfg, geocodes), nil
	}
}

func newRouteProvider(cfg config.Config, routes ports.RouteCache) (ports.RouteProvider, error) {
	switch cfg.RouteProvider {
	case "ors":
		ors, err := routing.NewORSRouteProvider(cfg.ORSAPIKey, cfg.ORSProfile)
		if err != nil {
			return nil, err
		}
		// Provider responses are cached per request fingerprint.
		return &services.CachedRouteProvider{Provider: ors, Cache: routes, Profile: ors.Profile()}, nil
	case "file":
		return routing.NewFileRouteProvider(cfg.RoutesFile), nil
	default:
		return routing.NewDemoRouteProvider(), nil
	}
}

// startPurgeSchedule runs the route cache purge on CACHE_PURGE_SCHEDULE.
// Caches that expire entries themselves (Redis) are skipped.
func startPurgeSchedule(cfg config.Config, routes ports.RouteCache) (*cron.Cron, error) {
	purgeable, ok := routes.(ports.PurgeableCache)
	if !ok || cfg.CachePurgeSchedule == "" || cfg.CacheTTL <= 0 {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.CachePurgeSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := purgeable.Purge(ctx, time.Now().Add(-cfg.CacheTTL))
		if err != nil {
			log.Printf("route cache purge failed: %v", err)
			return
		}
		log.Printf("route cache purged: rows=%d", n)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule cache purge %q: %w", cfg.CachePurgeSchedule, err)
	}
	c.Start()
	return c, nil
}
