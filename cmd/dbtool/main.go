package main

import (
	"context"
	"log"
	"route-compare-service/internal/adapters/cache"
	"route-compare-service/internal/adapters/repositories"
	"route-compare-service/internal/config"
	"route-compare-service/internal/platform/db"
	"route-compare-service/internal/ports"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool initializes the schema and seeds the geocode cache.
// DATABASE_URL selects Postgres; without it DB_PATH names a SQLite file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx := context.Background()
	seedPath := config.Get("SEED_PATH", "data/seeds/geocodes.json")

	var geocodes ports.GeocodeCache
	if databaseURL := strings.TrimSpace(config.Get("DATABASE_URL", "")); databaseURL != "" {
		conn, err := db.OpenPostgres(ctx, databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		log.Println("Initializing postgres schema...")
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		geocodes = cache.NewSQLGeocodeCache(conn)
	} else {
		dbPath := config.Get("DB_PATH", "data/routes.db")
		conn, err := db.OpenSQLite(ctx, dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		log.Printf("Initializing sqlite schema path=%s...", dbPath)
		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		geocodes = cache.NewSqliteGeocodeCache(conn)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding geocode cache from %s...", seedPath)
	n, err := repositories.SeedGeocodesFromJSON(ctx, geocodes, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. addresses=%d", n)
}
