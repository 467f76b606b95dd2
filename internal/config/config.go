package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"route-compare-service/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port               string        `validate:"required,numeric"`
	DBPath             string        `validate:"required_without=DatabaseURL"`
	DatabaseURL        string        `validate:"omitempty,url"`
	RedisURL           string        `validate:"omitempty,url"`
	RouteProvider      string        `validate:"oneof=ors demo file"`
	Geocoder           string        `validate:"oneof=ors nominatim"`
	ORSAPIKey          string        `validate:"required_if=RouteProvider ors"`
	ORSProfile         string        `validate:"required"`
	RoutesFile         string        `validate:"required_if=RouteProvider file"`
	GeocodeCountry     string        `validate:"omitempty,len=2"`
	GeocodeCity        string
	DedupTolerance     float64       `validate:"gt=0"`
	DefaultMetric      domain.Metric `validate:"oneof=distance duration"`
	CacheTTL           time.Duration `validate:"gte=0"`
	CachePurgeSchedule string
	SeedPath           string
}

// Load reads an optional .env file and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment without touching .env.
func FromEnv() (Config, error) {
	var errs []error

	tolerance, err := strconv.ParseFloat(Get("DEDUP_TOLERANCE_METERS", "5"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("DEDUP_TOLERANCE_METERS: %w", err))
	}
	ttl, err := time.ParseDuration(Get("CACHE_TTL", "24h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("CACHE_TTL: %w", err))
	}
	metric, err := domain.ParseMetric(Get("DEFAULT_METRIC", "duration"))
	if err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_METRIC: %w", err))
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}

	cfg := Config{
		Port:               Get("PORT", "8080"),
		DBPath:             Get("DB_PATH", "data/routes.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RouteProvider:      strings.ToLower(Get("ROUTE_PROVIDER", "demo")),
		Geocoder:           strings.ToLower(Get("GEOCODER", "nominatim")),
		ORSAPIKey:          os.Getenv("ORS_API_KEY"),
		ORSProfile:         Get("ORS_PROFILE", "driving-car"),
		RoutesFile:         os.Getenv("ROUTES_FILE"),
		GeocodeCountry:     Get("GEOCODE_COUNTRY", "cd"),
		GeocodeCity:        Get("GEOCODE_CITY", "Kinshasa"),
		DedupTolerance:     tolerance,
		DefaultMetric:      metric,
		CacheTTL:           ttl,
		CachePurgeSchedule: Get("CACHE_PURGE_SCHEDULE", "@every 1h"),
		SeedPath:           Get("SEED_PATH", "data/seeds/geocodes.json"),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Get returns the trimmed environment value for key, or fallback when unset
// or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
