package api

import (
	"net/http"
	"route-compare-service/internal/api/handlers"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/ports"
)

// Deps are the adapters the HTTP layer is wired with.
type Deps struct {
	Geocoder        ports.Geocoder
	Provider        ports.RouteProvider
	Comparisons     ports.ComparisonRepository
	DefaultMetric   domain.Metric
	ToleranceMeters float64
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	metric := deps.DefaultMetric
	if !metric.Valid() {
		metric = domain.MetricDuration
	}

	tripHandler := &handlers.TripHandler{
		Geocoder:        deps.Geocoder,
		Provider:        deps.Provider,
		Repo:            deps.Comparisons,
		DefaultMetric:   metric,
		ToleranceMeters: deps.ToleranceMeters,
	}
	comparisonHandler := &handlers.ComparisonHandler{Repo: deps.Comparisons}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/compare", tripHandler.Compare)
	mux.HandleFunc("/routes/graph", tripHandler.Graph)
	mux.HandleFunc("/routes/map", tripHandler.Map)
	mux.HandleFunc("/routes/export", tripHandler.Export)
	mux.HandleFunc("/comparisons", comparisonHandler.List)

	return requestIDMiddleware(loggingMiddleware(mux))
}
