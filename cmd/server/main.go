package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"route-compare-service/internal/api"
	"route-compare-service/internal/config"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis, ORS/Nominatim)
// behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	geocoder, err := newGeocoder(cfg, st.geocodes)
	if err != nil {
		log.Fatal(err)
	}
	provider, err := newRouteProvider(cfg, st.routes)
	if err != nil {
		log.Fatal(err)
	}

	scheduler, err := startPurgeSchedule(cfg, st.routes)
	if err != nil {
		log.Fatal(err)
	}
	if scheduler != nil {
		defer func() { <-scheduler.Stop().Done() }()
	}

	router := api.NewRouter(api.Deps{
		Geocoder:        geocoder,
		Provider:        provider,
		Comparisons:     st.comparisons,
		DefaultMetric:   cfg.DefaultMetric,
		ToleranceMeters: cfg.DedupTolerance,
	})

	// Timeouts are tuned for cold-cache comparisons (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s provider=%s geocoder=%s", cfg.Port, cfg.RouteProvider, cfg.Geocoder)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
