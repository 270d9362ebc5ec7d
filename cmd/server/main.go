package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/orfradio/catalog"
	"github.com/orfradio/catalog/internal/audioapi"
	"github.com/orfradio/catalog/internal/fetch"
	"github.com/orfradio/catalog/internal/server"
	"github.com/orfradio/catalog/internal/stream"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5070"`

	Stations     string `env:"STATIONS" default:"oe1,oe3,fm4"`
	StationsFile string `env:"STATIONS_FILE"`
	ArchiveTypes string `env:"ARCHIVE_TYPES" default:"M,B,J,N,S"`
	Afterhours   bool   `env:"AFTERHOURS"`
	LiveBitrate  int    `env:"LIVESTREAM_BITRATE" default:"192"`

	CacheTtlSeconds        int `env:"CACHE_TTL_SECONDS" default:"300"`
	UpstreamTimeoutSeconds int `env:"UPSTREAM_TIMEOUT_SECONDS" default:"30"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fail(logger, "Failed to load .env file", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		fail(logger, "Failed to load config", err)
	}
	if config.LiveBitrate != 128 && config.LiveBitrate != 192 {
		fail(logger, "LIVESTREAM_BITRATE must be 128 or 192", fmt.Errorf("got %d", config.LiveBitrate))
	}

	// Resolve the station registry and narrow it to the configured slugs
	registry := catalog.DefaultStations
	if config.StationsFile != "" {
		registry, err = catalog.LoadStationsFile(config.StationsFile)
		if err != nil {
			fail(logger, "Failed to load station registry", err)
		}
	}
	stations := catalog.SelectStations(registry, splitCsv(config.Stations))
	if len(stations) == 0 {
		fail(logger, "No configured station matches the registry", fmt.Errorf("STATIONS=%q", config.Stations))
	}
	archiveTypes := make(map[string]bool)
	for _, code := range splitCsv(config.ArchiveTypes) {
		archiveTypes[code] = true
	}

	// The fetch cache is the single place that talks to upstream; everything
	// else reads through it
	cache := fetch.NewCache(
		&http.Client{Timeout: time.Duration(config.UpstreamTimeoutSeconds) * time.Second},
		time.Duration(config.CacheTtlSeconds)*time.Second,
		logger,
	)
	api := audioapi.NewClient(cache, logger)
	locator := stream.NewLocator(api)

	catalogServer := server.NewServer(api, locator, server.Options{
		Stations:     stations,
		ArchiveTypes: archiveTypes,
		Afterhours:   config.Afterhours,
		LiveBitrate:  config.LiveBitrate,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache with every configured station's archive index so the
	// first browse doesn't pay the upstream round-trip
	wg, warmupCtx := errgroup.WithContext(ctx)
	for _, st := range stations {
		if st.StreamSlug == "" {
			continue
		}
		st := st
		wg.Go(func() error {
			days := api.ArchiveIndex(warmupCtx, st.Slug)
			logger.Info("Warmed archive index", "station", st.Slug, "days", len(days))
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		logger.Error("Cache warmup did not complete", "error", err)
	}

	// Start setting up our HTTP handlers, using gorilla/mux for routing
	r := mux.NewRouter()
	r.Use(server.LoggingMiddleware(logger))
	catalogServer.RegisterRoutes(r)

	// Handle incoming HTTP connections until our top-level context is
	// canceled, at which point shut down cleanly
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.BindAddr, config.ListenPort),
		Handler: r,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down HTTP server cleanly", "error", err)
		}
	}()

	logger.Info("Listening", "addr", httpServer.Addr, "stations", config.Stations)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fail(logger, "HTTP server terminated unexpectedly", err)
	}
}

func splitCsv(s string) []string {
	parts := strings.Split(s, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func fail(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
