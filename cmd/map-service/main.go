package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dragonsword-map/server/internal/api"
	"github.com/dragonsword-map/server/internal/config"
	"github.com/dragonsword-map/server/internal/localstate"
	"github.com/dragonsword-map/server/internal/logger"
	"github.com/dragonsword-map/server/internal/pins"
	"github.com/dragonsword-map/server/internal/progress"
	"github.com/dragonsword-map/server/internal/report"
	"github.com/dragonsword-map/server/internal/session"
)

func main() {
	markersDir := flag.String("markers-dir", "", "Override DRAGONMAP_MARKERS_DIR")
	flag.Parse()

	log := logger.New("map-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *markersDir != "" {
		cfg.MarkersDir = *markersDir
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("markers_dir", cfg.MarkersDir).
		Str("delete_policy", cfg.DeletePolicy).
		Msg("Map service starting...")

	// -------- Local state (progress, prefs) --------
	var state *localstate.Store
	if cfg.DataDir != "" {
		state, err = localstate.Open(filepath.Join(cfg.DataDir, "dragonmap.db"))
	} else {
		state, err = localstate.OpenDefault()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Local state store unavailable")
	}
	defer func() { _ = state.Close() }()

	// -------- Pin store & collaborators -----------
	store := pins.NewStore(cfg.DeletePolicy)
	sess := session.New(store, cfg.AdminPassphrase)
	tracker := progress.NewTracker(store, state)
	queue := report.NewQueue()

	// Marker data load is all-or-nothing: on failure the map stays up with
	// an empty collection, mirroring the front end's single load error.
	ctx := context.Background()
	if records, err := pins.LoadMarkerFiles(cfg.MarkersDir); err != nil {
		log.Error().Err(err).Msg("Marker data load failed; starting with no pins")
	} else {
		store.LoadAll(records)
		if err := tracker.Hydrate(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to hydrate progress state")
		}
	}

	// -------- Router & Server --------------
	router := api.NewRouter(store, sess, tracker, queue, state)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
