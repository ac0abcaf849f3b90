package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Guram-LM/Country-validation/internal/config"
	"github.com/Guram-LM/Country-validation/internal/db"
	"github.com/Guram-LM/Country-validation/internal/gazetteer"
	"github.com/Guram-LM/Country-validation/internal/geocode"
	httpapi "github.com/Guram-LM/Country-validation/internal/http"
	"github.com/Guram-LM/Country-validation/internal/metrics"
	"github.com/Guram-LM/Country-validation/internal/resolver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "address-backend").Logger()

	ctx := context.Background()

	var index gazetteer.Index
	var store *db.Store
	switch {
	case cfg.DatabaseURL != "":
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare schema")
		}
		index = store
		logger.Info().Msg("using postgres dataset backend")
	case cfg.DatasetPlaces != "" && cfg.DatasetRoads != "":
		fileIndex, err := gazetteer.NewFileIndex(cfg.DatasetPlaces, cfg.DatasetRoads)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load dataset files")
		}
		index = fileIndex
		logger.Info().
			Str("places", cfg.DatasetPlaces).
			Str("roads", cfg.DatasetRoads).
			Msg("using file dataset backend")
	default:
		logger.Fatal().Msg("set DATABASE_URL or both DATASET_PLACES_PATH and DATASET_ROADS_PATH")
	}

	if counter, ok := index.(gazetteer.Counter); ok {
		if places, roads, err := counter.Counts(ctx); err == nil {
			metrics.DatasetFeatures.WithLabelValues("places").Set(float64(places))
			metrics.DatasetFeatures.WithLabelValues("roads").Set(float64(roads))
		}
	}

	var geocoder geocode.Geocoder
	if cfg.GeocoderURL == "" {
		geocoder = geocode.MockGeocoder{}
		logger.Info().Msg("using mock geocoder")
	} else {
		geocoder = geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderAgent)
	}

	svc := resolver.New(index, geocoder, cfg.GeocoderLang, logger)
	router := httpapi.Router(cfg, index, store, svc, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
