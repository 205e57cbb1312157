package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eyeball-app/eyeball-api/internal/config"
	httpserver "github.com/eyeball-app/eyeball-api/internal/http"
	"github.com/eyeball-app/eyeball-api/internal/logging"
	"github.com/eyeball-app/eyeball-api/internal/repository"
	"github.com/eyeball-app/eyeball-api/internal/service"
	"github.com/eyeball-app/eyeball-api/internal/store"
	"github.com/eyeball-app/eyeball-api/internal/tmdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(logging.Config{})
		bootLogger.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	provider, err := tmdb.NewHTTPClient(cfg.TMDBURL, cfg.TMDBAPIKey, time.Duration(cfg.TMDBTimeoutSecs)*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init tmdb client")
	}

	repo := repository.New(st)
	movies := service.New(service.Options{
		Provider:         provider,
		Movies:           repo.Movies,
		Reactions:        repo.Reactions,
		Genres:           repo.Genres,
		Logger:           logger,
		RankLimit:        cfg.RankLimit,
		TopGenresDefault: cfg.TopGenresDefault,
	})

	server := httpserver.New(cfg, st, movies, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
