package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/avdeyev/zmx/internal/repositories"
	"github.com/avdeyev/zmx/internal/services"
	"github.com/avdeyev/zmx/internal/session"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/avdeyev/zmx/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	httpClient := http.DefaultClient
	if config.Server.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: time.Duration(config.Server.TimeoutSeconds) * time.Second}
	}

	var storage session.Storage
	if fs, err := session.NewFileStorage(config.Session.Dir); err == nil {
		storage = fs
	} else {
		logger.Warn("session persistence unavailable", "error", err)
	}

	store := session.NewStore(config.Server.BaseURL, storage, httpClient, logger)
	store.Restore()

	notesService := services.NewNotesClient(config.Server.BaseURL, httpClient, store)
	apiService := services.NewAPIService(config.Server.BaseURL, httpClient, store)

	// Attach the local cache when it has been set up; server-confirmed bulk
	// moves and deletes are then mirrored into it.
	var cache tasks.CacheStore
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			cache = repositories.NewCacheAdapter(
				repositories.NewFolderRepository(db),
				repositories.NewNoteRepository(db),
			)
		} else {
			logger.Warn("cache unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Service:    notesService,
		API:        apiService,
		Session:    store,
		HTTPClient: httpClient,
		Logger:     logger,
		Cache:      cache,
	})

	app := &cli.Command{
		Name:     "zmx",
		Usage:    "Terminal client for Zametka notes and folders",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
