package main

import (
	"context"
	"fmt"
	"os"

	"github.com/avdeyev/zmx/internal/repositories"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/avdeyev/zmx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheSync fetches every folder and its notes into the local database.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.requireUser()
	if err != nil {
		return err
	}

	config := r.loadConfigOrDefault(cmd.String("config"))

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cache := repositories.NewCacheAdapter(
		repositories.NewFolderRepository(db),
		repositories.NewNoteRepository(db),
	)
	engine := tasks.NewNoteEngine(r.svc, cache, r.logger)

	r.logger.Info("syncing cache", "user_id", userID, "database", config.Database.Path)
	r.writePlain("Syncing folders and notes to %s...\n\n", config.Database.Path)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchFolders:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CacheFolders:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Sync(ctx, progressCh, userID)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Folders: %d\n", result.TotalFolders)
	r.writePlain("Notes: %d\n", result.TotalNotes)

	if result.FailedCount > 0 {
		r.writePlain("\nFailed to fetch notes for %d folders:\n", result.FailedCount)
		for _, folder := range result.Folders {
			if folder.Error != nil {
				r.writePlain("  - %s: %v\n", folder.FolderName, folder.Error)
			}
		}
	}

	return nil
}

// CacheList lists cached folders with their cached note counts.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigOrDefault(cmd.String("config"))

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	folderRepo := repositories.NewFolderRepository(db)
	noteRepo := repositories.NewNoteRepository(db)

	cached, err := folderRepo.List(nil)
	if err != nil {
		return err
	}

	type cachedFolderRow struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Notes    int    `json:"notes"`
		SyncedAt string `json:"synced_at"`
	}

	rows := make([]cachedFolderRow, 0, len(cached))
	for _, cf := range cached {
		notes, err := noteRepo.List(map[string]any{"folder_id": cf.RemoteID()})
		if err != nil {
			return err
		}
		rows = append(rows, cachedFolderRow{
			ID:       cf.RemoteID(),
			Name:     cf.Folder().Name,
			Notes:    len(notes),
			SyncedAt: cf.SyncedAt().Format("2006-01-02 15:04"),
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	r.writePlainHeader(fmt.Sprintf("Cached folders (%d)", len(rows)))
	for _, row := range rows {
		r.writePlain("%d. %s (%d notes, synced %s)\n", row.ID, row.Name, row.Notes, row.SyncedAt)
	}

	return nil
}

// loadConfigOrDefault loads config from path, falling back to the runner's
// config and then the embedded defaults.
func (r *Runner) loadConfigOrDefault(path string) *shared.Config {
	if _, err := os.Stat(path); err == nil {
		if config, err := shared.LoadConfig(path); err == nil {
			return config
		}
		r.logger.Warn("failed to load config, using defaults", "path", path)
	}
	if r.config != nil {
		return r.config
	}
	return shared.DefaultConfig()
}
