package main

import (
	"context"

	"github.com/avdeyev/zmx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportRun exports every folder of the authenticated user to local files.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.requireUser()
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate-limit"),
	}

	// Flags win over config file settings
	if opts.Format == "" {
		opts.Format = r.config.Export.Format
	}
	if opts.OutputDir == "" {
		opts.OutputDir = r.config.Export.OutputDir
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = r.config.Export.Workers
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.Export.RateLimit
	}

	r.logger.Info("starting bulk export", "format", opts.Format, "workers", opts.NumWorkers)
	r.writePlain("Starting folder export...\n\n")

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchFolders:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportFolders:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, userID, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Folders: %d\n", result.TotalFolders)
	r.writePlain("Succeeded: %d\n", result.SuccessfulExports)
	r.writePlain("Failed: %d\n", result.FailedExports)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed folders:\n")
		for _, folder := range result.Results {
			if !folder.Success {
				r.writePlain("  - %s: %s\n", folder.FolderName, folder.Error)
			}
		}
	}

	return nil
}
