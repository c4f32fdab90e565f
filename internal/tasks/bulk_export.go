package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avdeyev/zmx/internal/formatter"
	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk folder exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: zametka_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// FolderExportJob pairs a folder with its fetched notes for formatting.
type FolderExportJob struct {
	Folder models.Folder
	Notes  []models.Note
}

// FolderExportResult records the outcome of exporting one folder.
type FolderExportResult struct {
	FolderID   int      `json:"folder_id"`
	FolderName string   `json:"folder_name"`
	Success    bool     `json:"success"`
	Files      []string `json:"files,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a full export run.
type BulkExportResult struct {
	TotalFolders      int                  `json:"total_folders"`
	SuccessfulExports int                  `json:"successful_exports"`
	FailedExports     int                  `json:"failed_exports"`
	OutputDirectory   string               `json:"output_directory"`
	ManifestPath      string               `json:"manifest_path,omitempty"`
	Results           []FolderExportResult `json:"results"`
}

// BulkExport exports every folder of the user concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern to efficiently export multiple folders.
// It respects API rate limits, handles partial failures gracefully, and generates a manifest file summarizing the export results.
func (e *NoteEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userID int,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: backend service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("zametka_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, fetchFoldersUpdate(1, 1))

	folders, err := e.svc.UserFolders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch folders: %w", err)
	}

	result := &BulkExportResult{
		TotalFolders:    len(folders),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FolderExportResult, 0, len(folders)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan FolderExportJob, len(folders))
	results := make(chan FolderExportResult, len(folders))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, folder := range folders {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			notes, err := e.svc.FolderNotes(ctx, folder.ID)
			if err != nil {
				results <- FolderExportResult{
					FolderID:   folder.ID,
					FolderName: folder.Name,
					Success:    false,
					Error:      fmt.Sprintf("failed to fetch notes: %v", err),
				}
				continue
			}

			jobs <- FolderExportJob{Folder: folder, Notes: notes}
			e.sendProgress(prog, exportingFolderUpdate(i+1, len(folders), folder.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(
				completed,
				len(folders),
				res.FolderName,
				len(res.Files),
			))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(
				completed,
				len(folders),
				res.FolderName,
				res.Error,
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports folders from the jobs channel.
func (e *NoteEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan FolderExportJob,
	results chan<- FolderExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.exportSingleFolder(ctx, job, opts)
		results <- res
	}
}

// exportSingleFolder exports a single folder to the appropriate format.
func (e *NoteEngine) exportSingleFolder(
	ctx context.Context,
	j FolderExportJob,
	opts BulkExportOpts,
) FolderExportResult {
	result := FolderExportResult{
		FolderID:   j.Folder.ID,
		FolderName: j.Folder.Name,
		Success:    false,
		Files:      []string{},
	}

	if e.cache != nil {
		if err := e.cache.SaveFolder(ctx, j.Folder); err != nil {
			e.logger.Warn("failed to cache folder", "folder_id", j.Folder.ID, "error", err)
		}
		for _, note := range j.Notes {
			if err := e.cache.SaveNote(ctx, note); err != nil {
				e.logger.Warn("failed to cache note", "note_id", note.ID, "error", err)
			}
		}
	}

	export := &formatter.FolderExport{Folder: j.Folder, Notes: j.Notes}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, fmt.Sprintf("%d", j.Folder.ID))
		csvRes, err := formatter.WriteCSVExport(export, baseFilepath)
		if err != nil {
			result.Error = fmt.Sprintf("CSV export failed: %v", err)
			return result
		}
		result.Files = []string{csvRes.NotesFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		mdPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%d.md", j.Folder.ID))
		file, err := formatter.WriteMarkdownExport(export, mdPath)
		if err != nil {
			result.Error = fmt.Sprintf("markdown export failed: %v", err)
			return result
		}
		result.Files = []string{file}
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%d_notes.txt", j.Folder.ID))
		file, err := formatter.WriteTextExport(export, txtPath)
		if err != nil {
			result.Error = fmt.Sprintf("text export failed: %v", err)
			return result
		}
		result.Files = []string{file}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%d.json", j.Folder.ID))
		file, err := formatter.WriteJSONExport(export, jsonPath)
		if err != nil {
			result.Error = fmt.Sprintf("JSON export failed: %v", err)
			return result
		}
		result.Files = []string{file}
		result.Success = true
	}
	return result
}
