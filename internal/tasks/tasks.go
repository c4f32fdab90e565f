// package tasks implements bulk note operations against the backend.
//
// The core abstraction is Engine, which orchestrates batched moves, batched
// deletes, and offline cache syncs. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/services"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/charmbracelet/log"
)

// MoveRunResult contains the outcome of a batched move.
type MoveRunResult struct {
	NoteIDs        []int // Notes moved, in request order
	TargetFolderID int   // Destination folder
	MovedCount     int   // Number of notes moved
}

// DeleteRunResult contains the outcome of a batched delete.
type DeleteRunResult struct {
	NoteIDs      []int // Notes deleted, in request order
	DeletedCount int   // Number of notes deleted
}

// FolderSyncResult records a single folder's contribution to a cache sync.
type FolderSyncResult struct {
	FolderID   int
	FolderName string
	NoteCount  int
	Error      error // Non-nil when the folder's notes could not be fetched
}

// SyncRunResult contains all data from a full cache sync.
type SyncRunResult struct {
	TotalFolders int                // Folders found on the server
	TotalNotes   int                // Notes fetched across all folders
	Folders      []FolderSyncResult // Per-folder results
	FailedCount  int                // Folders whose notes could not be fetched
}

// Engine defines bulk operations over the user's notes and folders.
type Engine interface {
	// Move reassigns all given notes to the target folder in a single
	// batched request.
	Move(ctx context.Context, progress chan<- ProgressUpdate, noteIDs []int, targetFolderID int) (*MoveRunResult, error)

	// Delete removes all given notes in a single batched request.
	Delete(ctx context.Context, progress chan<- ProgressUpdate, noteIDs []int) (*DeleteRunResult, error)

	// Sync fetches every folder of the user with its notes and persists
	// them to the local cache.
	Sync(ctx context.Context, progress chan<- ProgressUpdate, userID int) (*SyncRunResult, error)
}

// CacheStore defines the persistence hooks the engine uses to keep the
// local cache in step with the backend: upserts during syncs and mirrors of
// server-confirmed bulk operations. Cache failures are logged and swallowed,
// never surfaced to the caller.
type CacheStore interface {
	SaveFolder(ctx context.Context, folder models.Folder) error
	SaveNote(ctx context.Context, note models.Note) error
	MoveNotes(ctx context.Context, noteIDs []int, folderID int) error
	DeleteNotes(ctx context.Context, noteIDs []int) error
}

// NoteEngine implements Engine against a single backend service.
type NoteEngine struct {
	svc    services.Service
	cache  CacheStore
	logger *log.Logger
}

// NewNoteEngine creates a NoteEngine. The cache is optional; a nil cache
// turns Sync into a dry run that only counts server state and leaves bulk
// operations unmirrored.
func NewNoteEngine(svc services.Service, cache CacheStore, logger *log.Logger) *NoteEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &NoteEngine{svc: svc, cache: cache, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *NoteEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Move reassigns the given notes to the target folder with one request.
func (e *NoteEngine) Move(ctx context.Context, progress chan<- ProgressUpdate, noteIDs []int, targetFolderID int) (*MoveRunResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: backend service not initialized", shared.ErrServiceUnavailable)
	}
	if len(noteIDs) == 0 {
		return nil, shared.ErrEmptySelection
	}

	e.sendProgress(progress, movingNotesUpdate(len(noteIDs), targetFolderID))

	if err := e.svc.MoveNotes(ctx, noteIDs, targetFolderID); err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.MoveNotes(ctx, noteIDs, targetFolderID); err != nil {
			e.logger.Warn("failed to mirror move into cache", "count", len(noteIDs), "error", err)
		}
	}

	e.sendProgress(progress, movedNotesUpdate(len(noteIDs), targetFolderID))
	return &MoveRunResult{
		NoteIDs:        noteIDs,
		TargetFolderID: targetFolderID,
		MovedCount:     len(noteIDs),
	}, nil
}

// Delete removes the given notes with one request.
func (e *NoteEngine) Delete(ctx context.Context, progress chan<- ProgressUpdate, noteIDs []int) (*DeleteRunResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: backend service not initialized", shared.ErrServiceUnavailable)
	}
	if len(noteIDs) == 0 {
		return nil, shared.ErrEmptySelection
	}

	e.sendProgress(progress, deletingNotesUpdate(len(noteIDs)))

	if err := e.svc.DeleteNotes(ctx, noteIDs); err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.DeleteNotes(ctx, noteIDs); err != nil {
			e.logger.Warn("failed to mirror delete into cache", "count", len(noteIDs), "error", err)
		}
	}

	e.sendProgress(progress, deletedNotesUpdate(len(noteIDs)))
	return &DeleteRunResult{
		NoteIDs:      noteIDs,
		DeletedCount: len(noteIDs),
	}, nil
}

// Sync walks every folder of the user and caches folders and notes locally.
// A folder whose notes cannot be fetched is recorded and skipped; the sync
// continues with the remaining folders.
func (e *NoteEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, userID int) (*SyncRunResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: backend service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchFoldersUpdate(1, 1))

	folders, err := e.svc.UserFolders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch folders: %w", err)
	}

	result := &SyncRunResult{
		TotalFolders: len(folders),
		Folders:      make([]FolderSyncResult, 0, len(folders)),
	}

	for i, folder := range folders {
		e.sendProgress(progress, cachingFolderUpdate(i+1, len(folders), folder.Name))

		if e.cache != nil {
			if err := e.cache.SaveFolder(ctx, folder); err != nil {
				e.logger.Warn("failed to cache folder", "folder_id", folder.ID, "error", err)
			}
		}

		notes, err := e.svc.FolderNotes(ctx, folder.ID)
		if err != nil {
			result.FailedCount++
			result.Folders = append(result.Folders, FolderSyncResult{
				FolderID:   folder.ID,
				FolderName: folder.Name,
				Error:      err,
			})
			continue
		}

		if e.cache != nil {
			for _, note := range notes {
				if err := e.cache.SaveNote(ctx, note); err != nil {
					e.logger.Warn("failed to cache note", "note_id", note.ID, "error", err)
				}
			}
		}

		result.TotalNotes += len(notes)
		result.Folders = append(result.Folders, FolderSyncResult{
			FolderID:   folder.ID,
			FolderName: folder.Name,
			NoteCount:  len(notes),
		})
	}

	return result, nil
}
