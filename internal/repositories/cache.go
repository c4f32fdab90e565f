package repositories

import (
	"context"
	"fmt"

	"github.com/avdeyev/zmx/internal/models"
)

// CacheAdapter implements tasks.CacheStore on top of the folder and note
// repositories.
//
// Provides upsert semantics keyed on remote_id; duplicate saves from
// concurrent workers degrade to no-ops via the UNIQUE constraint.
type CacheAdapter struct {
	folders *FolderRepository
	notes   *NoteRepository
}

// NewCacheAdapter creates a new CacheAdapter with the given repositories
func NewCacheAdapter(folders *FolderRepository, notes *NoteRepository) *CacheAdapter {
	return &CacheAdapter{folders: folders, notes: notes}
}

// SaveFolder upserts a backend folder into the cache.
func (a *CacheAdapter) SaveFolder(ctx context.Context, folder models.Folder) error {
	cached := models.NewCachedFolder(folder)

	if existing, err := a.folders.GetByRemoteID(folder.ID); err == nil && existing != nil {
		return a.folders.Update(cached)
	}

	if err := a.folders.Create(cached); err != nil {
		if isUniqueViolation(err) {
			return a.folders.Update(cached)
		}
		return fmt.Errorf("failed to cache folder: %w", err)
	}

	return nil
}

// MoveNotes mirrors a server-confirmed bulk move into the cache.
func (a *CacheAdapter) MoveNotes(ctx context.Context, noteIDs []int, folderID int) error {
	return a.notes.MoveByRemoteIDs(noteIDs, folderID)
}

// DeleteNotes mirrors a server-confirmed bulk delete into the cache.
func (a *CacheAdapter) DeleteNotes(ctx context.Context, noteIDs []int) error {
	return a.notes.DeleteByRemoteIDs(noteIDs)
}

// SaveNote upserts a backend note into the cache.
func (a *CacheAdapter) SaveNote(ctx context.Context, note models.Note) error {
	cached := models.NewCachedNote(note)

	if existing, err := a.notes.GetByRemoteID(note.ID); err == nil && existing != nil {
		return a.notes.Update(cached)
	}

	if err := a.notes.Create(cached); err != nil {
		if isUniqueViolation(err) {
			return a.notes.Update(cached)
		}
		return fmt.Errorf("failed to cache note: %w", err)
	}

	return nil
}
