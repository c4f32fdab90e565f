// package services defines interface Service for interacting with the
// Zametka backend HTTP API.
package services

import (
	"context"

	"github.com/avdeyev/zmx/internal/models"
)

// Service defines the notes/folders operations the client consumes.
type Service interface {
	// CreateFolder creates a folder owned by the authenticated user.
	CreateFolder(ctx context.Context, draft models.FolderDraft) (*models.Folder, error)

	// UserFolders retrieves all folders belonging to the given user.
	UserFolders(ctx context.Context, userID int) ([]models.Folder, error)

	// CreateNote creates a note inside the draft's folder.
	CreateNote(ctx context.Context, draft models.NoteDraft) (*models.Note, error)

	// FolderNotes retrieves the notes of one folder.
	FolderNotes(ctx context.Context, folderID int) ([]models.Note, error)

	// MoveNotes reassigns all given notes to the target folder in a single
	// batched request.
	MoveNotes(ctx context.Context, noteIDs []int, targetFolderID int) error

	// DeleteNotes deletes all given notes in a single batched request.
	DeleteNotes(ctx context.Context, noteIDs []int) error

	// Name returns the name of the backend this service talks to.
	Name() string
}

// TokenProvider supplies the bearer credential for authenticated calls.
// Implemented by session.Store.
type TokenProvider interface {
	AccessToken() string
}
