// package models defines the data model for the zmx notes client
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all locally persisted models.
type Model interface {
	ID() string          // ID returns the unique local identifier for this model
	SyncedAt() time.Time // SyncedAt returns when this model was last mirrored from the backend
	Validate() error     // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its local ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its local ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Folder represents a folder as served by the backend.
type Folder struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsPublic bool   `json:"is_public"`
}

// FolderCandidate is a folder eligible as a bulk-move target.
type FolderCandidate struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FolderDraft is the client-side input for folder creation.
type FolderDraft struct {
	Name          string `json:"name"`
	Color         string `json:"color"`
	IsPublic      bool   `json:"is_public"`
	PasswordCheck bool   `json:"password_check"`
	Password      string `json:"password,omitempty"`
}

// Validate checks folder creation preconditions before any network call.
func (d FolderDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("folder name must not be blank")
	}
	if d.PasswordCheck && strings.TrimSpace(d.Password) == "" {
		return fmt.Errorf("password-protected folder requires a password")
	}
	return nil
}

// Note represents a note within a folder.
type Note struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Text     string `json:"text"`
	FolderID int    `json:"folder_id"`
	IsPublic bool   `json:"is_public"`
	Slug     string `json:"slug,omitempty"`
	OwnerID  int    `json:"owner_id,omitempty"`
}

// NoteDraft is the client-side input for note creation.
type NoteDraft struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	FolderID int    `json:"folder_id"`
	IsPublic bool   `json:"is_public"`
}

// Validate checks note creation preconditions before any network call.
func (d NoteDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("note name must not be blank")
	}
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("note text must not be blank")
	}
	return nil
}

// CachedFolder is a folder mirrored into the local SQLite cache.
type CachedFolder struct {
	id       string
	folder   Folder
	syncedAt time.Time
}

// NewCachedFolder wraps a backend folder for local persistence.
func NewCachedFolder(folder Folder) *CachedFolder {
	return &CachedFolder{folder: folder, syncedAt: time.Now()}
}

func (f *CachedFolder) ID() string          { return f.id }
func (f *CachedFolder) SyncedAt() time.Time { return f.syncedAt }
func (f *CachedFolder) Folder() Folder      { return f.folder }
func (f *CachedFolder) RemoteID() int       { return f.folder.ID }

func (f *CachedFolder) SetID(id string)          { f.id = id }
func (f *CachedFolder) SetSyncedAt(ts time.Time) { f.syncedAt = ts }

func (f *CachedFolder) Validate() error {
	if f.folder.ID <= 0 {
		return fmt.Errorf("cached folder requires a positive remote id")
	}
	if f.folder.Name == "" {
		return fmt.Errorf("cached folder requires a name")
	}
	return nil
}

// CachedNote is a note mirrored into the local SQLite cache.
type CachedNote struct {
	id       string
	note     Note
	syncedAt time.Time
}

// NewCachedNote wraps a backend note for local persistence.
func NewCachedNote(note Note) *CachedNote {
	return &CachedNote{note: note, syncedAt: time.Now()}
}

func (n *CachedNote) ID() string          { return n.id }
func (n *CachedNote) SyncedAt() time.Time { return n.syncedAt }
func (n *CachedNote) Note() Note          { return n.note }
func (n *CachedNote) RemoteID() int       { return n.note.ID }

func (n *CachedNote) SetID(id string)          { n.id = id }
func (n *CachedNote) SetSyncedAt(ts time.Time) { n.syncedAt = ts }

func (n *CachedNote) Validate() error {
	if n.note.ID <= 0 {
		return fmt.Errorf("cached note requires a positive remote id")
	}
	if n.note.Name == "" {
		return fmt.Errorf("cached note requires a name")
	}
	return nil
}
