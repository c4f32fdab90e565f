package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
)

// NoteRepository implements [models.Repository] for cached note persistence.
//
// Beyond plain CRUD it mirrors the backend's batched operations so the local
// cache stays consistent after a bulk move or delete.
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new [NoteRepository] with the given database connection
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a new cached note into the database with a generated local ID
func (r *NoteRepository) Create(note *models.CachedNote) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	note.SetID(id)

	query := `
		INSERT INTO notes (id, remote_id, folder_id, name, text, is_public, synced_at) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	n := note.Note()
	_, err := r.db.Exec(query, id, n.ID, n.FolderID, n.Name, n.Text, n.IsPublic, note.SyncedAt())
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// Get retrieves a cached note by local ID
func (r *NoteRepository) Get(id string) (*models.CachedNote, error) {
	query := `
		SELECT id, remote_id, folder_id, name, text, is_public, synced_at
		FROM notes
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached note by its backend identifier
func (r *NoteRepository) GetByRemoteID(remoteID int) (*models.CachedNote, error) {
	query := `
		SELECT id, remote_id, folder_id, name, text, is_public, synced_at
		FROM notes
		WHERE remote_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update refreshes the cached copy of a note
func (r *NoteRepository) Update(note *models.CachedNote) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	note.SetSyncedAt(now)

	query := `
		UPDATE notes
		SET folder_id = ?, name = ?, text = ?, is_public = ?, synced_at = ?
		WHERE remote_id = ?
	`

	n := note.Note()
	result, err := r.db.Exec(query, n.FolderID, n.Name, n.Text, n.IsPublic, now, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: remote id %d", shared.ErrNoteNotFound, n.ID)
	}

	return nil
}

// Delete removes a cached note by local ID
func (r *NoteRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNoteNotFound, id)
	}

	return nil
}

// List retrieves all cached notes matching the given criteria
func (r *NoteRepository) List(criteria map[string]any) ([]*models.CachedNote, error) {
	query := `
		SELECT id, remote_id, folder_id, name, text, is_public, synced_at
		FROM notes
		WHERE 1 = 1
	`

	args := []any{}

	if folderID, ok := criteria["folder_id"].(int); ok && folderID > 0 {
		query += " AND folder_id = ?"
		args = append(args, folderID)
	}
	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY folder_id ASC, remote_id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.CachedNote
	for rows.Next() {
		note, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return notes, nil
}

// MoveByRemoteIDs mirrors a backend bulk move into the cache, reassigning
// every cached note with a matching remote id to the target folder.
func (r *NoteRepository) MoveByRemoteIDs(remoteIDs []int, folderID int) error {
	if len(remoteIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`UPDATE notes SET folder_id = ?, synced_at = ? WHERE remote_id IN (%s)`,
		placeholders(len(remoteIDs)),
	)

	args := []any{folderID, time.Now()}
	for _, id := range remoteIDs {
		args = append(args, id)
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to move cached notes: %w", err)
	}

	return nil
}

// DeleteByRemoteIDs mirrors a backend bulk delete into the cache.
func (r *NoteRepository) DeleteByRemoteIDs(remoteIDs []int) error {
	if len(remoteIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`DELETE FROM notes WHERE remote_id IN (%s)`,
		placeholders(len(remoteIDs)),
	)

	args := make([]any, 0, len(remoteIDs))
	for _, id := range remoteIDs {
		args = append(args, id)
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete cached notes: %w", err)
	}

	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (r *NoteRepository) scanOne(row *sql.Row) (*models.CachedNote, error) {
	note, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: not cached", shared.ErrNoteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) scanRow(rows *sql.Rows) (*models.CachedNote, error) {
	note, err := r.scan(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) scan(s rowScanner) (*models.CachedNote, error) {
	var (
		localID  string
		remoteID int
		folderID sql.NullInt64
		name     string
		text     string
		isPublic bool
		syncedAt time.Time
	)

	if err := s.Scan(&localID, &remoteID, &folderID, &name, &text, &isPublic, &syncedAt); err != nil {
		return nil, err
	}

	note := models.NewCachedNote(models.Note{
		ID:       remoteID,
		Name:     name,
		Text:     text,
		FolderID: int(folderID.Int64),
		IsPublic: isPublic,
	})
	note.SetID(localID)
	note.SetSyncedAt(syncedAt)

	return note, nil
}
