package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
)

// FolderRepository implements [models.Repository] for cached folder persistence.
type FolderRepository struct {
	db *sql.DB
}

// NewFolderRepository creates a new [FolderRepository] with the given database connection
func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts a new cached folder into the database with a generated local ID
func (r *FolderRepository) Create(folder *models.CachedFolder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	folder.SetID(id)

	query := `
		INSERT INTO folders (id, remote_id, name, color, is_public, synced_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	f := folder.Folder()
	_, err := r.db.Exec(query, id, f.ID, f.Name, f.Color, f.IsPublic, folder.SyncedAt())
	if err != nil {
		return fmt.Errorf("failed to insert folder: %w", err)
	}

	return nil
}

// Get retrieves a cached folder by local ID
func (r *FolderRepository) Get(id string) (*models.CachedFolder, error) {
	query := `
		SELECT id, remote_id, name, color, is_public, synced_at
		FROM folders
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached folder by its backend identifier
func (r *FolderRepository) GetByRemoteID(remoteID int) (*models.CachedFolder, error) {
	query := `
		SELECT id, remote_id, name, color, is_public, synced_at
		FROM folders
		WHERE remote_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update refreshes the cached copy of a folder
func (r *FolderRepository) Update(folder *models.CachedFolder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	folder.SetSyncedAt(now)

	query := `
		UPDATE folders
		SET name = ?, color = ?, is_public = ?, synced_at = ?
		WHERE remote_id = ?
	`

	f := folder.Folder()
	result, err := r.db.Exec(query, f.Name, f.Color, f.IsPublic, now, f.ID)
	if err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: remote id %d", shared.ErrFolderNotFound, f.ID)
	}

	return nil
}

// Delete removes a cached folder by local ID
func (r *FolderRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFolderNotFound, id)
	}

	return nil
}

// List retrieves all cached folders matching the given criteria
func (r *FolderRepository) List(criteria map[string]any) ([]*models.CachedFolder, error) {
	query := `
		SELECT id, remote_id, name, color, is_public, synced_at
		FROM folders
		WHERE 1 = 1
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	var folders []*models.CachedFolder
	for rows.Next() {
		folder, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return folders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *FolderRepository) scanOne(row *sql.Row) (*models.CachedFolder, error) {
	folder, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: not cached", shared.ErrFolderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query folder: %w", err)
	}
	return folder, nil
}

func (r *FolderRepository) scanRow(rows *sql.Rows) (*models.CachedFolder, error) {
	folder, err := r.scan(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan folder: %w", err)
	}
	return folder, nil
}

func (r *FolderRepository) scan(s rowScanner) (*models.CachedFolder, error) {
	var (
		localID  string
		remoteID int
		name     string
		color    string
		isPublic bool
		syncedAt time.Time
	)

	if err := s.Scan(&localID, &remoteID, &name, &color, &isPublic, &syncedAt); err != nil {
		return nil, err
	}

	folder := models.NewCachedFolder(models.Folder{
		ID:       remoteID,
		Name:     name,
		Color:    color,
		IsPublic: isPublic,
	})
	folder.SetID(localID)
	folder.SetSyncedAt(syncedAt)

	return folder, nil
}
