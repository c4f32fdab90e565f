package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/avdeyev/zmx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// NoteCreate creates a note inside a folder.
func (r *Runner) NoteCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: note name", shared.ErrMissingArgument)
	}

	draft := models.NoteDraft{
		Name:     name,
		Text:     cmd.String("text"),
		FolderID: cmd.Int("folder"),
		IsPublic: cmd.Bool("public"),
	}

	r.logger.Info("creating note", "name", name, "folder_id", draft.FolderID)

	note, err := r.svc.CreateNote(ctx, draft)
	if err != nil {
		return err
	}

	r.writePlain("✓ Note created: %s\n", note.Name)
	r.writePlain("  ID: %d\n", note.ID)
	r.writePlain("  Folder: %d\n", note.FolderID)

	return nil
}

// NoteList lists the notes of one folder.
func (r *Runner) NoteList(ctx context.Context, cmd *cli.Command) error {
	folderID := cmd.Int("folder")

	r.logger.Info("listing notes", "folder_id", folderID)

	notes, err := r.svc.FolderNotes(ctx, folderID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(notes, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Notes in folder %d (%d)", folderID, len(notes)))
	for _, note := range notes {
		r.writePlain("%d. %s (%s)\n", note.ID, note.Name, shared.VisibilityString(note.IsPublic))
	}

	return nil
}

// NoteMove reassigns a batch of notes to another folder in one request.
func (r *Runner) NoteMove(ctx context.Context, cmd *cli.Command) error {
	ids, err := parseNoteIDs(cmd.String("ids"))
	if err != nil {
		return err
	}
	targetID := cmd.Int("to")

	r.logger.Info("moving notes", "count", len(ids), "target_folder_id", targetID)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("📦 %s\n", update.Message)
		}
	}()

	result, err := r.engine.Move(ctx, progressCh, ids, targetID)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("✓ Moved %d notes to folder %d", result.MovedCount, result.TargetFolderID)
	return nil
}

// NoteDelete deletes a batch of notes in one request. Requires --yes.
func (r *Runner) NoteDelete(ctx context.Context, cmd *cli.Command) error {
	ids, err := parseNoteIDs(cmd.String("ids"))
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		r.writePlain("About to delete %d notes. This cannot be undone.\n", len(ids))
		r.writePlain("Re-run with --yes to confirm.\n")
		return fmt.Errorf("%w: pass --yes to delete", shared.ErrNotConfirmed)
	}

	r.logger.Info("deleting notes", "count", len(ids))

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("🗑  %s\n", update.Message)
		}
	}()

	result, err := r.engine.Delete(ctx, progressCh, ids)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("✓ Deleted %d notes", result.DeletedCount)
	return nil
}

// parseNoteIDs parses a comma-separated list of note IDs.
func parseNoteIDs(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid note ID %q", shared.ErrInvalidArgument, part)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no note IDs given", shared.ErrEmptySelection)
	}

	return ids, nil
}
