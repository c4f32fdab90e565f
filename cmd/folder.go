package main

import (
	"context"
	"fmt"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// FolderCreate creates a folder on the backend.
func (r *Runner) FolderCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: folder name", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	draft := models.FolderDraft{
		Name:          name,
		Color:         cmd.String("color"),
		IsPublic:      cmd.Bool("public"),
		PasswordCheck: password != "",
		Password:      password,
	}

	r.logger.Info("creating folder", "name", name)

	folder, err := r.svc.CreateFolder(ctx, draft)
	if err != nil {
		return err
	}

	r.writePlain("✓ Folder created: %s\n", folder.Name)
	r.writePlain("  ID: %d\n", folder.ID)
	r.writePlain("  Visibility: %s\n", shared.VisibilityString(folder.IsPublic))

	return nil
}

// FolderList lists the authenticated user's folders.
func (r *Runner) FolderList(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.requireUser()
	if err != nil {
		return err
	}

	r.logger.Info("listing folders", "user_id", userID)

	folders, err := r.svc.UserFolders(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(folders, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Folders (%d)", len(folders)))
	for _, folder := range folders {
		r.writePlain("%d. %s (%s)\n", folder.ID, folder.Name, shared.VisibilityString(folder.IsPublic))
	}

	return nil
}
