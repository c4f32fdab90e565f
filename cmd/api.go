package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/avdeyev/zmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet performs a direct GET request against the backend and prints the response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	r.logger.Info("GET", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRequestFailed, err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	r.writePlain("Status: %d\n", resp.StatusCode)
	return r.writePlain("%s\n", string(resp.Body))
}

// APIPost performs a direct POST request with a JSON body and prints the response.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	data := cmd.String("data")

	r.logger.Info("POST", "path", path, "bytes", len(data))

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRequestFailed, err)
	}

	r.writePlain("Status: %d\n", resp.StatusCode)
	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}
	return r.writePlain("%s\n", string(resp.Body))
}
