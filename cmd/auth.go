package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeyev/zmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges a username and password for tokens and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.String("password")

	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "username", username)

	if err := r.session.Login(ctx, username, password); err != nil {
		return err
	}

	return r.writePlain("✓ Logged in as %s\n", r.session.DisplayName())
}

// AuthRegister creates an account and logs in with the new credentials.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.String("password")
	confirm := cmd.String("confirm")

	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}
	if confirm == "" {
		confirm = password
	}

	r.logger.Info("registering account", "username", username)

	if err := r.session.Register(ctx, username, password, confirm); err != nil {
		return err
	}

	r.writePlain("✓ Account created\n")

	if err := r.session.Login(ctx, username, password); err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}

	return r.writePlain("✓ Logged in as %s\n", r.session.DisplayName())
}

// AuthLogout clears the session from memory and disk.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return fmt.Errorf("%w: nothing to log out", shared.ErrNotAuthenticated)
	}

	name := r.session.DisplayName()
	if err := r.session.Logout(); err != nil {
		return err
	}

	r.logger.Info("logged out", "username", name)
	return r.writePlain("✓ Logged out %s\n", name)
}

// AuthStatus shows the current session state without making network calls.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	sess := r.session.Current()

	if !sess.Authenticated() {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		return r.writePlain("Run 'zmx auth login <username>' to log in.\n")
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	r.writePlain("User: %s\n", sess.DisplayName())
	if sess.Identity != nil && sess.Identity.UserID != 0 {
		r.writePlain("User ID: %d\n", sess.Identity.UserID)
	}
	if !sess.ExpiresAt.IsZero() {
		if sess.Expired(time.Now()) {
			r.writePlain("Token: expired at %s\n", sess.ExpiresAt.Format(time.RFC3339))
		} else {
			r.writePlain("Token: valid until %s\n", sess.ExpiresAt.Format(time.RFC3339))
		}
	}

	return nil
}

// AuthImport extracts tokens from a browser session captured as a cURL command.
//
// The web client keeps access_token and refresh_token in cookies, so a
// "Copy as cURL" from DevTools carries everything a logged-in session needs.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for session cookies")

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	access := curlHeaders.CookieValue("access_token")
	refresh := curlHeaders.CookieValue("refresh_token")

	if access == "" {
		return fmt.Errorf("%w: no access_token cookie in cURL command", shared.ErrInvalidArgument)
	}

	if err := r.session.Import(access, refresh); err != nil {
		return err
	}

	r.logger.Info("session imported", "username", r.session.DisplayName())
	return r.writePlain("✓ Session imported for %s\n", r.session.DisplayName())
}
