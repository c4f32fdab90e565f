// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with username and password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "confirm",
						Usage: "Password confirmation (defaults to --password)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Import tokens from a browser session (Copy as cURL)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// folderCommand handles folder operations
func folderCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "folder",
		Aliases: []string{"f"},
		Usage:   "Folder operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a folder",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "color",
						Usage: "Folder color (hex)",
						Value: "#FFFFFF",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make folder public",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Password protecting the folder",
					},
				},
				Action: r.FolderCreate,
			},
			{
				Name:  "list",
				Usage: "List your folders",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.FolderList,
			},
		},
	}
}

// noteCommand handles note operations including batched move and delete
func noteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "note",
		Aliases: []string{"n"},
		Usage:   "Note operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a note in a folder",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "folder",
						Usage:    "Folder ID to create the note in",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "text",
						Usage:    "Note body",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make note public",
					},
				},
				Action: r.NoteCreate,
			},
			{
				Name:  "list",
				Usage: "List the notes of a folder",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "folder",
						Usage:    "Folder ID to list",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.NoteList,
			},
			{
				Name:  "move",
				Usage: "Move a batch of notes to another folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "ids",
						Usage:    "Comma-separated note IDs",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "to",
						Usage:    "Target folder ID",
						Required: true,
					},
				},
				Action: r.NoteMove,
			},
			{
				Name:  "delete",
				Usage: "Delete a batch of notes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "ids",
						Usage:    "Comma-separated note IDs",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.NoteDelete,
			},
		},
	}
}

// exportCommand handles bulk folder exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all folders and notes to local files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, markdown, txt)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Requests per second against the backend",
			},
		},
		Action: r.ExportRun,
	}
}

// cacheCommand handles the local folder/note cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache folders and notes locally",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch all folders and notes into the local database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.CacheSync,
			},
			{
				Name:  "list",
				Usage: "List cached folders and note counts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
		},
	}
}

// apiCommand handles direct API calls against the backend
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the Zametka backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive note management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and bulk-editing notes",
		Action:  r.TUI,
	}
}
