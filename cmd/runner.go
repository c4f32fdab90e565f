package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/avdeyev/zmx/internal/services"
	"github.com/avdeyev/zmx/internal/session"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/avdeyev/zmx/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	svc        services.Service
	api        *services.APIService
	session    *session.Store
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.NoteEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Service    services.Service
	API        *services.APIService
	Session    *session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Cache      tasks.CacheStore
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	engine := tasks.NewNoteEngine(opts.Service, opts.Cache, opts.Logger)

	return &Runner{
		config:     opts.Config,
		svc:        opts.Service,
		api:        opts.API,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// requireUser returns the authenticated user's ID or fails when no session exists.
func (r *Runner) requireUser() (int, error) {
	if r.session == nil || !r.session.Authenticated() {
		return 0, fmt.Errorf("%w: run 'zmx auth login' first", shared.ErrNotAuthenticated)
	}

	ident := r.session.Current().Identity
	if ident == nil || ident.UserID == 0 {
		return 0, fmt.Errorf("%w: session has no user identity", shared.ErrSessionCorrupt)
	}

	return ident.UserID, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, folderCommand, noteCommand, exportCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
