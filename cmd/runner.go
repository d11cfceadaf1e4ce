package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/router"
	"github.com/desertthunder/passport/internal/services"
	"github.com/desertthunder/passport/internal/session"
	"github.com/desertthunder/passport/internal/shared"
	"github.com/desertthunder/passport/internal/stores"
	"github.com/desertthunder/passport/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	session   *session.Context
	client    *services.Client
	router    *router.Router
	users     *services.AuthService
	auth      *stores.AuthStore
	playlists *stores.PlaylistStore
	passport  *stores.PassportStore
	recs      *stores.RecommendationStore
	reports   *stores.ReportStore
	engine    *tasks.ExportEngine
	runs      models.Repository[*models.ExportRun]
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Storage    session.Storage                      // Durable session storage; in-memory when nil
	Runs       models.Repository[*models.ExportRun] // Optional export run history
}

// NewRunner creates a new Runner and wires the request pipeline, stores and router.
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
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Timeout()}
	}
	if opts.Storage == nil {
		opts.Storage = session.NewMemoryStorage()
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		session:    session.NewContext(opts.Storage),
		runs:       opts.Runs,
	}
	r.wire()
	return r
}

// wire builds the client graph. The auth store handles invalid sessions and the
// router becomes the pipeline's navigator, so both are attached after construction.
func (r *Runner) wire() {
	r.client = services.NewClient(r.config.ResolveBaseURL(), r.httpClient, r.session, r.logger)
	r.users = services.NewAuthService(r.client)

	r.auth = stores.NewAuthStore(r.users, r.session, r.logger)
	r.client.SetInvalidSessionHandler(r.auth.Invalidate)

	r.router = router.New(r.auth)
	r.client.SetNavigator(r.router)

	passportAPI := services.NewPassportService(r.client)
	r.playlists = stores.NewPlaylistStore(services.NewPlaylistService(r.client), r.auth, r.logger)
	r.passport = stores.NewPassportStore(passportAPI, r.auth, r.logger)
	r.recs = stores.NewRecommendationStore(services.NewRecommendationService(r.client), r.auth, r.logger)
	r.reports = stores.NewReportStore(services.NewReportingService(r.client, r.logger), r.auth, r.logger)
	r.engine = tasks.NewExportEngine(passportAPI, r.runs, r.logger)
}

// SetLogger replaces the logger used by the runner and every component it wired.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.wire()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistCommand, passportCommand, recsCommand, reportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Restore loads the persisted session before any command runs.
func (r *Runner) Restore(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := r.auth.Init(ctx); err != nil {
		return ctx, fmt.Errorf("failed to restore session: %w", err)
	}
	return ctx, nil
}

// requireAuth fails fast when no session is present.
func (r *Runner) requireAuth() error {
	if !r.auth.IsAuthenticated() {
		return fmt.Errorf("%w: run 'passport auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

// requireArg returns the named argument or an [shared.ErrMissingArgument] error.
func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
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
