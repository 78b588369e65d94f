package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/repositories"
	"github.com/desertthunder/hymns/internal/services"
	"github.com/desertthunder/hymns/internal/shared"
	"github.com/desertthunder/hymns/internal/store"
	"github.com/urfave/cli/v3"
)

// History is the recent-hymns store used by the hymn, recent and tui commands. Implemented by [store.HistoryStore].
type History interface {
	StoreRecentSong(ctx context.Context, id models.Identifier, title string) error
	RecentSongs(ctx context.Context, limit int) ([]models.RecentSong, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage and remote collaborators are opened lazily by [Runner.connect] unless injected through [RunnerOpts].
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	db          *sql.DB
	ownsStore   bool
	ownsHistory bool
	store       repositories.DataStore
	history     History
	service     services.Service
	probe       repositories.NetworkProbe
	hymns       *repositories.HymnsRepository
	songs       *repositories.SongResultsRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Store      repositories.DataStore
	History    History
	Service    services.Service
	Probe      repositories.NetworkProbe
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
		history:    opts.History,
		service:    opts.Service,
		probe:      opts.Probe,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, hymnCommand, searchCommand, recentCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger. Must be called before [Runner.connect].
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// connect opens the database and remote service that were not injected, then builds the repositories.
func (r *Runner) connect(ctx context.Context) error {
	if r.store == nil || r.history == nil {
		if r.db == nil {
			db, err := shared.NewDatabase(r.config.Database.Path)
			if err != nil {
				return fmt.Errorf("%w: %w", shared.ErrStorageUnavailable, err)
			}
			shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
			if err := shared.RunMigrations(db); err != nil {
				db.Close()
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			r.db = db
		}
		if r.store == nil {
			r.store = store.NewHymnStore(r.db)
			r.ownsStore = true
		}
		if r.history == nil {
			r.history = store.NewHistoryStore(r.db)
			r.ownsHistory = true
		}
	}

	if r.service == nil {
		client := services.NewHTTPClient(ctx, r.config.Remote)
		r.service = services.NewHymnalService(r.config.Remote.BaseURL, client, r.config.Remote.RateLimit)
	}
	if r.probe == nil {
		r.probe = services.NewNetworkProbe(r.config.Remote.ProbeAddress, r.config.Remote.ProbeInterval())
	}

	r.logger.Debug("connected", "service", r.service.Name(), "database", r.config.Database.Path)

	deps := repositories.Dependencies{
		Store:   r.store,
		Service: r.service,
		Probe:   r.probe,
		Logger:  r.logger,
	}
	r.hymns = repositories.NewHymnsRepository(deps)
	r.songs = repositories.NewSongResultsRepository(deps)
	return nil
}

// close releases the database opened by [Runner.connect], if any, along with the stores built on it.
func (r *Runner) close() {
	if r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		r.logger.Warn("failed to close database", "error", err)
	}
	r.db = nil

	if r.ownsStore {
		r.store, r.ownsStore = nil, false
	}
	if r.ownsHistory {
		r.history, r.ownsHistory = nil, false
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return r.writeBytes(output)
}

// writeBytes writes pre-rendered output followed by a newline when it lacks one.
func (r *Runner) writeBytes(output []byte) error {
	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if len(output) > 0 && output[len(output)-1] == '\n' {
		return nil
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
