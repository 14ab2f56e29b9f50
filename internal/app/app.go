// Package app wires rasa's components together for the command line and the
// terminal UI.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joshsymonds/rasa/internal/analyzer"
	"github.com/joshsymonds/rasa/internal/auth"
	"github.com/joshsymonds/rasa/internal/catalog"
	"github.com/joshsymonds/rasa/internal/config"
	"github.com/joshsymonds/rasa/internal/database"
	"github.com/joshsymonds/rasa/internal/storage"
	"github.com/joshsymonds/rasa/pkg/logger"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath string
	LogFormat  string
	Debug      bool
}

// App holds the components a command needs. The history database is opened
// on first use.
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	Storage  *storage.Storage
	Sessions *auth.Manager
	Catalog  *catalog.Catalog

	db     *database.DB
	dbErr  error
	dbOnce sync.Once
}

// New resolves the configuration, sets up logging and builds the components.
func New(opts Options) (*App, error) {
	cfg, err := config.Resolve(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	format := cfg.Log.Format
	if opts.LogFormat != "" {
		format = opts.LogFormat
	}
	level := cfg.Log.Level
	if opts.Debug {
		level = "debug"
	}
	logger.SetupLoggerLevel(level, format)
	log := logger.GetGlobalLogger()

	dataDir, err := cfg.DataPath()
	if err != nil {
		return nil, fmt.Errorf("resolving data_dir: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data_dir: %w", err)
	}

	cat, err := catalog.Load(catalog.Sources{
		CommandsFile:  cfg.Catalog.CommandsFile,
		IncidentsFile: cfg.Catalog.IncidentsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	store := storage.NewStorageWithLogger(dataDir, log.With("component", "storage"))

	log.Debug("Application ready", "data_dir", dataDir, "format", format)

	return &App{
		Config:   cfg,
		Logger:   log,
		Storage:  store,
		Sessions: auth.NewManager(store, auth.WithLogger(log.With("component", "auth"))),
		Catalog:  cat,
	}, nil
}

// Analyzer builds a log classifier using the configured step delay. Later
// options override the defaults.
func (a *App) Analyzer(opts ...analyzer.Option) *analyzer.Analyzer {
	base := []analyzer.Option{
		analyzer.WithStepDelay(a.Config.Analysis.StepDelay),
		analyzer.WithLogger(a.Logger.With("component", "analyzer")),
	}
	return analyzer.New(append(base, opts...)...)
}

// History opens the analysis history database. Migrations run on open.
func (a *App) History() (*database.DB, error) {
	a.dbOnce.Do(func() {
		path, err := a.Config.DatabasePath()
		if err != nil {
			a.dbErr = fmt.Errorf("resolving database path: %w", err)
			return
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			a.dbErr = fmt.Errorf("creating database directory: %w", err)
			return
		}
		a.db, a.dbErr = database.New(path, database.WithLogger(a.Logger.With("component", "history")))
		if a.dbErr == nil {
			a.Logger.Debug("History database opened", "path", path)
		}
	})
	return a.db, a.dbErr
}

// Close releases the history database if it was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
