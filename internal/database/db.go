// Package database keeps rasa's analysis history in SQLite.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/joshsymonds/rasa/pkg/logger"
)

// DB is the history store. Queries go through the embedded *sql.DB.
type DB struct {
	*sql.DB

	log       logger.Logger
	path      string
	closeOnce sync.Once
	closeErr  error
}

type settings struct {
	log         logger.Logger
	maxConns    int
	busyTimeout time.Duration
}

// Option tunes how the history database is opened.
type Option func(*settings)

// WithMaxConnections caps the connection pool.
func WithMaxConnections(n int) Option {
	return func(s *settings) {
		s.maxConns = n
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.busyTimeout = timeout
	}
}

// WithLogger sets the logger used for migration messages.
func WithLogger(log logger.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

func defaultSettings() settings {
	return settings{
		log:         logger.GetGlobalLogger(),
		maxConns:    4,
		busyTimeout: 5 * time.Second,
	}
}

// tuning applies to the whole database file, unlike foreign_keys which
// SQLite scopes to a connection and so lives in the DSN.
var tuning = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA temp_store = MEMORY",
}

// New opens the history database at path and brings its schema up to date.
func New(path string, opts ...Option) (*DB, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	conn, err := sql.Open("sqlite3", dsn(path, s.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	conn.SetMaxOpenConns(max(s.maxConns, 1))
	conn.SetMaxIdleConns(max(s.maxConns/2, 1))

	db := &DB{DB: conn, path: path, log: s.log}
	if err := db.prepare(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// NewMemoryDB opens a private in-memory database. The name is unique per
// call and shared-cache mode lets every pooled connection reach it.
func NewMemoryDB(opts ...Option) (*DB, error) {
	return New("file:rasa-"+uuid.NewString()+"?mode=memory&cache=shared", opts...)
}

func dsn(path string, busy time.Duration) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_foreign_keys=on", path, sep, busy.Milliseconds())
}

func (db *DB) prepare(ctx context.Context) error {
	for _, pragma := range tuning {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating %s: %w", db.path, err)
	}
	return nil
}

// Path is the location the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Close closes the pool. Later calls return the first result.
func (db *DB) Close() error {
	db.closeOnce.Do(func() {
		db.closeErr = db.DB.Close()
	})
	return db.closeErr
}

// InTransaction runs fn inside a transaction, committing only if fn
// returns nil.
func (db *DB) InTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
