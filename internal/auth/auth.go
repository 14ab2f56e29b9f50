// Package auth implements rasa's single-operator sign-in. Credentials are
// fixed; the resulting session is persisted so it survives restarts.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/logger"
)

// SessionKey is the storage key holding the serialized session.
const SessionKey = "rasa_auth_user"

const (
	adminUsername = "Admin"
	adminPassword = "Admin123"
	adminRole     = "Administrator"
)

// Errors returned by the session manager.
var (
	ErrInvalidCredentials = errors.New("Invalid username or password") //nolint:stylecheck // user-facing message
	ErrNotLoggedIn        = errors.New("not logged in")
)

// Store is the persistence the manager needs.
type Store interface {
	Put(key string, value any) error
	Get(key string, value any) error
	Delete(key string) error
}

// Manager owns the current session.
type Manager struct {
	store   Store
	logger  logger.Logger
	now     func() time.Time
	current *models.Session
	mu      sync.RWMutex
	loaded  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now for login timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a session manager backed by store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: logger.WithComponent("auth"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login checks the credentials and, on success, stores a new session.
func (m *Manager) Login(username, password string) (*models.Session, error) {
	if username != adminUsername || password != adminPassword {
		m.logger.Warn("Login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Username:  adminUsername,
		Role:      adminRole,
		LoginTime: m.now().UTC().Format(time.RFC3339Nano),
	}

	if err := m.store.Put(SessionKey, session); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	m.mu.Lock()
	m.current = session
	m.loaded = true
	m.mu.Unlock()

	m.logger.Info("Operator logged in", "username", session.Username)
	return cloneSession(session), nil
}

// Current returns the active session, restoring it from the store on first
// use. It returns ErrNotLoggedIn when there is none.
func (m *Manager) Current() (*models.Session, error) {
	m.mu.RLock()
	if m.loaded {
		defer m.mu.RUnlock()
		if m.current == nil {
			return nil, ErrNotLoggedIn
		}
		return cloneSession(m.current), nil
	}
	m.mu.RUnlock()

	return m.Reload()
}

// Reload discards the in-memory session and reads the persisted one again.
// A missing or unreadable document means nobody is logged in.
func (m *Manager) Reload() (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var session models.Session
	err := m.store.Get(SessionKey, &session)
	m.loaded = true
	if err != nil {
		m.current = nil
		m.logger.Debug("No persisted session", "error", err)
		return nil, ErrNotLoggedIn
	}
	if session.Username == "" {
		m.current = nil
		return nil, ErrNotLoggedIn
	}

	m.current = &session
	return cloneSession(m.current), nil
}

// Logout clears the session in memory and in the store.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(SessionKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	var username string
	if m.current != nil {
		username = m.current.Username
	}
	m.current = nil
	m.loaded = true

	m.logger.Info("Operator logged out", "username", username)
	return nil
}

// Require returns the current session or an error suitable for commands
// that need a signed-in operator.
func (m *Manager) Require() (*models.Session, error) {
	s, err := m.Current()
	if err != nil {
		return nil, fmt.Errorf("%w: run 'rasa login' first", err)
	}
	return s, nil
}

func cloneSession(s *models.Session) *models.Session {
	c := *s
	return &c
}
