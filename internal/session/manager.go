package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/upca/personnel-console/internal/core/access"
)

// Backend is the server contract the manager talks to. Login must map an
// unknown email and a wrong password to ErrInvalidCredential, and transport
// or server failures to ErrBackendUnavailable.
type Backend interface {
	Login(ctx context.Context, email, password string) (*User, error)
	Permissions(ctx context.Context) ([]access.Record, error)
	Logout(ctx context.Context) error
}

// Manager owns the process-wide session. It is the only writer of the store.
type Manager struct {
	backend  Backend
	store    Store
	notifier Notifier
	logger   *slog.Logger

	mu    sync.RWMutex
	state State
	user  *User
	perms []access.Record
	// gen changes on every login and logout so late results of an older
	// session are dropped.
	gen uint64
}

func NewManager(backend Backend, store Store, notifier Notifier, logger *slog.Logger) *Manager {
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Manager{
		backend:  backend,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns a copy of the session when authenticated.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Authenticated || m.user == nil {
		return Session{}, false
	}
	return Session{User: *m.user, Permissions: slices.Clone(m.perms)}, true
}

// ActorID is the id stamped as author on new records.
func (m *Manager) ActorID() (string, bool) {
	s, ok := m.Current()
	return s.User.ID, ok
}

func (m *Manager) Can(module access.Module, action access.Action) bool {
	s, ok := m.Current()
	return ok && s.Can(module, action)
}

// Login verifies the credential with the backend, then loads permissions.
// A permission failure leaves the login in place with no permissions.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	if m.state == Authenticating {
		m.mu.Unlock()
		m.notifier.Notify(LevelError, msgLoginInProgress)
		return ErrLoginInProgress
	}
	previous := m.state
	m.state = Authenticating
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	user, err := m.backend.Login(ctx, email, password)
	if err != nil {
		m.mu.Lock()
		if m.gen == gen {
			m.state = previous
		}
		m.mu.Unlock()
		return m.loginFailed(ctx, err)
	}

	perms, err := m.backend.Permissions(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "permission load failed after login", "user_id", user.ID, "error", err)
		m.notifier.Notify(LevelError, msgPermissionsFailed)
		perms = nil
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	m.state = Authenticated
	m.user = &User{ID: user.ID, Email: user.Email, Role: user.Role}
	m.perms = perms
	m.mu.Unlock()

	if err := m.store.Save(*user); err != nil {
		m.logger.WarnContext(ctx, "session not persisted", "error", err)
		m.notifier.Notify(LevelError, msgStoreFailed)
	}

	m.logger.InfoContext(ctx, "signed in", "user_id", user.ID, "role", user.Role)
	m.notifier.Notify(LevelSuccess, "Welcome, "+user.Email)
	return nil
}

func (m *Manager) loginFailed(ctx context.Context, err error) error {
	if errors.Is(err, ErrInvalidCredential) {
		m.logger.InfoContext(ctx, "sign in rejected")
		m.notifier.Notify(LevelError, msgLoginFailed)
		return ErrInvalidCredential
	}
	m.logger.WarnContext(ctx, "sign in failed", "error", err)
	m.notifier.Notify(LevelError, msgBackendUnavailable)
	if errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	return errors.Join(ErrBackendUnavailable, err)
}

// Logout clears memory and durable storage. Logging out while anonymous
// does nothing.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.state == Anonymous {
		m.mu.Unlock()
		return nil
	}
	m.state = Anonymous
	m.user = nil
	m.perms = nil
	m.gen++
	m.mu.Unlock()

	if err := m.backend.Logout(ctx); err != nil {
		m.logger.WarnContext(ctx, "server logout failed", "error", err)
	}
	if err := m.store.Clear(); err != nil {
		m.logger.WarnContext(ctx, "session store not cleared", "error", err)
		m.notifier.Notify(LevelError, msgStoreFailed)
		return err
	}

	m.notifier.Notify(LevelInfo, msgLoggedOut)
	return nil
}

// Restore rebuilds the session from durable storage without touching the
// network. Permissions start empty until RefreshPermissions succeeds.
func (m *Manager) Restore(ctx context.Context) bool {
	user, err := m.store.Load()
	if err != nil {
		m.logger.WarnContext(ctx, "stored session discarded", "error", err)
		if err := m.store.Clear(); err != nil {
			m.logger.WarnContext(ctx, "session store not cleared", "error", err)
		}
		m.notifier.Notify(LevelError, msgSessionDiscarded)
		return false
	}
	if user == nil {
		return false
	}

	m.mu.Lock()
	m.state = Authenticated
	m.user = user
	m.perms = nil
	m.gen++
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "session restored", "user_id", user.ID)
	m.notifier.Notify(LevelInfo, msgRestored)
	return true
}

// RefreshPermissions reloads the permission records of the current session.
// On failure the identity stays and the current records are kept.
func (m *Manager) RefreshPermissions(ctx context.Context) error {
	m.mu.RLock()
	authenticated, gen := m.state == Authenticated, m.gen
	m.mu.RUnlock()
	if !authenticated {
		return ErrNotAuthenticated
	}

	perms, err := m.backend.Permissions(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "permission refresh failed", "error", err)
		m.notifier.Notify(LevelError, msgPermissionsFailed)
		return err
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	m.perms = perms
	m.mu.Unlock()

	m.notifier.Notify(LevelInfo, msgPermissionsLoaded)
	return nil
}

// RestoreAndRefresh restores synchronously and refreshes permissions in the
// background. The channel yields the refresh result once, or is closed
// straight away when there was nothing to restore.
func (m *Manager) RestoreAndRefresh(ctx context.Context) (bool, <-chan error) {
	done := make(chan error, 1)
	if !m.Restore(ctx) {
		close(done)
		return false, done
	}
	go func() {
		defer close(done)
		done <- m.RefreshPermissions(ctx)
	}()
	return true, done
}
