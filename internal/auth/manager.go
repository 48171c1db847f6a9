package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebarkhatov/kbkeeper/internal/config"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/internal/store"
	"github.com/ebarkhatov/kbkeeper/models"
)

// Seed credentials created on first run so the application is usable before
// any account is registered.
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "admin"
)

// Manager owns the authentication state of the process: the current user,
// the volatile and durable session copies, and the lockout bookkeeping.
// It is the single explicit entry point for everything auth; no package
// globals exist, so tests construct as many independent managers as they
// need.
//
// The manager moves between exactly two states, anonymous and
// authenticated. Each authenticated period has its own session context,
// cancelled on logout or expiry, so in-flight work scoped to a session stops
// when the session does.
type Manager struct {
	users            store.UserRepository
	sessions         store.SessionStore
	rememberSessions store.RememberSessionStore
	tokens           *TokenIssuer
	cfg              config.ClientAuth
	logger           *logger.Logger
	now              func() time.Time

	mu          sync.RWMutex
	currentUser *models.User
	sessionCtx  context.Context
	cancel      context.CancelFunc
	onExpired   func()
}

// NewManager constructs a Manager and seeds the admin/admin account when the
// credential store is empty.
func NewManager(
	ctx context.Context,
	storages *store.Storages,
	cfg config.ClientAuth,
	log *logger.Logger,
) (*Manager, error) {
	tokens, err := NewTokenIssuer(cfg.TokenSignKey, cfg.TokenIssuer, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("create token issuer: %w", err)
	}

	m := &Manager{
		users:            storages.Users,
		sessions:         storages.Sessions,
		rememberSessions: storages.RememberSessions,
		tokens:           tokens,
		cfg:              cfg,
		logger:           log,
		now:              time.Now,
	}

	if err := m.seedAdmin(ctx); err != nil {
		return nil, fmt.Errorf("seed admin account: %w", err)
	}

	return m, nil
}

// seedAdmin creates the built-in admin account when no accounts exist yet.
func (m *Manager) seedAdmin(ctx context.Context) error {
	count, err := m.users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(seedAdminPassword)
	if err != nil {
		return err
	}

	_, err = m.users.CreateUser(ctx, models.User{
		Username:     seedAdminUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    m.now(),
	})
	if errors.Is(err, store.ErrUsernameAlreadyExists) {
		// Another process seeded between the count and the insert.
		return nil
	}
	if err != nil {
		return err
	}

	m.logger.Info().Str("username", seedAdminUsername).Msg("seeded built-in admin account")
	return nil
}

// OnSessionExpired registers cb to run whenever the manager detects that the
// active session has expired. At most one callback is held; a later call
// replaces the earlier one.
func (m *Manager) OnSessionExpired(cb func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpired = cb
}

// Register creates a new account with role user. It validates that password
// and confirm match and that the password meets the minimum length. The new
// account is not logged in.
func (m *Manager) Register(ctx context.Context, username, password, confirm string) (models.User, error) {
	if password != confirm {
		return models.User{}, ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return models.User{}, ErrPasswordTooShort
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := m.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    m.now(),
	})
	if errors.Is(err, store.ErrUsernameAlreadyExists) {
		return models.User{}, ErrUsernameTaken
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	m.logger.Info().Str("username", username).Int64("user_id", user.ID).Msg("registered new user")
	return user, nil
}

// Login authenticates username/password and, on success, establishes an
// authenticated session. When rememberMe is set a durable session copy is
// persisted so the next process start can restore it; otherwise any
// previously remembered session is discarded.
//
// Failure modes:
//   - ErrUserNotFound when no such account exists.
//   - *LockedError while the account lock is in force. An expired lock is
//     cleared (and persisted) before the password is checked.
//   - *InvalidCredentialsError on a wrong password. The failed attempt is
//     recorded; reaching the attempt limit locks the account.
func (m *Manager) Login(ctx context.Context, username, password string, rememberMe bool) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.users.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}

	now := m.now()

	if user.LockedUntil != nil {
		if now.Before(*user.LockedUntil) {
			remaining := user.LockedUntil.Sub(now)
			minutes := int((remaining + time.Minute - 1) / time.Minute)
			return models.User{}, &LockedError{Minutes: minutes}
		}

		// The lock has run out. Heal the record before checking the
		// password so stale locks never outlive their duration.
		user.LoginAttempts = 0
		user.LockedUntil = nil
		if err := m.users.SaveLoginState(ctx, user); err != nil {
			return models.User{}, fmt.Errorf("clear expired lock: %w", err)
		}
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return models.User{}, fmt.Errorf("verify password: %w", err)
	}

	if !ok {
		user.LoginAttempts++
		if user.LoginAttempts >= m.cfg.MaxLoginAttempts {
			lockedUntil := now.Add(m.cfg.LockoutDuration)
			user.LockedUntil = &lockedUntil
		}
		if err := m.users.SaveLoginState(ctx, user); err != nil {
			return models.User{}, fmt.Errorf("record failed attempt: %w", err)
		}

		remaining := m.cfg.MaxLoginAttempts - user.LoginAttempts
		if remaining < 0 {
			remaining = 0
		}
		return models.User{}, &InvalidCredentialsError{Remaining: remaining}
	}

	user.LoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	if err := m.users.SaveLoginState(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("record successful login: %w", err)
	}

	token, err := m.tokens.Issue(user.ID, userAgent())
	if err != nil {
		return models.User{}, fmt.Errorf("issue session token: %w", err)
	}

	session := models.Session{
		UserID:    user.ID,
		Token:     token,
		CreatedAt: now,
		UserAgent: userAgent(),
	}

	m.sessions.Put(session)
	if rememberMe {
		if err := m.rememberSessions.Save(ctx, session); err != nil {
			m.logger.Err(err).Msg("failed to persist remembered session")
		}
	} else if err := m.rememberSessions.Delete(ctx); err != nil {
		m.logger.Err(err).Msg("failed to discard stale remembered session")
	}

	m.becomeAuthenticatedLocked(user)

	m.logger.Info().
		Str("username", user.Username).
		Int64("user_id", user.ID).
		Bool("remember_me", rememberMe).
		Msg("user logged in")

	return user, nil
}

// Logout ends the active session: both session copies are erased, the
// session context is cancelled, and the manager returns to anonymous.
// Logging out while anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentUser != nil {
		m.logger.Info().Str("username", m.currentUser.Username).Msg("user logged out")
	}

	m.sessions.Clear()
	if err := m.rememberSessions.Delete(ctx); err != nil {
		m.logger.Err(err).Msg("failed to delete remembered session on logout")
	}

	m.becomeAnonymousLocked()
}

// RestoreSession re-evaluates session validity. It is called once at startup
// and then periodically by the revalidation job.
//
// The volatile session is checked first; when it is absent or invalid the
// durable remembered copy is tried under the same check and, if valid,
// renewed into volatile storage. An invalid durable copy is erased. When an
// active session turns out to be expired the manager cancels the session
// context, fires the expiry callback, and returns to anonymous. Storage or
// parse failures degrade to anonymous rather than erroring out.
func (m *Manager) RestoreSession(ctx context.Context) models.User {
	m.mu.Lock()

	wasAuthenticated := m.currentUser != nil

	if user, ok := m.restoreLocked(ctx); ok {
		m.mu.Unlock()
		return user
	}

	var cb func()
	if wasAuthenticated {
		cb = m.onExpired
		m.logger.Info().Msg("session expired")
	}
	m.sessions.Clear()
	m.becomeAnonymousLocked()
	m.mu.Unlock()

	if cb != nil {
		cb()
	}

	return models.User{}
}

func (m *Manager) restoreLocked(ctx context.Context) (models.User, bool) {
	if session, ok := m.sessions.Get(); ok {
		if user, ok := m.validateSessionLocked(ctx, session); ok {
			return user, true
		}
	}

	session, err := m.rememberSessions.Get(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrRememberSessionNotFound) {
			m.logger.Err(err).Msg("failed to read remembered session")
		}
		return models.User{}, false
	}

	user, ok := m.validateSessionLocked(ctx, session)
	if !ok {
		if err := m.rememberSessions.Delete(ctx); err != nil {
			m.logger.Err(err).Msg("failed to erase invalid remembered session")
		}
		return models.User{}, false
	}

	// The remembered copy is valid. Renew it into the volatile store so the
	// rest of this run works from memory.
	m.sessions.Put(session)
	return user, true
}

// validateSessionLocked checks the token and resolves its user. It leaves
// the manager authenticated as that user on success.
func (m *Manager) validateSessionLocked(ctx context.Context, session models.Session) (models.User, bool) {
	userID, err := m.tokens.Validate(session.Token)
	if err != nil {
		return models.User{}, false
	}
	if userID != session.UserID {
		return models.User{}, false
	}

	user, err := m.users.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			m.logger.Err(err).Int64("user_id", userID).Msg("failed to resolve session user")
		}
		return models.User{}, false
	}

	if m.currentUser == nil || m.currentUser.ID != user.ID {
		m.becomeAuthenticatedLocked(user)
	} else {
		*m.currentUser = user
	}

	return user, true
}

func (m *Manager) becomeAuthenticatedLocked(user models.User) {
	if m.cancel != nil {
		m.cancel()
	}
	m.sessionCtx, m.cancel = context.WithCancel(context.Background())
	m.currentUser = &user
}

func (m *Manager) becomeAnonymousLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.sessionCtx = nil
	m.currentUser = nil
}

// CurrentUser returns the authenticated user, or false when anonymous.
func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.currentUser == nil {
		return models.User{}, false
	}
	return *m.currentUser, true
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.CurrentUser()
	return ok
}

// SessionContext returns the context scoped to the active session. It is
// cancelled on logout or expiry. While anonymous a pre-cancelled context is
// returned, so session-scoped work started without a session fails fast.
func (m *Manager) SessionContext() context.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.sessionCtx == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return m.sessionCtx
}

// HasPermission reports whether the current user holds the capability.
// Anonymous users hold none.
func (m *Manager) HasPermission(capability Capability) bool {
	user, ok := m.CurrentUser()
	if !ok {
		return false
	}
	return Allow(user.Role, capability)
}

// CanEditPost reports whether the current user may edit a post created by
// author: admins may edit anything, others only their own posts.
func (m *Manager) CanEditPost(author string) bool {
	user, ok := m.CurrentUser()
	if !ok {
		return false
	}
	return user.IsAdmin() || user.Username == author
}

// CanDeletePost reports whether the current user may delete a post created
// by author. Same rule as CanEditPost.
func (m *Manager) CanDeletePost(author string) bool {
	return m.CanEditPost(author)
}

// Reset returns the manager to a pristine anonymous state, erasing both
// session copies. Intended for tests and full client resets.
func (m *Manager) Reset(ctx context.Context) {
	m.Logout(ctx)
}

// Close releases the manager's resources. The manager must not be used
// afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.becomeAnonymousLocked()
}

// userAgent identifies this client build in issued session tokens.
func userAgent() string {
	return "kbkeeper-cli/1.0"
}
