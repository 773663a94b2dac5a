// Package session owns the authenticated-identity state machine: login,
// registration, logout, and restoration of a persisted session at startup.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/credstore"
	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
)

// State is the AuthSession lifecycle state.
type State int

const (
	StateAnonymous State = iota
	StateRestoring
	StateAuthenticating
	StateAuthenticated
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateRestoring:
		return "restoring"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// AuthSession tracks who is signed in. It is constructed explicitly and
// injected into the components that need identity, rather than living as a
// process-wide singleton.
type AuthSession struct {
	client *api.Client
	store  credstore.Store
	logger *zap.Logger

	mu    sync.Mutex
	state State
	user  *domain.UserIdentity
}

// New wires an AuthSession to the client and credential store. The client's
// session-end hook is claimed here: an unrecoverable refresh failure
// anywhere forces this session back to anonymous.
func New(client *api.Client, store credstore.Store, logger *zap.Logger) *AuthSession {
	s := &AuthSession{
		client: client,
		store:  store,
		logger: logger,
		state:  StateAnonymous,
	}
	client.OnSessionEnd(s.forceAnonymous)
	return s
}

// Restore loads a persisted session at startup. With nothing persisted the
// session settles in the anonymous state without error.
func (s *AuthSession) Restore(ctx context.Context) error {
	s.setState(StateRestoring)

	sess, user, err := s.store.Load(ctx)
	if err != nil {
		s.setState(StateAnonymous)
		if errors.Is(err, credstore.ErrNoSession) {
			return nil
		}
		return fmt.Errorf("failed to restore session: %w", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.mu.Unlock()

	s.logger.Info("session restored",
		zap.String("user_id", userID(user)),
		zap.Bool("access_token_expired", sess.IsExpired()),
	)
	return nil
}

// Login authenticates with the portal. On failure the session returns to
// anonymous and the reason is surfaced; there is no automatic retry.
func (s *AuthSession) Login(ctx context.Context, email, password string) (*domain.UserIdentity, error) {
	s.setState(StateAuthenticating)

	req := dto.LoginRequest{Email: sanitizeEmail(email), Password: password}
	var resp dto.LoginResponse
	if err := s.client.PostPublic(ctx, "/auth/login/", req, &resp); err != nil {
		s.setState(StateAnonymous)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.establish(ctx, resp.Access, resp.Refresh, resp.User)
}

// Register validates the fields locally, then creates the account. Backend
// field errors are surfaced verbatim.
func (s *AuthSession) Register(ctx context.Context, req dto.RegisterRequest) (*domain.UserIdentity, error) {
	if verr := validateRegistration(req); verr != nil {
		return nil, verr
	}
	req.Email = sanitizeEmail(req.Email)
	if req.Role == "" {
		req.Role = domain.RolePatient
	}

	s.setState(StateAuthenticating)

	var resp dto.RegisterResponse
	if err := s.client.PostPublic(ctx, "/auth/register/", req, &resp); err != nil {
		s.setState(StateAnonymous)
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.establish(ctx, resp.Tokens.Access, resp.Tokens.Refresh, resp.User)
}

// Logout notifies the backend best-effort, then tears the session down
// locally. Endpoint failure never blocks the teardown.
func (s *AuthSession) Logout(ctx context.Context) error {
	s.setState(StateTerminating)

	if sess, _, err := s.store.Load(ctx); err == nil {
		req := dto.LogoutRequest{Refresh: sess.RefreshToken}
		if err := s.client.Post(ctx, "/auth/logout/", req, nil); err != nil {
			s.logger.Warn("logout endpoint failed, proceeding with local teardown", zap.Error(err))
		}
	}

	if err := s.store.Clear(ctx); err != nil {
		s.setState(StateAnonymous)
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.mu.Unlock()

	s.logger.Info("logged out")
	return nil
}

// Profile fetches the identity record from the backend and refreshes the
// cached copy.
func (s *AuthSession) Profile(ctx context.Context) (*domain.UserIdentity, error) {
	var resp dto.ProfileResponse
	if err := s.client.Get(ctx, "/auth/profile/", &resp); err != nil {
		return nil, err
	}
	if resp.User != nil {
		s.cacheUser(ctx, resp.User)
	}
	return resp.User, nil
}

// UpdateProfile patches the identity record, then refetches it so the cache
// reflects what the server actually stored.
func (s *AuthSession) UpdateProfile(ctx context.Context, patch dto.ProfileUpdateRequest) (*domain.UserIdentity, error) {
	if err := s.client.Patch(ctx, "/auth/profile/", patch, nil); err != nil {
		return nil, err
	}
	return s.Profile(ctx)
}

// ChangePassword replaces the account password. The new password is checked
// locally before transmission.
func (s *AuthSession) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if verr := validateNewPassword(newPassword); verr != nil {
		return verr
	}
	req := dto.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	return s.client.Post(ctx, "/auth/change-password/", req, nil)
}

// CurrentUser returns a copy of the cached identity, or nil when anonymous.
func (s *AuthSession) CurrentUser() *domain.UserIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// State returns the current lifecycle state.
func (s *AuthSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether a user is signed in.
func (s *AuthSession) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// establish persists the credentials and identity atomically and moves to
// the authenticated state.
func (s *AuthSession) establish(ctx context.Context, access, refresh string, user *domain.UserIdentity) (*domain.UserIdentity, error) {
	sess := api.NewSession(access, refresh)
	if err := s.store.Save(ctx, sess, user); err != nil {
		s.setState(StateAnonymous)
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.mu.Unlock()

	s.logger.Info("authenticated",
		zap.String("user_id", userID(user)),
		zap.String("role", role(user)),
	)
	return user, nil
}

func (s *AuthSession) cacheUser(ctx context.Context, user *domain.UserIdentity) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	if sess, _, err := s.store.Load(ctx); err == nil {
		if err := s.store.Save(ctx, sess, user); err != nil {
			s.logger.Warn("failed to persist refreshed identity", zap.Error(err))
		}
	}
}

// forceAnonymous is the session-end hook: the client has already cleared
// the credential store after an unrecoverable refresh failure.
func (s *AuthSession) forceAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.mu.Unlock()
	s.logger.Warn("session terminated, authorization could not be restored")
}

func (s *AuthSession) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func userID(u *domain.UserIdentity) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func role(u *domain.UserIdentity) string {
	if u == nil {
		return ""
	}
	return string(u.Role)
}
