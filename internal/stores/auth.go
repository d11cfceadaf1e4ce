package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/services"
	"github.com/desertthunder/passport/internal/session"
	"github.com/desertthunder/passport/internal/shared"
)

// AuthAPI is the subset of [services.AuthService] used by [AuthStore].
type AuthAPI interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Logout(ctx context.Context) (string, error)
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// AuthStore owns the session and identity. It is the only writer of the durable session.
type AuthStore struct {
	api     AuthAPI
	session *session.Context
	logger  *log.Logger

	mu      sync.RWMutex
	state   session.State
	loading bool
	err     string
}

// NewAuthStore creates a logged-out AuthStore. Call [AuthStore.Init] to restore a saved session.
func NewAuthStore(api AuthAPI, sc *session.Context, logger *log.Logger) *AuthStore {
	return &AuthStore{api: api, session: sc, logger: storeLogger(logger, "auth")}
}

// Init restores the persisted session when both user and token are present.
func (s *AuthStore) Init(ctx context.Context) error {
	st, err := s.session.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Valid() {
		s.state = st
	}
	return nil
}

// Register creates an account and then logs in with the same credentials.
func (s *AuthStore) Register(ctx context.Context, username, password string) error {
	done := s.begin()
	if err := shared.ValidateStruct(credentials{Username: username, Password: password}); err != nil {
		done(err, "Registration failed")
		return err
	}

	if _, err := s.api.Register(ctx, username, password); err != nil {
		s.logger.Error("registration failed", "username", username, "error", err)
		done(err, "Registration failed")
		return err
	}
	done(nil, "")

	return s.Login(ctx, username, password)
}

// Login authenticates and persists user, username and token together.
func (s *AuthStore) Login(ctx context.Context, username, password string) error {
	done := s.begin()
	if err := shared.ValidateStruct(credentials{Username: username, Password: password}); err != nil {
		done(err, "Login failed")
		return err
	}

	res, err := s.api.Login(ctx, username, password)
	if err == nil && (res.User == "" || res.Session == "") {
		err = fmt.Errorf("%w: login response missing user or session", shared.ErrAuthFailed)
	}
	if err != nil {
		s.logger.Error("login failed", "username", username, "error", err)
		done(err, "Login failed")
		return err
	}

	st := session.State{UserID: res.User, Username: username, Token: res.Session}
	if err := s.session.Save(ctx, st); err != nil {
		done(err, "Login failed")
		return err
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	done(nil, "")

	s.logger.Info("logged in", "username", username, "user", res.User)
	return nil
}

// Logout ends the session on the backend and always clears local state,
// even when the backend call fails.
func (s *AuthStore) Logout(ctx context.Context) error {
	done := s.begin()
	defer done(nil, "")

	if s.Session() != "" {
		if _, err := s.api.Logout(ctx); err != nil {
			s.logger.Warn("logout request failed", "error", err)
		}
	}
	return s.Invalidate(ctx)
}

// Invalidate drops the session locally and from durable storage.
// The request pipeline calls it when the backend rejects the token.
func (s *AuthStore) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.state = session.State{}
	s.mu.Unlock()

	return s.session.Clear(ctx)
}

// IsAuthenticated reports whether both user and session are present.
func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Valid()
}

func (s *AuthStore) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

func (s *AuthStore) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Username
}

func (s *AuthStore) Session() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *AuthStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last error message, or "".
func (s *AuthStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// begin marks the store loading and clears the error. The returned func ends the action.
func (s *AuthStore) begin() func(err error, fallback string) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	return func(err error, fallback string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = false
		if err != nil {
			s.err = errorText(err, fallback)
		}
	}
}
