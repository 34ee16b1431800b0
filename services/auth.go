package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lborres/khuluma/core"
	"github.com/lborres/khuluma/pkg/crypto"
)

type AuthService struct {
	config         core.SessionConfig
	db             sessionStore
	passwordHasher crypto.PasswordHandler
	validator      *SessionValidator
	clock          core.Clock
	logger         *zap.Logger
}

// Ensure AuthService implements AuthHandler
var _ core.AuthHandler = (*AuthService)(nil)

func NewAuthService(config core.SessionConfig, db sessionStore, passwordHasher crypto.PasswordHandler, validator *SessionValidator, clock core.Clock, logger *zap.Logger) *AuthService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		config:         config.WithDefaults(),
		db:             db,
		passwordHasher: passwordHasher,
		validator:      validator,
		clock:          clock,
		logger:         logger,
	}
}

// Login authenticates a client with email and password and issues a new
// session token.
func (s *AuthService) Login(ctx context.Context, input core.LoginInput) (*core.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, core.ErrEmailRequired
	}
	if input.Password == "" {
		return nil, core.ErrPasswordRequired
	}

	// Step 1: Find the client by email
	client, err := s.db.GetClientByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrClientNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}

	// Step 2: Verify the password
	valid, err := s.passwordHasher.Verify(input.Password, client.PasswordHash)
	if err != nil {
		s.logger.Warn("stored password hash rejected",
			zap.Int64("client_id", int64(client.ID)),
			zap.Error(err),
		)
		return nil, core.ErrInvalidCredentials
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	// Step 3: Only active clients may sign in
	if client.Status != core.ClientStatusActive {
		return nil, core.ErrAccountInactive
	}

	// Step 4: Create a new session
	token, err := crypto.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.clock.Now()
	session := &core.ClientSession{
		Token:     token,
		ClientID:  client.ID,
		ExpiresAt: now.Add(s.config.MaxAge),
		CreatedAt: now,
	}
	if err := s.db.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &core.LoginResult{
		Client:    client,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout deletes the session row. The cached validation is only dropped
// when EvictOnLogout is set.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return core.ErrMissingToken
	}

	err := s.db.DeleteSession(ctx, token)
	if err != nil && !errors.Is(err, core.ErrSessionNotFound) {
		return err
	}

	if s.config.EvictOnLogout && s.validator != nil {
		s.validator.Forget(token)
	}
	return nil
}
