package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lborres/khuluma/core"
	"github.com/lborres/khuluma/pkg/crypto"
)

type sessionStore interface {
	core.SessionStorage
	core.ClientStorage
}

// SessionValidator resolves bearer tokens to client ids. A successful
// validation is cached under the token's hash for CacheTTL, so a session
// deleted or a client suspended inside that window keeps validating on this
// process until the entry expires.
type SessionValidator struct {
	config  core.SessionConfig
	storage sessionStore
	cache   core.Cache[core.ClientID] // optional, nil disables caching
	clock   core.Clock
	logger  *zap.Logger
	group   singleflight.Group
}

var _ core.SessionValidator = (*SessionValidator)(nil)

func NewSessionValidator(config core.SessionConfig, storage sessionStore, cache core.Cache[core.ClientID], clock core.Clock, logger *zap.Logger) *SessionValidator {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionValidator{
		config:  config.WithDefaults(),
		storage: storage,
		cache:   cache,
		clock:   clock,
		logger:  logger,
	}
}

func (v *SessionValidator) Validate(ctx context.Context, token string) (core.ClientID, error) {
	if token == "" {
		return 0, core.ErrMissingToken
	}

	key := crypto.HashToken(token)

	if v.cache != nil {
		if clientID, err := v.cache.Get(key); err == nil {
			return clientID, nil
		}
	}

	// Concurrent misses for one token share a single lookup
	result, err, _ := v.group.Do(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.config.LookupTimeout)
		defer cancel()
		return v.lookup(lookupCtx, key, token)
	})
	if err != nil {
		return 0, err
	}
	return result.(core.ClientID), nil
}

func (v *SessionValidator) lookup(ctx context.Context, key, token string) (core.ClientID, error) {
	now := v.clock.Now()

	session, err := v.storage.GetActiveSession(ctx, token, now)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return 0, core.ErrInvalidOrExpired
		}
		return 0, err
	}

	status, err := v.storage.GetClientStatus(ctx, session.ClientID)
	if err != nil {
		if errors.Is(err, core.ErrClientNotFound) {
			return 0, core.ErrAccountInactive
		}
		return 0, err
	}
	if status != core.ClientStatusActive {
		return 0, core.ErrAccountInactive
	}

	if v.touchDue(session, now) {
		staleBefore := now.Add(-v.config.TouchThrottle)
		if _, err := v.storage.TouchSession(ctx, token, now, staleBefore); err != nil {
			v.logger.Warn("session touch failed",
				zap.Int64("client_id", int64(session.ClientID)),
				zap.Error(err),
			)
		}
	}

	if v.cache != nil {
		if err := v.cache.Set(key, session.ClientID, v.config.CacheTTL); err != nil {
			v.logger.Warn("session cache set failed", zap.Error(err))
		}
	}

	return session.ClientID, nil
}

func (v *SessionValidator) touchDue(session *core.ClientSession, now time.Time) bool {
	if session.LastUsed == nil {
		return true
	}
	return now.Sub(*session.LastUsed) >= v.config.TouchThrottle
}

// Forget drops the cached validation for token.
func (v *SessionValidator) Forget(token string) {
	if v.cache == nil || token == "" {
		return
	}
	_ = v.cache.Delete(crypto.HashToken(token))
}
