package core

import (
	"context"
	"time"
)

type SessionStorage interface {
	CreateSession(ctx context.Context, s *ClientSession) error

	// GetActiveSession returns the session for token if expires_at > now,
	// or ErrSessionNotFound.
	GetActiveSession(ctx context.Context, token string, now time.Time) (*ClientSession, error)

	// TouchSession sets last_used = now when it is null or older than
	// staleBefore. Reports whether a row was updated.
	TouchSession(ctx context.Context, token string, now, staleBefore time.Time) (bool, error)

	DeleteSession(ctx context.Context, token string) error
}

type ClientStorage interface {
	// GetClientStatus returns the client's status or ErrClientNotFound.
	GetClientStatus(ctx context.Context, id ClientID) (string, error)
	GetClientByEmail(ctx context.Context, email string) (*Client, error)
}

type OpportunityStorage interface {
	// ListOpportunities returns one page plus the total number of matching
	// rows. Both are read from the same snapshot.
	ListOpportunities(ctx context.Context, q ListQuery) ([]EnrichedOpportunity, int, error)

	// GetOpportunity returns a published opportunity and bumps its view
	// counter, or ErrOpportunityNotFound.
	GetOpportunity(ctx context.Context, id int64, viewer *ClientID) (*EnrichedOpportunity, error)

	// Apply records a pending application. Returns ErrOpportunityNotFound,
	// ErrAlreadyApplied or ErrDocumentNotFound.
	Apply(ctx context.Context, clientID ClientID, in ApplyInput) (*Application, error)

	// ToggleBookmark adds the bookmark if missing, removes it otherwise, and
	// reports whether the opportunity is bookmarked afterwards.
	ToggleBookmark(ctx context.Context, clientID ClientID, opportunityID int64) (bool, error)
}

type CategoryStorage interface {
	ListActiveCategories(ctx context.Context) ([]Category, error)
}

type StorageAdapter interface {
	SessionStorage
	ClientStorage
	OpportunityStorage
	CategoryStorage

	Ping(ctx context.Context) error
}
