package core

import (
	"context"
	"time"
)

// Ports consumed by the HTTP adapters

// ============================================
// CLOCK PORT
// ============================================

// Clock abstracts time so TTLs and throttles can be driven by tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ============================================
// SERVICE PORTS (for HTTP adapters)
// ============================================

// SessionValidator resolves a bearer token to its owning client.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (ClientID, error)
}

// OpportunityLister runs the public listing query. A nil viewer lists
// anonymously.
type OpportunityLister interface {
	List(ctx context.Context, params ListParams, viewer *ClientID) (*ListResult, error)
}

// OpportunityHandler covers the single-opportunity actions.
type OpportunityHandler interface {
	Get(ctx context.Context, id int64, viewer *ClientID) (*EnrichedOpportunity, error)
	Apply(ctx context.Context, clientID ClientID, in ApplyInput) (*Application, error)
	ToggleBookmark(ctx context.Context, clientID ClientID, opportunityID int64) (bool, error)
	Categories(ctx context.Context) ([]Category, error)
}

// AuthHandler issues and revokes sessions
type AuthHandler interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type HealthChecker interface {
	Health(ctx context.Context) HealthReport
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(k *Khuluma) error
}
