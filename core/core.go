package core

import (
	"go.uber.org/zap"

	"github.com/lborres/khuluma/pkg/crypto"
)

type Config struct {
	Database StorageAdapter

	HTTP HTTPAdapter

	// Optional config
	CacheAdapter   Cache[ClientID]
	DisableCache   bool
	SessionConfig  *SessionConfig
	ListingConfig  *ListingConfig
	PasswordHasher crypto.PasswordHandler
	Clock          Clock
	Logger         *zap.Logger
	BasePath       string
}

type Khuluma struct {
	Sessions      SessionValidator
	Listings      OpportunityLister
	Opportunities OpportunityHandler
	Auth          AuthHandler
	Health        HealthChecker
	Endpoints     []*Endpoint
	Logger        *zap.Logger
	BasePath      string
}
