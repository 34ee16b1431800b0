package khuluma

import (
	"go.uber.org/zap"

	"github.com/lborres/khuluma/core"
	"github.com/lborres/khuluma/pkg/crypto"
	"github.com/lborres/khuluma/services"
)

// interfaces
type (
	StorageAdapter = core.StorageAdapter
	Cache          = core.Cache[core.ClientID]
	Clock          = core.Clock

	HTTPAdapter = core.HTTPAdapter

	SessionValidator   = core.SessionValidator
	OpportunityLister  = core.OpportunityLister
	OpportunityHandler = core.OpportunityHandler
	AuthHandler        = core.AuthHandler
	HealthChecker      = core.HealthChecker

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Khuluma       = core.Khuluma
	Config        = core.Config
	SessionConfig = core.SessionConfig
	ListingConfig = core.ListingConfig
	CacheConfig   = core.CacheConfig
)

type (
	ClientID            = core.ClientID
	Client              = core.Client
	Opportunity         = core.Opportunity
	EnrichedOpportunity = core.EnrichedOpportunity
	Category            = core.Category
	Application         = core.Application
	ListParams          = core.ListParams
	ListFilter          = core.ListFilter
	ListResult          = core.ListResult
	CacheStats          = core.CacheStats
	HealthReport        = core.HealthReport
)

const defaultBasePath = "/api"

// Constructors & helpers (convenience re-exports)
var (
	DefaultSessionConfig = core.DefaultSessionConfig
	DefaultListingConfig = core.DefaultListingConfig
	NewPasswords         = crypto.NewPasswords
)

func NewInMemoryCache(c CacheConfig) *core.InMemoryCache[ClientID] {
	return core.NewInMemoryCache[ClientID](c)
}

var (
	ErrMissingToken       = core.ErrMissingToken
	ErrInvalidOrExpired   = core.ErrInvalidOrExpired
	ErrAccountInactive    = core.ErrAccountInactive
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrConnection = core.ErrConnection
	ErrQuery      = core.ErrQuery
)

var (
	ErrDBAdapterRequired   = core.ErrDBAdapterRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
)

// New wires the services around the configured storage and cache and
// registers the HTTP routes.
func New(config Config) (*Khuluma, error) {
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	clock := config.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionConfig := DefaultSessionConfig()
	if config.SessionConfig != nil {
		sessionConfig = config.SessionConfig.WithDefaults()
	}

	listingConfig := DefaultListingConfig()
	if config.ListingConfig != nil {
		listingConfig = *config.ListingConfig
	}

	cacheAdapter := config.CacheAdapter
	if config.DisableCache {
		cacheAdapter = nil
	} else if cacheAdapter == nil {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			DefaultTTL: sessionConfig.CacheTTL,
			Clock:      clock,
		})
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = NewPasswords()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	validator := services.NewSessionValidator(sessionConfig, config.Database, cacheAdapter, clock, logger.Named("session"))

	k := &Khuluma{
		Sessions:      validator,
		Listings:      services.NewListingService(listingConfig, config.Database, logger.Named("listing")),
		Opportunities: services.NewOpportunityService(config.Database, logger.Named("opportunity")),
		Auth:          services.NewAuthService(sessionConfig, config.Database, passwordHasher, validator, clock, logger.Named("auth")),
		Health:        services.NewHealthService(config.Database, cacheAdapter, logger.Named("health")),
		Endpoints:     services.NewEndpointRegistry().Endpoints(),
		Logger:        logger,
		BasePath:      basePath,
	}

	if err := config.HTTP.RegisterRoutes(k); err != nil {
		return nil, err
	}

	return k, nil
}
