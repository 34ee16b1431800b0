package core

import "time"

type SessionConfig struct {
	// CacheTTL is how long a successful validation is honored without
	// touching the database. A session revoked inside this window keeps
	// working until the entry expires.
	CacheTTL time.Duration

	// TouchThrottle is the minimum interval between last_used writes.
	TouchThrottle time.Duration

	// MaxAge is the lifetime of sessions issued at login.
	MaxAge time.Duration

	// EvictOnLogout drops the local cache entry when a session is deleted.
	EvictOnLogout bool

	// LookupTimeout bounds the storage lookup behind a cache miss. The
	// lookup is shared by concurrent callers and ignores their cancellation.
	LookupTimeout time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CacheTTL:      2 * time.Minute,
		TouchThrottle: 5 * time.Minute,
		MaxAge:        24 * time.Hour,
		LookupTimeout: 10 * time.Second,
	}
}

// WithDefaults fills zero durations from DefaultSessionConfig.
func (c SessionConfig) WithDefaults() SessionConfig {
	d := DefaultSessionConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.TouchThrottle <= 0 {
		c.TouchThrottle = d.TouchThrottle
	}
	if c.MaxAge <= 0 {
		c.MaxAge = d.MaxAge
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = d.LookupTimeout
	}
	return c
}
