package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/lborres/khuluma/core"
)

const (
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthUp       = "up"
	healthDown     = "down"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type statser interface {
	Stats() core.CacheStats
}

type HealthService struct {
	db     pinger
	cache  core.Cache[core.ClientID]
	logger *zap.Logger
}

var _ core.HealthChecker = (*HealthService)(nil)

func NewHealthService(db pinger, cache core.Cache[core.ClientID], logger *zap.Logger) *HealthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthService{db: db, cache: cache, logger: logger}
}

// Health pings the database and reports cache counters when the cache
// exposes them.
func (h *HealthService) Health(ctx context.Context) core.HealthReport {
	report := core.HealthReport{Status: healthOK, Database: healthUp}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health ping failed", zap.Error(err))
		report.Status = healthDegraded
		report.Database = healthDown
	}

	if s, ok := h.cache.(statser); ok {
		report.Cache = s.Stats()
	}
	return report
}
