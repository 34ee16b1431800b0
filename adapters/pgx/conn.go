package pgx

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lborres/khuluma/core"
)

type ConnConfig struct {
	DatabaseURL string

	// MaxConns bounds the pool. 1 reproduces a single shared connection.
	MaxConns int32

	// ConnectTimeout bounds dialing and pool checkout.
	ConnectTimeout time.Duration

	// QueryTimeout bounds each statement, client side and server side.
	QueryTimeout time.Duration

	// ProbeTimeout bounds the liveness ping run before a pooled connection
	// is handed out.
	ProbeTimeout time.Duration

	Logger *zap.Logger
}

func (c ConnConfig) withDefaults() ConnConfig {
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 10 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = time.Second
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Manager owns the connection pool. Each checkout hands one connection to
// one caller until it is released.
type Manager struct {
	pool   *pgxpool.Pool
	config ConnConfig
	logger *zap.Logger
}

// Connect builds the pool and verifies the database is reachable.
func Connect(ctx context.Context, config ConnConfig) (*Manager, error) {
	config = config.withDefaults()

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.ConnConfig.ConnectTimeout = config.ConnectTimeout
	poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", config.QueryTimeout.Milliseconds())

	logger := config.Logger
	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		probeCtx, cancel := context.WithTimeout(ctx, config.ProbeTimeout)
		defer cancel()
		if err := conn.Ping(probeCtx); err != nil {
			logger.Warn("discarding dead pooled connection", zap.Error(err))
			return false
		}
		return true
	}

	connectCtx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, core.NewConnectionError("connect", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, core.NewConnectionError("connect", err)
	}

	logger.Info("database pool ready", zap.Int32("max_conns", config.MaxConns))
	return NewManager(pool, config), nil
}

// NewManager wraps an existing pool.
func NewManager(pool *pgxpool.Pool, config ConnConfig) *Manager {
	config = config.withDefaults()
	return &Manager{pool: pool, config: config, logger: config.Logger}
}

// Acquire checks a connection out of the pool. The caller must Release it.
func (m *Manager) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, m.config.ConnectTimeout)
	defer cancel()

	conn, err := m.pool.Acquire(acquireCtx)
	if err != nil {
		return nil, core.NewConnectionError("acquire", err)
	}
	return conn, nil
}

// WithTimeout derives the per-query deadline.
func (m *Manager) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.config.QueryTimeout)
}

func (m *Manager) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.ProbeTimeout)
	defer cancel()
	if err := m.pool.Ping(ctx); err != nil {
		return core.NewConnectionError("ping", err)
	}
	return nil
}

func (m *Manager) Close() {
	m.pool.Close()
}
