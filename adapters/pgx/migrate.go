package pgx

import (
	"context"
	_ "embed"

	"github.com/lborres/khuluma/core"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables. It is idempotent.
func (m *Manager) Migrate(ctx context.Context) error {
	conn, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, schema); err != nil {
		return core.NewQueryError("migrate", err)
	}
	m.logger.Info("schema applied")
	return nil
}
