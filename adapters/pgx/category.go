package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/khuluma/core"
)

func (a *Adapter) ListActiveCategories(ctx context.Context) ([]core.Category, error) {
	var categories []core.Category

	err := a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, description, icon, color, status
			FROM categories
			WHERE status = $1
			ORDER BY name`,
			core.CategoryStatusActive,
		)
		if err != nil {
			return err
		}

		categories, err = pgx.CollectRows(rows, pgx.RowToStructByPos[core.Category])
		return err
	})
	if err != nil {
		return nil, storageError("list categories", err)
	}
	return categories, nil
}
