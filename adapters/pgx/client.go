package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/khuluma/core"
)

func (a *Adapter) GetClientStatus(ctx context.Context, id core.ClientID) (string, error) {
	var status string

	err := a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx, `SELECT status FROM clients WHERE id = $1`, int64(id)).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrClientNotFound
		}
		return err
	})
	if err != nil {
		return "", storageError("get client status", err)
	}
	return status, nil
}

func (a *Adapter) GetClientByEmail(ctx context.Context, email string) (*core.Client, error) {
	client := &core.Client{}

	err := a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		var id int64
		err := conn.QueryRow(ctx, `
			SELECT id, name, surname, email, phone, profile_image, status, password_hash, created_at
			FROM clients
			WHERE lower(email) = lower($1)`,
			email,
		).Scan(
			&id,
			&client.Name,
			&client.Surname,
			&client.Email,
			&client.Phone,
			&client.ProfileImage,
			&client.Status,
			&client.PasswordHash,
			&client.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrClientNotFound
		}
		client.ID = core.ClientID(id)
		return err
	})
	if err != nil {
		return nil, storageError("get client by email", err)
	}
	return client, nil
}
