package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/khuluma/core"
)

func (a *Adapter) CreateSession(ctx context.Context, session *core.ClientSession) error {
	err := a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO client_sessions (token, client_id, expires_at, created_at)
			VALUES ($1, $2, $3, $4)`,
			session.Token, int64(session.ClientID), session.ExpiresAt, session.CreatedAt,
		)
		return err
	})
	return storageError("create session", err)
}

func (a *Adapter) GetActiveSession(ctx context.Context, token string, now time.Time) (*core.ClientSession, error) {
	session := &core.ClientSession{Token: token}

	err := a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		var clientID int64
		err := conn.QueryRow(ctx, `
			SELECT client_id, expires_at, last_used, created_at
			FROM client_sessions
			WHERE token = $1 AND expires_at > $2`,
			token, now,
		).Scan(&clientID, &session.ExpiresAt, &session.LastUsed, &session.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrSessionNotFound
		}
		session.ClientID = core.ClientID(clientID)
		return err
	})
	if err != nil {
		return nil, storageError("get session", err)
	}
	return session, nil
}

func (a *Adapter) TouchSession(ctx context.Context, token string, now, staleBefore time.Time) (bool, error) {
	var touched bool

	err := a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE client_sessions
			SET last_used = $2
			WHERE token = $1 AND (last_used IS NULL OR last_used <= $3)`,
			token, now, staleBefore,
		)
		touched = tag.RowsAffected() > 0
		return err
	})
	if err != nil {
		return false, storageError("touch session", err)
	}
	return touched, nil
}

func (a *Adapter) DeleteSession(ctx context.Context, token string) error {
	err := a.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM client_sessions WHERE token = $1`, token)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return core.ErrSessionNotFound
		}
		return nil
	})
	return storageError("delete session", err)
}
