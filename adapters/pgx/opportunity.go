package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/khuluma/core"
)

var readSnapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// ListOpportunities reads the total and the page from one snapshot.
func (a *Adapter) ListOpportunities(ctx context.Context, q core.ListQuery) ([]core.EnrichedOpportunity, int, error) {
	stmt := buildListing(q)

	var (
		total int
		page  []core.EnrichedOpportunity
	)
	err := a.withTx(ctx, readSnapshot, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, stmt.count, stmt.countArgs...).Scan(&total); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, stmt.page, stmt.pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		page = make([]core.EnrichedOpportunity, 0, q.Limit)
		for rows.Next() {
			e, err := scanEnriched(rows)
			if err != nil {
				return err
			}
			page = append(page, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, storageError("list opportunities", err)
	}
	return page, total, nil
}

func (a *Adapter) GetOpportunity(ctx context.Context, id int64, viewer *core.ClientID) (*core.EnrichedOpportunity, error) {
	var opportunity core.EnrichedOpportunity

	err := a.withTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE opportunities SET views_count = views_count + 1
			WHERE id = $1 AND status = $2`,
			id, core.OpportunityStatusPublished,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return core.ErrOpportunityNotFound
		}

		query, args := buildDetail(id, viewer)
		opportunity, err = scanEnriched(tx.QueryRow(ctx, query, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrOpportunityNotFound
		}
		return err
	})
	if err != nil {
		return nil, storageError("get opportunity", err)
	}
	return &opportunity, nil
}

// Apply inserts a pending application and bumps the opportunity's counter
// in one transaction.
func (a *Adapter) Apply(ctx context.Context, clientID core.ClientID, in core.ApplyInput) (*core.Application, error) {
	app := &core.Application{
		ClientID:      clientID,
		OpportunityID: in.OpportunityID,
		Status:        core.ApplicationStatusPending,
		Message:       in.Message,
		DocumentID:    in.DocumentID,
	}

	err := a.withTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		var one int
		err := tx.QueryRow(ctx, `
			SELECT 1 FROM opportunities WHERE id = $1 AND status = $2 FOR UPDATE`,
			in.OpportunityID, core.OpportunityStatusPublished,
		).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrOpportunityNotFound
		}
		if err != nil {
			return err
		}

		if in.DocumentID != nil {
			err := tx.QueryRow(ctx, `
				SELECT 1 FROM documents WHERE id = $1 AND client_id = $2`,
				*in.DocumentID, int64(clientID),
			).Scan(&one)
			if errors.Is(err, pgx.ErrNoRows) {
				return core.ErrDocumentNotFound
			}
			if err != nil {
				return err
			}
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO applications (client_id, opportunity_id, status, message, document_id, applied_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (client_id, opportunity_id) DO NOTHING
			RETURNING id, applied_at`,
			int64(clientID), in.OpportunityID, app.Status, app.Message, app.DocumentID,
		).Scan(&app.ID, &app.AppliedAt)
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return core.ErrAlreadyApplied
		}
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE opportunities SET applications_count = applications_count + 1 WHERE id = $1`,
			in.OpportunityID,
		)
		return err
	})
	if err != nil {
		return nil, storageError("apply", err)
	}
	return app, nil
}

func (a *Adapter) ToggleBookmark(ctx context.Context, clientID core.ClientID, opportunityID int64) (bool, error) {
	var bookmarked bool

	err := a.withTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		var one int
		err := tx.QueryRow(ctx, `SELECT 1 FROM opportunities WHERE id = $1`, opportunityID).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrOpportunityNotFound
		}
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM bookmarks WHERE client_id = $1 AND opportunity_id = $2`,
			int64(clientID), opportunityID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			bookmarked = false
			return nil
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookmarks (client_id, opportunity_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (client_id, opportunity_id) DO NOTHING`,
			int64(clientID), opportunityID,
		)
		bookmarked = err == nil
		return err
	})
	if err != nil {
		return false, storageError("toggle bookmark", err)
	}
	return bookmarked, nil
}
