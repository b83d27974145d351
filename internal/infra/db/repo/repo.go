package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	shared "github.com/Builder-Lawyers/builder-admin/pkg/interfaces"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by pgx.Tx and *pgxpool.Pool.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

type EventRepo struct {
	tx DBTX
}

func NewEventRepo(tx DBTX) *EventRepo {
	return &EventRepo{tx: tx}
}

func (e *EventRepo) InsertEvent(ctx context.Context, event shared.Event) (uint64, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("err marshalling event payload, %w", err)
	}
	outbox := db.Outbox{
		Event:     event.GetType(),
		Status:    int(consts.NotProcessed),
		Payload:   json.RawMessage(payload),
		CreatedAt: time.Now(),
	}
	err = e.tx.QueryRow(ctx, "INSERT INTO outbox (event, status, payload, created_at) VALUES ($1,$2,$3,$4) RETURNING id",
		outbox.Event, outbox.Status, outbox.Payload, outbox.CreatedAt).Scan(&outbox.ID)
	if err != nil {
		return 0, fmt.Errorf("err inserting a new event, %w", err)
	}

	return outbox.ID, nil
}

// ClaimEvents marks up to limit unprocessed events as processing and returns
// them. Rows locked by another poller are skipped.
func (e *EventRepo) ClaimEvents(ctx context.Context, limit int) ([]db.Outbox, error) {
	rows, err := e.tx.Query(ctx, `UPDATE outbox SET status = $1
		WHERE id IN (
			SELECT id FROM outbox WHERE status = $2 ORDER BY created_at, id
			FOR UPDATE SKIP LOCKED LIMIT $3
		)
		RETURNING id, event, status, payload, created_at`,
		consts.Processing, consts.NotProcessed, limit)
	if err != nil {
		return nil, fmt.Errorf("err claiming events, %w", err)
	}
	defer rows.Close()

	var claimed []db.Outbox
	for rows.Next() {
		var event db.Outbox
		if err = rows.Scan(&event.ID, &event.Event, &event.Status, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("err scanning event, %w", err)
		}
		claimed = append(claimed, event)
	}
	return claimed, rows.Err()
}

func (e *EventRepo) SetStatus(ctx context.Context, id uint64, status consts.OutboxStatus) error {
	_, err := e.tx.Exec(ctx, "UPDATE outbox SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("err updating event status, %w", err)
	}
	return nil
}
