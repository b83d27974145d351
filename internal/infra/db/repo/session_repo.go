package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/google/uuid"
)

type SessionRepo struct {
	tx DBTX
}

func NewSessionRepo(tx DBTX) *SessionRepo {
	return &SessionRepo{tx: tx}
}

// UpsertUser creates the user or updates name and role of an existing one.
func (r *SessionRepo) UpsertUser(ctx context.Context, user *db.User) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO users(id, email, name, role, created_at) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role
		RETURNING id, created_at`,
		user.ID, user.Email, user.Name, user.Role, user.CreatedAt).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("err saving user, %w", err)
	}
	return nil
}

func (r *SessionRepo) InsertSession(ctx context.Context, session db.Session) error {
	_, err := r.tx.Exec(ctx, "INSERT INTO sessions(id, user_id, expires_at, created_at) VALUES ($1,$2,$3,$4)",
		session.ID, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating a session, %w", err)
	}
	return nil
}

// GetSessionUser resolves a live session to its user.
func (r *SessionRepo) GetSessionUser(ctx context.Context, sessionID uuid.UUID, now time.Time) (*db.User, error) {
	var user db.User
	err := r.tx.QueryRow(ctx, `SELECT u.id, u.email, u.name, u.role, u.created_at FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > $2`, sessionID, now,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: "session", ID: sessionID}
		}
		return nil, fmt.Errorf("error getting session, %w", err)
	}
	return &user, nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.tx.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("err deleting expired sessions, %w", err)
	}
	return tag.RowsAffected(), nil
}
