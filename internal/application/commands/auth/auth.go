package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/auth"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Auth struct {
	uowFactory *dbs.UOWFactory
	signer     *auth.TokenSigner
	lifetime   time.Duration
}

func NewAuth(uowFactory *dbs.UOWFactory, signer *auth.TokenSigner, lifetime time.Duration) *Auth {
	return &Auth{
		uowFactory: uowFactory,
		signer:     signer,
		lifetime:   lifetime,
	}
}

// CreateSession registers (or updates) the user and opens a session for it.
// The returned token is what clients present as Bearer token or cookie.
func (c *Auth) CreateSession(ctx context.Context, email, name string, role consts.Role) (token string, expiresAt time.Time, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", time.Time{}, errs.ValidationError{
			Message: "invalid request",
			Fields:  []errs.FieldError{{Field: "email", Message: "is required"}},
		}
	}
	if !role.Valid() {
		return "", time.Time{}, errs.ValidationError{
			Message: "invalid request",
			Fields:  []errs.FieldError{{Field: "role", Message: fmt.Sprintf("unknown role %q", role)}},
		}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	defer uow.Finalize(ctx, &err)

	now := time.Now()
	user := db.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
	}
	sessionRepo := repo.NewSessionRepo(tx)
	if err = sessionRepo.UpsertUser(ctx, &user); err != nil {
		return "", time.Time{}, err
	}

	session := db.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(c.lifetime),
		CreatedAt: now,
	}
	if err = sessionRepo.InsertSession(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	token, err = c.signer.Sign(session.ID, user.ID, session.ExpiresAt)
	if err != nil {
		return "", time.Time{}, err
	}

	zap.S().Infow("session created", "userID", user.ID, "role", user.Role, "expiresAt", session.ExpiresAt)
	return token, session.ExpiresAt, nil
}

// GetIdentity resolves a presented token. Every failure to authenticate is
// reported as errs.UnauthorizedError.
func (c *Auth) GetIdentity(ctx context.Context, token string) (*auth.Identity, error) {
	if token == "" {
		return nil, errs.UnauthorizedError{Err: errors.New("no token")}
	}
	sessionID, err := c.signer.Parse(token)
	if err != nil {
		return nil, errs.UnauthorizedError{Err: err}
	}

	user, err := repo.NewSessionRepo(c.uowFactory.Pool).GetSessionUser(ctx, sessionID, time.Now())
	if err != nil {
		var notFound errs.NotFoundError
		if errors.As(err, &notFound) {
			return nil, errs.UnauthorizedError{Err: err}
		}
		return nil, err
	}

	return &auth.Identity{
		UserID:    user.ID,
		SessionID: sessionID,
		Email:     user.Email,
		Role:      user.Role,
	}, nil
}

// PurgeExpiredSessions removes sessions past their expiry.
func (c *Auth) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return repo.NewSessionRepo(c.uowFactory.Pool).DeleteExpired(ctx, time.Now())
}
