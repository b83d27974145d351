package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "builder-admin"

type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Email     string
	Role      consts.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == consts.RoleAdmin
}

func (i Identity) IsStaff() bool {
	return i.Role == consts.RoleAdmin || i.Role == consts.RoleStaff
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256 session tokens. A token only names
// a session; the session row decides whether it is still live.
type TokenSigner struct {
	secret []byte
	leeway time.Duration
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), leeway: 10 * time.Second}
}

func (s *TokenSigner) Sign(sessionID uuid.UUID, userID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("err signing session token, %w", err)
	}
	return token, nil
}

func (s *TokenSigner) Parse(token string) (uuid.UUID, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse session token, %w", err)
	}
	if claims.SessionID == "" {
		return uuid.Nil, errors.New("session token has no sid")
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid sid, %w", err)
	}
	return sessionID, nil
}
