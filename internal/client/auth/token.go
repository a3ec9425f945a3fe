// Package auth issues the opaque session tokens handed out at login.
//
// Tokens are HS256 JWTs signed with a per-install random key kept in the
// local store. Nothing verifies them remotely; the signature only ties a
// token to this installation. Uniqueness per login event comes from the jti
// claim, so rapid repeated logins never collide.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dermascan/internal/client/repositories/kv"
	"dermascan/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const signingKeyName = "sessionKey"

const signingKeySize = 32

// TokenIssuer creates and verifies local session tokens.
type TokenIssuer struct {
	db *sql.DB
}

func NewTokenIssuer(db *sql.DB) *TokenIssuer {
	return &TokenIssuer{db: db}
}

// signingKey loads the install-local HMAC key, generating and persisting one
// on first use.
func (i *TokenIssuer) signingKey(ctx context.Context) ([]byte, error) {
	repo := kv.NewSQLiteRepository(i.db)

	key, err := repo.Get(ctx, signingKeyName)
	if err != nil {
		return nil, err
	}
	if len(key) == signingKeySize {
		return key, nil
	}

	key = make([]byte, signingKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	if err := repo.Set(ctx, signingKeyName, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Issue returns a fresh token for the given subject (the owner email).
func (i *TokenIssuer) Issue(ctx context.Context, subject string) (string, error) {
	key, err := i.signingKey(ctx)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  strings.ToLower(subject),
		IssuedAt: jwt.NewNumericDate(time.Now()),
		ID:       uuid.NewString(),
	})

	return token.SignedString(key)
}

// Subject parses a token issued by this installation and returns its subject.
func (i *TokenIssuer) Subject(ctx context.Context, tokenString string) (string, error) {
	key, err := i.signingKey(ctx)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
