// Package token contains utilities for http bearer tokens.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"platefeed/internal/database"
	"platefeed/internal/env"
	"platefeed/internal/jwt"
)

const TokenLifetime = jwt.JWTDuration

var ErrNoBearerToken = errors.New("no bearer token in request")

// Issue mints a signed bearer token for the user and records its jti
// so the token can be revoked on logout.
func Issue(ctx context.Context, e *env.Env, user database.User) (string, error) {
	secret := e.Config.Secret()
	if secret == "" {
		return "", errors.New("app secret not configured")
	}

	tokenID := ulid.Make().String()
	expires := time.Now().Add(TokenLifetime)
	if err := e.Database.CreateAuthToken(ctx, database.CreateAuthTokenParams{
		UserID:    user.ID,
		TokenID:   tokenID,
		ExpiresAt: expires,
	}); err != nil {
		return "", fmt.Errorf("recording auth token: %w", err)
	}

	signed, err := jwt.GenerateJWT(jwt.JWTParams{
		Role:    string(user.Role),
		UserID:  fmt.Sprintf("%d", user.ID),
		TokenID: tokenID,
		Expires: expires,
	}, []byte(secret), e.Config.AppSecret.Version)
	if err != nil {
		return "", fmt.Errorf("generating bearer token: %w", err)
	}
	return signed, nil
}

// FromRequest extracts the bearer token from the Authorization header.
func FromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoBearerToken
	}
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
		return "", ErrNoBearerToken
	}
	return raw, nil
}

type userIDKeyType struct{}
type tokenIDKeyType struct{}

var userIDKey userIDKeyType
var tokenIDKey tokenIDKeyType

func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx returns the authenticated user's ID, or false for an
// anonymous request.
func UserIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func TokenIDWithCtx(ctx context.Context, tokenID string) context.Context {
	return context.WithValue(ctx, tokenIDKey, tokenID)
}

func TokenIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tokenIDKey).(string)
	return id, ok
}
