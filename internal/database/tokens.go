package database

import (
	"context"
	"time"
)

type CreateAuthTokenParams struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

func (q *Queries) CreateAuthToken(ctx context.Context, arg CreateAuthTokenParams) error {
	const query = `
INSERT INTO auth_tokens (user_id, token_id, expires_at)
VALUES ($1, $2, $3)
`
	_, err := q.db.Exec(ctx, query, arg.UserID, arg.TokenID, arg.ExpiresAt)
	return err
}

// DeleteAuthToken revokes a token. Reports whether a row was deleted.
func (q *Queries) DeleteAuthToken(ctx context.Context, tokenID string) (bool, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM auth_tokens WHERE token_id = $1`, tokenID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) AuthTokenExists(ctx context.Context, tokenID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM auth_tokens WHERE token_id = $1 AND expires_at > now()
)
`
	var exists bool
	err := q.db.QueryRow(ctx, query, tokenID).Scan(&exists)
	return exists, err
}

func (q *Queries) DeleteExpiredAuthTokens(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM auth_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
