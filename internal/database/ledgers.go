package database

import (
	"context"
)

// The favorite and follow ledgers rely on composite unique constraints
// rather than check-then-insert: concurrent duplicate requests resolve at
// the database, and a no-op insert is the "already exists" signal.

type FavoritePair struct {
	UserID   int64
	RecipeID int64
}

// CreateFavorite records a favorite. Reports whether a new row was created;
// false means the pair already existed.
func (q *Queries) CreateFavorite(ctx context.Context, arg FavoritePair) (bool, error) {
	const query = `
INSERT INTO favorites (user_id, recipe_id)
VALUES ($1, $2)
ON CONFLICT (user_id, recipe_id) DO NOTHING
`
	tag, err := q.db.Exec(ctx, query, arg.UserID, arg.RecipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) DeleteFavorite(ctx context.Context, arg FavoritePair) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`,
		arg.UserID, arg.RecipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) FavoriteExists(ctx context.Context, arg FavoritePair) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)`
	var exists bool
	err := q.db.QueryRow(ctx, query, arg.UserID, arg.RecipeID).Scan(&exists)
	return exists, err
}

type FollowPair struct {
	FollowerID int64
	AuthorID   int64
}

// CreateFollow records a subscription. Reports whether a new row was
// created; false means the follower was already subscribed.
func (q *Queries) CreateFollow(ctx context.Context, arg FollowPair) (bool, error) {
	const query = `
INSERT INTO follows (follower_id, author_id)
VALUES ($1, $2)
ON CONFLICT (follower_id, author_id) DO NOTHING
`
	tag, err := q.db.Exec(ctx, query, arg.FollowerID, arg.AuthorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) DeleteFollow(ctx context.Context, arg FollowPair) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND author_id = $2`,
		arg.FollowerID, arg.AuthorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) FollowExists(ctx context.Context, arg FollowPair) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND author_id = $2)`
	var exists bool
	err := q.db.QueryRow(ctx, query, arg.FollowerID, arg.AuthorID).Scan(&exists)
	return exists, err
}

type ListFollowedAuthorsParams struct {
	FollowerID int64
	Limit      int32
	Offset     int32
}

// ListFollowedAuthors returns the users a follower is subscribed to, most
// recent subscription first.
func (q *Queries) ListFollowedAuthors(ctx context.Context, arg ListFollowedAuthorsParams) ([]User, error) {
	const query = `
SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash,
	u.role, u.is_active, u.created_at
FROM follows f
JOIN users u ON u.id = f.author_id
WHERE f.follower_id = $1
ORDER BY f.id DESC
LIMIT $2 OFFSET $3
`
	rows, err := q.db.Query(ctx, query, arg.FollowerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, u)
	}
	return authors, rows.Err()
}

func (q *Queries) CountFollows(ctx context.Context, followerID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM follows WHERE follower_id = $1`, followerID).
		Scan(&count)
	return count, err
}
