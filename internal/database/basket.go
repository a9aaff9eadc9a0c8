package database

import (
	"context"
)

type UpsertBasketEntryParams struct {
	UserID      int64
	RecipeID    int64
	Quantity    int32
	CookingTime int32
}

// UpsertBasketEntry adds a recipe to the user's basket. Re-adding the same
// recipe replaces the quantity instead of creating a duplicate row.
func (q *Queries) UpsertBasketEntry(ctx context.Context, arg UpsertBasketEntryParams) (BasketEntry, error) {
	const query = `
INSERT INTO basket_entries (user_id, recipe_id, quantity, cooking_time)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, recipe_id) DO UPDATE
	SET quantity = excluded.quantity, cooking_time = excluded.cooking_time
RETURNING id, user_id, recipe_id, quantity, cooking_time, created_at
`
	var e BasketEntry
	err := q.db.QueryRow(ctx, query, arg.UserID, arg.RecipeID, arg.Quantity, arg.CookingTime).
		Scan(&e.ID, &e.UserID, &e.RecipeID, &e.Quantity, &e.CookingTime, &e.CreatedAt)
	return e, err
}

type BasketPair struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) DeleteBasketEntry(ctx context.Context, arg BasketPair) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM basket_entries WHERE user_id = $1 AND recipe_id = $2`,
		arg.UserID, arg.RecipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) BasketEntryExists(ctx context.Context, arg BasketPair) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM basket_entries WHERE user_id = $1 AND recipe_id = $2)`
	var exists bool
	err := q.db.QueryRow(ctx, query, arg.UserID, arg.RecipeID).Scan(&exists)
	return exists, err
}

// ListBasketLines returns every ingredient association reachable from the
// user's basket, scaled rows ordered by basket insertion then association
// order. The shopping list aggregation consumes this.
func (q *Queries) ListBasketLines(ctx context.Context, userID int64) ([]BasketLine, error) {
	const query = `
SELECT ri.ingredient_id, i.name, ri.measurement_unit, ri.amount, b.quantity
FROM basket_entries b
JOIN recipe_ingredients ri ON ri.recipe_id = b.recipe_id
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE b.user_id = $1
ORDER BY b.id, ri.id
`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []BasketLine
	for rows.Next() {
		var l BasketLine
		if err := rows.Scan(&l.IngredientID, &l.Name, &l.MeasurementUnit, &l.Amount, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
