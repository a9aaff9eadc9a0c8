package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"platefeed/internal/recipe"
)

const recipeColumns = `id, author_id, name, text, cooking_time, image_url, created_at`

func scanRecipe(row interface{ Scan(...any) error }) (Recipe, error) {
	var r Recipe
	err := row.Scan(&r.ID, &r.AuthorID, &r.Name, &r.Text, &r.CookingTime,
		&r.ImageURL, &r.CreatedAt)
	return r, err
}

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`
	return scanRecipe(q.db.QueryRow(ctx, query, id))
}

// RecipeFilter narrows recipe listings. Zero values mean "no constraint":
// an empty Name matches everything, a nil Tags slice skips tag filtering
// (Tags holds slugs, matched as a set), and invalid pgtype ids skip their
// respective subqueries.
type RecipeFilter struct {
	Name        string
	Tags        []string
	AuthorID    pgtype.Int8
	FavoritedBy pgtype.Int8
	InBasketOf  pgtype.Int8
}

const recipeFilterClause = `
	($1 = '' OR recipes.name ILIKE '%' || $1 || '%')
	AND (cardinality($2::text[]) = 0 OR EXISTS (
		SELECT 1 FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = recipes.id AND t.slug = ANY ($2)
	))
	AND ($3::bigint IS NULL OR recipes.author_id = $3)
	AND ($4::bigint IS NULL OR EXISTS (
		SELECT 1 FROM favorites f WHERE f.recipe_id = recipes.id AND f.user_id = $4
	))
	AND ($5::bigint IS NULL OR EXISTS (
		SELECT 1 FROM basket_entries b WHERE b.recipe_id = recipes.id AND b.user_id = $5
	))`

func (f RecipeFilter) args() []any {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return []any{f.Name, tags, f.AuthorID, f.FavoritedBy, f.InBasketOf}
}

type ListRecipesParams struct {
	Filter RecipeFilter
	Limit  int32
	Offset int32
}

func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE` + recipeFilterClause +
		` ORDER BY recipes.id DESC LIMIT $6 OFFSET $7`
	args := append(arg.Filter.args(), arg.Limit, arg.Offset)
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func (q *Queries) CountRecipes(ctx context.Context, filter RecipeFilter) (int64, error) {
	query := `SELECT count(*) FROM recipes WHERE` + recipeFilterClause
	var count int64
	err := q.db.QueryRow(ctx, query, filter.args()...).Scan(&count)
	return count, err
}

type ListRecipesByAuthorParams struct {
	AuthorID int64
	Limit    int32
}

// ListRecipesByAuthor returns an author's most recent recipes, newest first.
func (q *Queries) ListRecipesByAuthor(ctx context.Context, arg ListRecipesByAuthorParams) ([]Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE author_id = $1 ORDER BY id DESC LIMIT $2`
	rows, err := q.db.Query(ctx, query, arg.AuthorID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func (q *Queries) CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM recipes WHERE author_id = $1`, authorID).Scan(&count)
	return count, err
}

type UpdateRecipeImageParams struct {
	ID       int64
	ImageURL pgtype.Text
}

func (q *Queries) UpdateRecipeImage(ctx context.Context, arg UpdateRecipeImageParams) error {
	_, err := q.db.Exec(ctx, `UPDATE recipes SET image_url = $2 WHERE id = $1`, arg.ID, arg.ImageURL)
	return err
}

// DeleteRecipe removes a recipe. Association, favorite, and basket rows go
// with it via ON DELETE CASCADE. Reports whether a row was deleted.
func (q *Queries) DeleteRecipe(ctx context.Context, id int64) (bool, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) ListRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error) {
	const query = `
SELECT t.id, t.name, t.color, t.slug FROM recipe_tags rt
JOIN tags t ON t.id = rt.tag_id
WHERE rt.recipe_id = $1
ORDER BY t.name
`
	rows, err := q.db.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (q *Queries) ListRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredientRow, error) {
	const query = `
SELECT ri.ingredient_id, i.name, ri.measurement_unit, ri.amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE ri.recipe_id = $1
ORDER BY ri.id
`
	rows, err := q.db.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var associations []RecipeIngredientRow
	for rows.Next() {
		var a RecipeIngredientRow
		if err := rows.Scan(&a.IngredientID, &a.Name, &a.MeasurementUnit, &a.Amount); err != nil {
			return nil, err
		}
		associations = append(associations, a)
	}
	return associations, rows.Err()
}

// RecipeIngredientParams is one association to write, with the unit
// denormalized from the ingredient catalog.
type RecipeIngredientParams struct {
	IngredientID    int64
	Amount          int32
	MeasurementUnit string
}

type CreateRecipeParams struct {
	AuthorID    int64
	Name        string
	Text        string
	CookingTime int32
	TagIDs      []int64
	Ingredients []RecipeIngredientParams
}

// CreateRecipe inserts a recipe together with its tag set and ingredient
// associations in a single transaction.
func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	var recipeID int64
	err := q.tx(ctx, func(q *Queries) error {
		const insertRecipe = `
INSERT INTO recipes (author_id, name, text, cooking_time)
VALUES ($1, $2, $3, $4)
RETURNING id
`
		err := q.db.QueryRow(ctx, insertRecipe,
			arg.AuthorID, arg.Name, arg.Text, arg.CookingTime).Scan(&recipeID)
		if err != nil {
			return err
		}

		if err := q.setRecipeTags(ctx, recipeID, arg.TagIDs); err != nil {
			return err
		}

		for _, ing := range arg.Ingredients {
			if err := q.insertRecipeIngredient(ctx, recipeID, ing); err != nil {
				return err
			}
		}
		return nil
	})
	return recipeID, err
}

type UpdateRecipeParams struct {
	ID          int64
	Name        string
	Text        string
	CookingTime int32
	TagIDs      []int64

	// Plan is the reconciled ingredient diff; Units carries the catalog
	// unit for every ingredient the plan inserts.
	Plan  recipe.Plan
	Units map[int64]string
}

// UpdateRecipe rewrites a recipe's fields, replaces its tag set, and applies
// the ingredient reconciliation plan, all in one transaction.
func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	return q.tx(ctx, func(q *Queries) error {
		const updateRecipe = `
UPDATE recipes SET name = $2, text = $3, cooking_time = $4 WHERE id = $1
`
		_, err := q.db.Exec(ctx, updateRecipe, arg.ID, arg.Name, arg.Text, arg.CookingTime)
		if err != nil {
			return err
		}

		if err := q.setRecipeTags(ctx, arg.ID, arg.TagIDs); err != nil {
			return err
		}

		for _, item := range arg.Plan.Inserts {
			ing := RecipeIngredientParams{
				IngredientID:    item.IngredientID,
				Amount:          item.Amount,
				MeasurementUnit: arg.Units[item.IngredientID],
			}
			if err := q.insertRecipeIngredient(ctx, arg.ID, ing); err != nil {
				return err
			}
		}
		for _, item := range arg.Plan.Updates {
			const update = `
UPDATE recipe_ingredients SET amount = $3 WHERE recipe_id = $1 AND ingredient_id = $2
`
			if _, err := q.db.Exec(ctx, update, arg.ID, item.IngredientID, item.Amount); err != nil {
				return err
			}
		}
		if len(arg.Plan.Removals) > 0 {
			const remove = `
DELETE FROM recipe_ingredients WHERE recipe_id = $1 AND ingredient_id = ANY ($2)
`
			if _, err := q.db.Exec(ctx, remove, arg.ID, arg.Plan.Removals); err != nil {
				return err
			}
		}
		return nil
	})
}

// setRecipeTags replaces the recipe's tag set. Tags always have full-replace
// semantics, unlike ingredient associations.
func (q *Queries) setRecipeTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return err
	}
	const insert = `
INSERT INTO recipe_tags (recipe_id, tag_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`
	_, err := q.db.Exec(ctx, insert, recipeID, tagIDs)
	return err
}

func (q *Queries) insertRecipeIngredient(ctx context.Context, recipeID int64, arg RecipeIngredientParams) error {
	const query = `
INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, measurement_unit)
VALUES ($1, $2, $3, $4)
`
	_, err := q.db.Exec(ctx, query, recipeID, arg.IngredientID, arg.Amount, arg.MeasurementUnit)
	return err
}
