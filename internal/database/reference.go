package database

import (
	"context"
)

type CreateTagParams struct {
	Name  string
	Color string
	Slug  string
}

// CreateTag inserts a tag, returning the id of the existing row when the
// slug is already present. Tags are immutable reference data.
func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (int64, error) {
	const query = `
INSERT INTO tags (name, color, slug)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE SET slug = excluded.slug
RETURNING id
`
	var id int64
	err := q.db.QueryRow(ctx, query, arg.Name, arg.Color, arg.Slug).Scan(&id)
	return id, err
}

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.Query(ctx, `SELECT id, name, color, slug FROM tags ORDER BY name`)
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

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	var t Tag
	err := q.db.QueryRow(ctx, `SELECT id, name, color, slug FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	return t, err
}

func (q *Queries) GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error) {
	const query = `SELECT id, name, color, slug FROM tags WHERE id = ANY ($1) ORDER BY name`
	rows, err := q.db.Query(ctx, query, ids)
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

type UpsertIngredientParams struct {
	Name            string
	MeasurementUnit string
}

// UpsertIngredient inserts a catalog ingredient, keeping the existing row on
// re-seed. Idempotent per (name, measurement_unit).
func (q *Queries) UpsertIngredient(ctx context.Context, arg UpsertIngredientParams) (int64, error) {
	const query = `
INSERT INTO ingredients (name, measurement_unit)
VALUES ($1, $2)
ON CONFLICT (name, measurement_unit) DO UPDATE SET name = excluded.name
RETURNING id
`
	var id int64
	err := q.db.QueryRow(ctx, query, arg.Name, arg.MeasurementUnit).Scan(&id)
	return id, err
}

// ListIngredients returns catalog ingredients, optionally filtered by a
// case-insensitive name prefix.
func (q *Queries) ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error) {
	const query = `
SELECT id, name, measurement_unit FROM ingredients
WHERE $1 = '' OR name ILIKE $1 || '%'
ORDER BY name
`
	rows, err := q.db.Query(ctx, query, namePrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	var i Ingredient
	err := q.db.QueryRow(ctx, `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`, id).
		Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

func (q *Queries) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error) {
	const query = `SELECT id, name, measurement_unit FROM ingredients WHERE id = ANY ($1)`
	rows, err := q.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

func (q *Queries) CountIngredients(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM ingredients`).Scan(&count)
	return count, err
}
