package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}

type AuthToken struct {
	ID        int64
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	Text        string
	CookingTime int32
	ImageURL    pgtype.Text
	CreatedAt   time.Time
}

// RecipeIngredientRow is an association row joined with its ingredient.
type RecipeIngredientRow struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

type BasketEntry struct {
	ID          int64
	UserID      int64
	RecipeID    int64
	Quantity    int32
	CookingTime int32
	CreatedAt   time.Time
}

// BasketLine is one recipe-ingredient association scaled by the basket
// entry that references it. Input to the shopping list aggregation.
type BasketLine struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int32
	Quantity        int32
}
