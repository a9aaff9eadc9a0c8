// Package view builds the JSON shapes shared across route packages.
package view

import (
	"strings"

	"platefeed/internal/database"
)

type User struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredient is an ingredient with its per-recipe amount.
type RecipeIngredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type Recipe struct {
	ID               int64              `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           User               `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int32              `json:"cooking_time"`
}

// RecipeCard is the minified recipe used in favorite, cart and
// subscription responses.
type RecipeCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

// Subscription is a followed author together with a preview of their
// recipes.
type Subscription struct {
	User
	Recipes      []RecipeCard `json:"recipes"`
	RecipesCount int64        `json:"recipes_count"`
}

func BuildUser(u database.User, isSubscribed bool) User {
	return User{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func BuildTag(t database.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func BuildTags(tags []database.Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, BuildTag(t))
	}
	return out
}

func BuildIngredient(i database.Ingredient) Ingredient {
	return Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func BuildRecipeIngredients(rows []database.RecipeIngredientRow) []RecipeIngredient {
	out := make([]RecipeIngredient, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecipeIngredient{
			ID:              row.IngredientID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return out
}

// ImageURL makes a stored image path absolute against the host origin.
// Already-absolute URLs pass through untouched.
func ImageURL(hostOrigin, stored string) string {
	if stored == "" {
		return ""
	}
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return stored
	}
	return strings.TrimRight(hostOrigin, "/") + "/" + strings.TrimLeft(stored, "/")
}

type RecipeParts struct {
	Recipe           database.Recipe
	Author           database.User
	Tags             []database.Tag
	Ingredients      []database.RecipeIngredientRow
	IsSubscribed     bool
	IsFavorited      bool
	IsInShoppingCart bool
}

func BuildRecipe(hostOrigin string, parts RecipeParts) Recipe {
	return Recipe{
		ID:               parts.Recipe.ID,
		Tags:             BuildTags(parts.Tags),
		Author:           BuildUser(parts.Author, parts.IsSubscribed),
		Ingredients:      BuildRecipeIngredients(parts.Ingredients),
		IsFavorited:      parts.IsFavorited,
		IsInShoppingCart: parts.IsInShoppingCart,
		Name:             parts.Recipe.Name,
		Image:            ImageURL(hostOrigin, parts.Recipe.ImageURL.String),
		Text:             parts.Recipe.Text,
		CookingTime:      parts.Recipe.CookingTime,
	}
}

func BuildRecipeCard(hostOrigin string, r database.Recipe) RecipeCard {
	return RecipeCard{
		ID:          r.ID,
		Name:        r.Name,
		Image:       ImageURL(hostOrigin, r.ImageURL.String),
		CookingTime: r.CookingTime,
	}
}

func BuildRecipeCards(hostOrigin string, recipes []database.Recipe) []RecipeCard {
	out := make([]RecipeCard, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, BuildRecipeCard(hostOrigin, r))
	}
	return out
}
