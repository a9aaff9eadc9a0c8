package recipes

import (
	"errors"
	"strconv"
)

type recipeID string

func (r recipeID) Validate() error {
	v, err := strconv.ParseInt(string(r), 10, 64)
	if err != nil {
		return errors.New("expected an integer")
	}
	if v < 0 {
		return errors.New("recipe id should be non-negative")
	}
	return nil
}

func (r recipeID) Int64() int64 {
	v, _ := strconv.ParseInt(string(r), 10, 64)
	return v
}

// IngredientItem is one submitted recipe-ingredient association. Both
// fields are mandatory; an item without an id or amount is a validation
// error, never silently dropped.
type IngredientItem struct {
	ID     int64 `json:"id" validate:"required,min=1"`
	Amount int32 `json:"amount" validate:"required,min=1,max=32000"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientItem `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64          `json:"tags" validate:"required,min=1,dive,min=1"`
	Image       string           `json:"image" validate:"required"`
	Name        string           `json:"name" validate:"required,max=200"`
	Text        string           `json:"text" validate:"required"`
	CookingTime int32            `json:"cooking_time" validate:"required,min=1,max=32000"`
}

// UpdateRecipeRequest carries partial updates; nil slices and empty
// strings mean "leave unchanged".
type UpdateRecipeRequest struct {
	Ingredients []IngredientItem `json:"ingredients" validate:"omitempty,min=1,dive"`
	Tags        []int64          `json:"tags" validate:"omitempty,min=1,dive,min=1"`
	Image       string           `json:"image"`
	Name        string           `json:"name" validate:"omitempty,max=200"`
	Text        string           `json:"text"`
	CookingTime int32            `json:"cooking_time" validate:"omitempty,min=1,max=32000"`
}

type AddToCartRequest struct {
	Quantity int32 `json:"quantity" validate:"omitempty,min=1,max=32000"`
}
