package database

import (
	"context"
)

//go:generate mockgen -source=querier.go -destination=querier_mock.go -package=database

// Querier is the full storage surface. Handlers depend on it through
// env.Database so tests can substitute a fake.
type Querier interface {
	EnsureSchema(ctx context.Context) error
	CheckUsersTableExists(ctx context.Context) (bool, error)

	// Users
	CreateUser(ctx context.Context, arg CreateUserParams) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
	GetAdminCount(ctx context.Context) (int64, error)
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error

	// Auth tokens
	CreateAuthToken(ctx context.Context, arg CreateAuthTokenParams) error
	DeleteAuthToken(ctx context.Context, tokenID string) (bool, error)
	AuthTokenExists(ctx context.Context, tokenID string) (bool, error)
	DeleteExpiredAuthTokens(ctx context.Context) (int64, error)

	// Reference data
	CreateTag(ctx context.Context, arg CreateTagParams) (int64, error)
	ListTags(ctx context.Context) ([]Tag, error)
	GetTag(ctx context.Context, id int64) (Tag, error)
	GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error)
	UpsertIngredient(ctx context.Context, arg UpsertIngredientParams) (int64, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error)
	CountIngredients(ctx context.Context) (int64, error)

	// Recipes
	CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error)
	UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error
	GetRecipe(ctx context.Context, id int64) (Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) (bool, error)
	ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error)
	CountRecipes(ctx context.Context, filter RecipeFilter) (int64, error)
	ListRecipesByAuthor(ctx context.Context, arg ListRecipesByAuthorParams) ([]Recipe, error)
	CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error)
	UpdateRecipeImage(ctx context.Context, arg UpdateRecipeImageParams) error
	ListRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error)
	ListRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredientRow, error)

	// Ledgers
	CreateFavorite(ctx context.Context, arg FavoritePair) (bool, error)
	DeleteFavorite(ctx context.Context, arg FavoritePair) (bool, error)
	FavoriteExists(ctx context.Context, arg FavoritePair) (bool, error)
	CreateFollow(ctx context.Context, arg FollowPair) (bool, error)
	DeleteFollow(ctx context.Context, arg FollowPair) (bool, error)
	FollowExists(ctx context.Context, arg FollowPair) (bool, error)
	ListFollowedAuthors(ctx context.Context, arg ListFollowedAuthorsParams) ([]User, error)
	CountFollows(ctx context.Context, followerID int64) (int64, error)

	// Basket
	UpsertBasketEntry(ctx context.Context, arg UpsertBasketEntryParams) (BasketEntry, error)
	DeleteBasketEntry(ctx context.Context, arg BasketPair) (bool, error)
	BasketEntryExists(ctx context.Context, arg BasketPair) (bool, error)
	ListBasketLines(ctx context.Context, userID int64) ([]BasketLine, error)
}

var _ Querier = (*Queries)(nil)
