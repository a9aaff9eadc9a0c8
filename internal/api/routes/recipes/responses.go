package recipes

import "platefeed/internal/api/view"

type GetRecipeResponse = view.Recipe

type RecipeCardResponse = view.RecipeCard
