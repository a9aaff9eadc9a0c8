// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	apiError "platefeed/internal/api/error"
	"platefeed/internal/api/pagination"
	"platefeed/internal/api/requestid"
	"platefeed/internal/api/token"
	"platefeed/internal/api/view"
	"platefeed/internal/database"
	"platefeed/internal/env"
	pfJson "platefeed/internal/json"
	"platefeed/internal/recipe"
	"platefeed/internal/shoppinglist"
)

const maxBodySize = 20 << 20 // base64 images ride in the JSON body

// requesterFlags computes the per-user response flags for a recipe.
func requesterFlags(r *http.Request, rec database.Recipe) (favorited, inCart, subscribed bool, err error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requesterID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		return false, false, false, nil
	}

	favorited, err = env.Database.FavoriteExists(ctx, database.FavoritePair{
		UserID:   requesterID,
		RecipeID: rec.ID,
	})
	if err != nil {
		return false, false, false, fmt.Errorf("checking favorite: %w", err)
	}
	inCart, err = env.Database.BasketEntryExists(ctx, database.BasketPair{
		UserID:   requesterID,
		RecipeID: rec.ID,
	})
	if err != nil {
		return false, false, false, fmt.Errorf("checking basket: %w", err)
	}
	if requesterID != rec.AuthorID {
		subscribed, err = env.Database.FollowExists(ctx, database.FollowPair{
			FollowerID: requesterID,
			AuthorID:   rec.AuthorID,
		})
		if err != nil {
			return false, false, false, fmt.Errorf("checking subscription: %w", err)
		}
	}
	return favorited, inCart, subscribed, nil
}

// buildRecipeView assembles the full recipe response.
func buildRecipeView(r *http.Request, rec database.Recipe) (view.Recipe, error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	author, err := env.Database.GetUserByID(ctx, rec.AuthorID)
	if err != nil {
		return view.Recipe{}, fmt.Errorf("fetching author: %w", err)
	}
	tags, err := env.Database.ListRecipeTags(ctx, rec.ID)
	if err != nil {
		return view.Recipe{}, fmt.Errorf("listing tags: %w", err)
	}
	ingredients, err := env.Database.ListRecipeIngredients(ctx, rec.ID)
	if err != nil {
		return view.Recipe{}, fmt.Errorf("listing ingredients: %w", err)
	}
	favorited, inCart, subscribed, err := requesterFlags(r, rec)
	if err != nil {
		return view.Recipe{}, err
	}

	return view.BuildRecipe(env.Config.HostOrigin, view.RecipeParts{
		Recipe:           rec,
		Author:           author,
		Tags:             tags,
		Ingredients:      ingredients,
		IsSubscribed:     subscribed,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
	}), nil
}

// resolveTags looks up the submitted tag ids and fails on the first
// missing one.
func resolveTags(r *http.Request, ids []int64) ([]database.Tag, *apiError.Error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	tags, err := env.Database.GetTagsByIDs(ctx, ids)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch tags", slog.Any("error", err))
		return nil, &apiError.Error{
			Code:    apiError.InternalServerError,
			Status:  apiError.InternalServerError.StatusCode(),
			Message: "internal server error",
			ErrorID: requestID,
		}
	}
	found := make(map[int64]bool, len(tags))
	for _, tag := range tags {
		found[tag.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, &apiError.Error{
				Code:    apiError.TagNotFound,
				Status:  apiError.TagNotFound.StatusCode(),
				Message: fmt.Sprintf("tag %d not found", id),
				ErrorID: requestID,
			}
		}
	}
	return tags, nil
}

// resolveIngredients verifies that every submitted ingredient exists and
// returns a catalog unit per id. The whole operation fails on the first
// unknown id.
func resolveIngredients(r *http.Request, items []IngredientItem) (map[int64]string, *apiError.Error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	rows, err := env.Database.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch ingredients", slog.Any("error", err))
		return nil, &apiError.Error{
			Code:    apiError.InternalServerError,
			Status:  apiError.InternalServerError.StatusCode(),
			Message: "internal server error",
			ErrorID: requestID,
		}
	}
	units := make(map[int64]string, len(rows))
	for _, row := range rows {
		units[row.ID] = row.MeasurementUnit
	}
	for _, id := range ids {
		if _, ok := units[id]; !ok {
			return nil, &apiError.Error{
				Code:    apiError.IngredientNotFound,
				Status:  apiError.IngredientNotFound.StatusCode(),
				Message: fmt.Sprintf("ingredient %d not found", id),
				ErrorID: requestID,
			}
		}
	}
	return units, nil
}

// encodeImageError maps image decode failures to 400 and anything else
// to 500.
func encodeImageError(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, recipe.ErrNotDataURI) || errors.Is(err, recipe.ErrUnsupportedMimeType) {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	_ = apiError.EncodeInternalError(w, requestID)
}

// writeImage writes an already-decoded image to the media store,
// recording the resulting URL on the recipe.
func writeImage(r *http.Request, recipeID int64, img *recipe.Image) (string, error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	urlPath, err := env.Media.WriteRecipeImage(ctx, recipeID, img.Suffix, img.Data)
	if err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	if err := env.Database.UpdateRecipeImage(ctx, database.UpdateRecipeImageParams{
		ID:       recipeID,
		ImageURL: pgtype.Text{String: urlPath, Valid: true},
	}); err != nil {
		return "", fmt.Errorf("recording image url: %w", err)
	}
	return urlPath, nil
}

// parseFilter builds the listing filter from query params.
func parseFilter(r *http.Request) database.RecipeFilter {
	q := r.URL.Query()
	filter := database.RecipeFilter{
		Name: q.Get("name"),
		Tags: q["tags"],
	}
	if author := q.Get("author"); author != "" {
		if id, err := strconv.ParseInt(author, 10, 64); err == nil {
			filter.AuthorID = pgtype.Int8{Int64: id, Valid: true}
		}
	}
	requesterID, authed := token.UserIDFromCtx(r.Context())
	if authed {
		// The favorite and cart filters select rows the requester
		// favorited / carted, regardless of recipe author.
		if q.Get("is_favorited") == "1" || q.Get("is_favorited") == "true" {
			filter.FavoritedBy = pgtype.Int8{Int64: requesterID, Valid: true}
		}
		if q.Get("is_in_shopping_cart") == "1" || q.Get("is_in_shopping_cart") == "true" {
			filter.InBasketOf = pgtype.Int8{Int64: requesterID, Valid: true}
		}
	}
	return filter
}

// HandleListRecipes godoc
//
//	@Summary	List recipes.
//	@Tags		Recipes
//
//	@Param		page				query	int		false	"Page number"
//	@Param		limit				query	int		false	"Page size"
//	@Param		name				query	string	false	"Name substring"
//	@Param		tags				query	[]string	false	"Tag filters"
//	@Param		author				query	int		false	"Author ID"
//	@Param		is_favorited		query	bool	false	"Only favorited recipes"
//	@Param		is_in_shopping_cart	query	bool	false	"Only carted recipes"
//
//	@Success	200	{object}	pagination.Envelope[view.Recipe]
//	@Router		/api/recipes [GET]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	params := pagination.Parse(r, env.Config.PageSize)
	filter := parseFilter(r)

	env.Logger.DebugContext(ctx, "Listing recipes")
	rows, err := env.Database.ListRecipes(ctx, database.ListRecipesParams{
		Filter: filter,
		Limit:  int32(params.Limit),
		Offset: int32(params.Offset()),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	count, err := env.Database.CountRecipes(ctx, filter)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := make([]view.Recipe, 0, len(rows))
	for _, row := range rows {
		item, err := buildRecipeView(r, row)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to build recipe view", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		results = append(results, item)
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(pagination.Paginate(r, env.Config.HostOrigin, params, count, results))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleCreateRecipe godoc
//
//	@Summary	Create a recipe.
//	@Tags		Recipes
//
//	@Accept		json
//	@Param		request	body	CreateRecipeRequest	true	"Create Recipe Request"
//
//	@Success	201	{object}	GetRecipeResponse
//	@Failure	400	{object}	apiError.Error	"Bad Request"
//	@Failure	404	{object}	apiError.Error	"Unknown tag or ingredient"
//	@Security	BearerAuth
//	@Router		/api/recipes [POST]
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	authorID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Decode JSON
	var request CreateRecipeRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := pfJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "invalid request body", requestID)
		return
	}

	// Decode the image before anything is persisted; a bad image must not
	// leave a recipe row behind.
	img, err := recipe.DecodeImage(request.Image)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode image", slog.Any("error", err))
		encodeImageError(w, err, requestID)
		return
	}

	// Resolve references
	env.Logger.DebugContext(ctx, "Resolving tags and ingredients")
	if _, apiErr := resolveTags(r, request.Tags); apiErr != nil {
		_ = apiError.Encode(w, apiErr)
		return
	}
	units, apiErr := resolveIngredients(r, request.Ingredients)
	if apiErr != nil {
		_ = apiError.Encode(w, apiErr)
		return
	}

	// Reconcile against an empty set: dedupes the submission with
	// last-occurrence-wins semantics.
	submitted := make([]recipe.Item, 0, len(request.Ingredients))
	for _, item := range request.Ingredients {
		submitted = append(submitted, recipe.Item{IngredientID: item.ID, Amount: item.Amount})
	}
	plan := recipe.Reconcile(nil, submitted)

	associations := make([]database.RecipeIngredientParams, 0, len(plan.Inserts))
	for _, item := range plan.Inserts {
		associations = append(associations, database.RecipeIngredientParams{
			IngredientID:    item.IngredientID,
			Amount:          item.Amount,
			MeasurementUnit: units[item.IngredientID],
		})
	}

	// Create recipe
	env.Logger.DebugContext(ctx, "Creating recipe")
	recipeID, err := env.Database.CreateRecipe(ctx, database.CreateRecipeParams{
		AuthorID:    authorID,
		Name:        request.Name,
		Text:        request.Text,
		CookingTime: request.CookingTime,
		TagIDs:      request.Tags,
		Ingredients: associations,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Store image
	env.Logger.DebugContext(ctx, "Storing recipe image")
	if _, err := writeImage(r, recipeID, img); err != nil {
		env.Logger.ErrorContext(ctx, "failed to store image", slog.Any("error", err))
		// Remove the recipe again rather than leave an imageless row.
		if _, derr := env.Database.DeleteRecipe(ctx, recipeID); derr != nil {
			env.Logger.ErrorContext(ctx, "failed to remove recipe after image failure",
				slog.Any("error", derr), slog.Int64("recipe-id", recipeID))
		}
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	created, err := env.Database.GetRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch created recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	full, err := buildRecipeView(r, created)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to build recipe view", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(full)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetRecipe godoc
//
//	@Summary	Get a recipe.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	200	{object}	GetRecipeResponse
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/recipes/{id} [GET]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id := recipeID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Fetching recipe")
	rec, err := env.Database.GetRecipe(ctx, id.Int64())
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "recipe does not exist", slog.String("recipe-id", string(id)))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	full, err := buildRecipeView(r, rec)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to build recipe view", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(full)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// fetchOwnedRecipe loads a recipe and enforces that the requester is its
// author. Ownership is checked before anything else is revealed.
func fetchOwnedRecipe(w http.ResponseWriter, r *http.Request) (database.Recipe, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return database.Recipe{}, false
	}

	id := recipeID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return database.Recipe{}, false
	}

	rec, err := env.Database.GetRecipe(ctx, id.Int64())
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "recipe does not exist", slog.String("recipe-id", string(id)))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return database.Recipe{}, false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return database.Recipe{}, false
	}

	if rec.AuthorID != userID {
		env.Logger.ErrorContext(ctx, "user does not own recipe",
			slog.Int64("user-id", userID), slog.Int64("author-id", rec.AuthorID))
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return database.Recipe{}, false
	}
	return rec, true
}

// HandleUpdateRecipe godoc
//
//	@Summary	Update a recipe.
//	@Tags		Recipes
//
//	@Accept		json
//	@Param		id		path	int					true	"Recipe ID"
//	@Param		request	body	UpdateRecipeRequest	true	"Update Recipe Request"
//
//	@Success	200	{object}	GetRecipeResponse
//	@Failure	403	{object}	apiError.Error	"User does not own recipe"
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id} [PATCH]
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	rec, ok := fetchOwnedRecipe(w, r)
	if !ok {
		return
	}

	// Decode JSON
	var request UpdateRecipeRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := pfJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "invalid request body", requestID)
		return
	}

	// Decode a replacement image up front so a bad one rejects the whole
	// patch before anything is written.
	var img *recipe.Image
	if request.Image != "" {
		var err error
		img, err = recipe.DecodeImage(request.Image)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to decode image", slog.Any("error", err))
			encodeImageError(w, err, requestID)
			return
		}
	}

	// Resolve references
	tagIDs := request.Tags
	if tagIDs == nil {
		existingTags, err := env.Database.ListRecipeTags(ctx, rec.ID)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to list recipe tags", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		tagIDs = make([]int64, 0, len(existingTags))
		for _, tag := range existingTags {
			tagIDs = append(tagIDs, tag.ID)
		}
	} else if _, apiErr := resolveTags(r, tagIDs); apiErr != nil {
		_ = apiError.Encode(w, apiErr)
		return
	}

	// Reconcile ingredients when submitted; an omitted list leaves the
	// associations untouched, an included one replaces the set.
	var plan recipe.Plan
	units := map[int64]string{}
	if request.Ingredients != nil {
		var apiErr *apiError.Error
		units, apiErr = resolveIngredients(r, request.Ingredients)
		if apiErr != nil {
			_ = apiError.Encode(w, apiErr)
			return
		}

		rows, err := env.Database.ListRecipeIngredients(ctx, rec.ID)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to list recipe ingredients", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		existing := make([]recipe.Association, 0, len(rows))
		for _, row := range rows {
			existing = append(existing, recipe.Association{
				IngredientID: row.IngredientID,
				Amount:       row.Amount,
			})
		}
		submitted := make([]recipe.Item, 0, len(request.Ingredients))
		for _, item := range request.Ingredients {
			submitted = append(submitted, recipe.Item{IngredientID: item.ID, Amount: item.Amount})
		}
		plan = recipe.Reconcile(existing, submitted)
	}

	name := rec.Name
	if request.Name != "" {
		name = request.Name
	}
	text := rec.Text
	if request.Text != "" {
		text = request.Text
	}
	cookingTime := rec.CookingTime
	if request.CookingTime != 0 {
		cookingTime = request.CookingTime
	}

	// Apply update
	env.Logger.DebugContext(ctx, "Updating recipe")
	if err := env.Database.UpdateRecipe(ctx, database.UpdateRecipeParams{
		ID:          rec.ID,
		Name:        name,
		Text:        text,
		CookingTime: cookingTime,
		TagIDs:      tagIDs,
		Plan:        plan,
		Units:       units,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Replace image when submitted
	if img != nil {
		env.Logger.DebugContext(ctx, "Storing recipe image")
		if _, err := writeImage(r, rec.ID, img); err != nil {
			env.Logger.ErrorContext(ctx, "failed to store image", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
	}

	updated, err := env.Database.GetRecipe(ctx, rec.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch updated recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	full, err := buildRecipeView(r, updated)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to build recipe view", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(full)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleDeleteRecipe godoc
//
//	@Summary	Delete a recipe.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	403	{object}	apiError.Error	"User does not own recipe"
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id} [DELETE]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	rec, ok := fetchOwnedRecipe(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "Deleting recipe")
	if _, err := env.Database.DeleteRecipe(ctx, rec.ID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Associated tag and ingredient rows cascade; the image is removed
	// best-effort.
	if rec.ImageURL.Valid && rec.ImageURL.String != "" {
		if err := env.Media.Remove(ctx, rec.ImageURL.String); err != nil {
			env.Logger.WarnContext(ctx, "failed to remove recipe image", slog.Any("error", err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// fetchRecipeForLedger resolves the {id} param for favorite/cart
// endpoints.
func fetchRecipeForLedger(w http.ResponseWriter, r *http.Request) (database.Recipe, int64, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return database.Recipe{}, 0, false
	}

	id := recipeID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return database.Recipe{}, 0, false
	}

	rec, err := env.Database.GetRecipe(ctx, id.Int64())
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "recipe does not exist", slog.String("recipe-id", string(id)))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return database.Recipe{}, 0, false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return database.Recipe{}, 0, false
	}
	return rec, userID, true
}

// HandleFavorite godoc
//
//	@Summary	Favorite a recipe.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	200	{object}	RecipeCardResponse	"Already favorited"
//	@Success	201	{object}	RecipeCardResponse	"Favorited"
//	@Failure	404	{object}	apiError.Error		"Not Found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/favorite [POST]
func HandleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	rec, userID, ok := fetchRecipeForLedger(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "Creating favorite")
	created, err := env.Database.CreateFavorite(ctx, database.FavoritePair{
		UserID:   userID,
		RecipeID: rec.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create favorite", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(view.BuildRecipeCard(env.Config.HostOrigin, rec))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if created {
		w.WriteHeader(http.StatusCreated)
	}
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleUnfavorite godoc
//
//	@Summary	Remove a recipe from favorites.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Not favorited"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/favorite [DELETE]
func HandleUnfavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	rec, userID, ok := fetchRecipeForLedger(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "Deleting favorite")
	deleted, err := env.Database.DeleteFavorite(ctx, database.FavoritePair{
		UserID:   userID,
		RecipeID: rec.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete favorite", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !deleted {
		env.Logger.ErrorContext(ctx, "favorite does not exist")
		_ = apiError.EncodeError(w, apiError.NotFavorited, "recipe not in favorites", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddToCart godoc
//
//	@Summary	Add a recipe to the shopping cart.
//	@Tags		Recipes
//
//	@Accept		json
//	@Param		id		path	int					true	"Recipe ID"
//	@Param		request	body	AddToCartRequest	false	"Optional quantity, defaults to 1"
//
//	@Success	201	{object}	RecipeCardResponse
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/shopping_cart [POST]
func HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	rec, userID, ok := fetchRecipeForLedger(w, r)
	if !ok {
		return
	}

	// An empty body means quantity 1; re-adding replaces the quantity.
	quantity := int32(1)
	if r.Body != nil && r.ContentLength != 0 {
		var request AddToCartRequest
		defer func() { _ = r.Body.Close() }()
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := pfJson.DecodeJSON(&request, decoder); err != nil {
			env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
			return
		}
		validate := validator.New(validator.WithRequiredStructEnabled())
		if err := validate.Struct(request); err != nil {
			env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "invalid request body", requestID)
			return
		}
		if request.Quantity > 0 {
			quantity = request.Quantity
		}
	}

	env.Logger.DebugContext(ctx, "Upserting basket entry")
	if _, err := env.Database.UpsertBasketEntry(ctx, database.UpsertBasketEntryParams{
		UserID:      userID,
		RecipeID:    rec.ID,
		Quantity:    quantity,
		CookingTime: rec.CookingTime,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to upsert basket entry", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(view.BuildRecipeCard(env.Config.HostOrigin, rec))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleRemoveFromCart godoc
//
//	@Summary	Remove a recipe from the shopping cart.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Not in cart"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/shopping_cart [DELETE]
func HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	rec, userID, ok := fetchRecipeForLedger(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "Deleting basket entry")
	deleted, err := env.Database.DeleteBasketEntry(ctx, database.BasketPair{
		UserID:   userID,
		RecipeID: rec.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete basket entry", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !deleted {
		env.Logger.ErrorContext(ctx, "basket entry does not exist")
		_ = apiError.EncodeError(w, apiError.NotInBasket, "recipe not in shopping cart", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDownloadShoppingCart godoc
//
//	@Summary	Download the aggregated shopping list.
//	@Tags		Recipes
//
//	@Produce	plain
//	@Success	200	{string}	string
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/recipes/download_shopping_cart [GET]
func HandleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Listing basket lines")
	rows, err := env.Database.ListBasketLines(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list basket lines", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	lines := make([]shoppinglist.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, shoppinglist.Line{
			IngredientID:    row.IngredientID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
			Quantity:        row.Quantity,
		})
	}
	body := shoppinglist.Render(shoppinglist.Aggregate(lines))

	env.Logger.DebugContext(ctx, "Writing response")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", shoppinglist.Filename))
	if _, err := w.Write([]byte(body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
