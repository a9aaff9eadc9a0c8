// Package users contains handlers for the user resource.
package users

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	apiError "platefeed/internal/api/error"
	"platefeed/internal/api/pagination"
	"platefeed/internal/api/requestid"
	"platefeed/internal/api/token"
	"platefeed/internal/api/view"
	"platefeed/internal/argon2id"
	"platefeed/internal/database"
	"platefeed/internal/env"
	pfJson "platefeed/internal/json"
	"platefeed/internal/password"
)

const defaultRecipePreview = 3

// HandleRegisterUser godoc
//
//	@Summary	Register a user.
//	@Tags		User
//
//	@Accept		json
//	@Param		request	body	RegisterUserRequest	true	"Register User Request"
//
//	@Success	201	{object}	RegisterUserResponse
//	@Failure	409	{object}	apiError.Error	"Status Conflict"
//	@Failure	422	{object}	apiError.Error	"Unprocessible Entity"
//	@Router		/api/users [POST]
func HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request RegisterUserRequest
	env.Logger.DebugContext(ctx, "Reading request body")
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
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	// Ensure password strength
	env.Logger.DebugContext(ctx, "Validating password")
	if err := password.ValidatePassword(request.Password); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID) // OK to share the error with client.
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "Hashing password")
	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	var pgErr *pgconn.PgError
	env.Logger.DebugContext(ctx, "Creating user")
	userID, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        request.Email,
		Username:     request.Username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: hash,
		Role:         database.RoleUser,
	})
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "users_username_key" {
			env.Logger.ErrorContext(ctx, "User with username already exists", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.UsernameConflict, "username already in use", requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "User with email already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.EmailConflict, "email already in use", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(RegisterUserResponse{
		Email:     request.Email,
		ID:        userID,
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// isSubscribed reports whether the requesting user, if any, follows the
// author.
func isSubscribed(r *http.Request, authorID int64) (bool, error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requesterID, ok := token.UserIDFromCtx(ctx)
	if !ok || requesterID == authorID {
		return false, nil
	}
	return env.Database.FollowExists(ctx, database.FollowPair{
		FollowerID: requesterID,
		AuthorID:   authorID,
	})
}

// HandleListUsers godoc
//
//	@Summary	List users.
//	@Tags		User
//
//	@Param		page	query	int	false	"Page number"
//	@Param		limit	query	int	false	"Page size"
//
//	@Success	200	{object}	pagination.Envelope[view.User]
//	@Router		/api/users [GET]
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	params := pagination.Parse(r, env.Config.PageSize)

	env.Logger.DebugContext(ctx, "Listing users")
	users, err := env.Database.ListUsers(ctx, database.ListUsersParams{
		Limit:  int32(params.Limit),
		Offset: int32(params.Offset()),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	count, err := env.Database.CountUsers(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := make([]view.User, 0, len(users))
	for _, u := range users {
		subscribed, err := isSubscribed(r, u.ID)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to check subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		results = append(results, view.BuildUser(u, subscribed))
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

// HandleGetUser godoc
//
//	@Summary	Get a user's public profile.
//	@Tags		User
//
//	@Param		id	path	int	true	"User ID"
//
//	@Success	200	{object}	GetUserResponse
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/users/{id} [GET]
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id := userID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Fetching user")
	user, err := env.Database.GetUserByID(ctx, id.Int64())
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "user does not exist", slog.String("user-id", string(id)))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	subscribed, err := isSubscribed(r, user.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(view.BuildUser(user, subscribed))
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

// HandleGetMe godoc
//
//	@Summary	Get the authenticated user's profile.
//	@Tags		User
//
//	@Success	200	{object}	GetUserResponse
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/users/me [GET]
func HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Fetching user")
	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(view.BuildUser(user, false))
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

// HandleSetPassword godoc
//
//	@Summary	Change the authenticated user's password.
//	@Tags		User
//
//	@Accept		json
//	@Param		request	body	SetPasswordRequest	true	"Set Password Request"
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	422	{object}	apiError.Error	"Unprocessible Entity"
//	@Security	BearerAuth
//	@Router		/api/users/set_password [POST]
func HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Decode JSON
	var request SetPasswordRequest
	env.Logger.DebugContext(ctx, "Reading request body")
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
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	// Verify current password
	env.Logger.DebugContext(ctx, "Verifying current password")
	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	argonParams, argonSalt, trueHash, err := argon2id.DecodeHash(user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode password hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	givenHash := argon2id.HashWithSalt(request.CurrentPassword, *argonParams, argonSalt)
	if subtle.ConstantTimeCompare(givenHash, trueHash) != 1 {
		env.Logger.ErrorContext(ctx, "current password is incorrect")
		_ = apiError.EncodeError(w, apiError.InvalidPassword, "current password is incorrect", requestID)
		return
	}

	// Ensure new password strength
	env.Logger.DebugContext(ctx, "Validating new password")
	if err := password.ValidatePassword(request.NewPassword); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID)
		return
	}

	// Update password
	env.Logger.DebugContext(ctx, "Updating password")
	newHash, err := argon2id.EncodeHash(request.NewPassword, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{
		ID:           userID,
		PasswordHash: newHash,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Best-effort notification; a failed email must not fail the change.
	if env.SMTP != nil {
		if err := env.SMTP.Send([]string{user.Email}, "Your password was changed",
			"Your account password was just changed. If this was not you, contact support."); err != nil {
			env.Logger.WarnContext(ctx, "failed to send password change notice", slog.Any("error", err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListUserRecipes godoc
//
//	@Summary	List an author's recipes.
//	@Tags		User
//
//	@Param		id		path	int	true	"User ID"
//	@Param		page	query	int	false	"Page number"
//	@Param		limit	query	int	false	"Page size"
//
//	@Success	200	{object}	pagination.Envelope[view.RecipeCard]
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/users/{id}/recipes [GET]
func HandleListUserRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id := userID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	if _, err := env.Database.GetUserByID(ctx, id.Int64()); errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "user does not exist", slog.String("user-id", string(id)))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	params := pagination.Parse(r, env.Config.PageSize)
	filter := database.RecipeFilter{AuthorID: pgtype.Int8{Int64: id.Int64(), Valid: true}}

	env.Logger.DebugContext(ctx, "Listing author recipes")
	recipes, err := env.Database.ListRecipes(ctx, database.ListRecipesParams{
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

	results := view.BuildRecipeCards(env.Config.HostOrigin, recipes)

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

// buildSubscription assembles the author profile with recipe previews.
func buildSubscription(r *http.Request, author database.User, recipeLimit int32) (view.Subscription, error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	recipes, err := env.Database.ListRecipesByAuthor(ctx, database.ListRecipesByAuthorParams{
		AuthorID: author.ID,
		Limit:    recipeLimit,
	})
	if err != nil {
		return view.Subscription{}, fmt.Errorf("listing author recipes: %w", err)
	}
	count, err := env.Database.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return view.Subscription{}, fmt.Errorf("counting author recipes: %w", err)
	}
	return view.Subscription{
		User:         view.BuildUser(author, true),
		Recipes:      view.BuildRecipeCards(env.Config.HostOrigin, recipes),
		RecipesCount: count,
	}, nil
}

// recipePreviewLimit reads the recipes_limit query param.
func recipePreviewLimit(r *http.Request) int32 {
	raw := r.URL.Query().Get("recipes_limit")
	if raw == "" {
		return defaultRecipePreview
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 0 {
		return defaultRecipePreview
	}
	return int32(limit)
}

// HandleSubscribe godoc
//
//	@Summary	Subscribe to an author.
//	@Tags		User
//
//	@Param		id	path	int	true	"Author ID"
//
//	@Success	201	{object}	SubscribeResponse
//	@Failure	400	{object}	apiError.Error	"Self subscription"
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Failure	409	{object}	apiError.Error	"Already subscribed"
//	@Security	BearerAuth
//	@Router		/api/users/{id}/subscribe [POST]
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	followerID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	id := userID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}
	if id.Int64() == followerID {
		env.Logger.ErrorContext(ctx, "user attempted to subscribe to themselves")
		_ = apiError.EncodeError(w, apiError.SelfSubscription, "cannot subscribe to yourself", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Fetching author")
	author, err := env.Database.GetUserByID(ctx, id.Int64())
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "author does not exist", slog.String("user-id", string(id)))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get author", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Creating subscription")
	created, err := env.Database.CreateFollow(ctx, database.FollowPair{
		FollowerID: followerID,
		AuthorID:   author.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !created {
		env.Logger.ErrorContext(ctx, "subscription already exists")
		_ = apiError.EncodeError(w, apiError.AlreadySubscribed,
			fmt.Sprintf("already subscribed to %s", author.Username), requestID)
		return
	}

	subscription, err := buildSubscription(r, author, recipePreviewLimit(r))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to build subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(subscription)
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

// HandleUnsubscribe godoc
//
//	@Summary	Unsubscribe from an author.
//	@Tags		User
//
//	@Param		id	path	int	true	"Author ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Not subscribed"
//	@Security	BearerAuth
//	@Router		/api/users/{id}/subscribe [DELETE]
func HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	followerID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	id := userID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Fetching author")
	author, err := env.Database.GetUserByID(ctx, id.Int64())
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "author does not exist", slog.String("user-id", string(id)))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get author", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Deleting subscription")
	deleted, err := env.Database.DeleteFollow(ctx, database.FollowPair{
		FollowerID: followerID,
		AuthorID:   author.ID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !deleted {
		env.Logger.ErrorContext(ctx, "subscription does not exist")
		_ = apiError.EncodeError(w, apiError.NotSubscribed,
			fmt.Sprintf("not subscribed to %s", author.Username), requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListSubscriptions godoc
//
//	@Summary	List followed authors with recipe previews.
//	@Tags		User
//
//	@Param		page			query	int	false	"Page number"
//	@Param		limit			query	int	false	"Page size"
//	@Param		recipes_limit	query	int	false	"Recipes per author"
//
//	@Success	200	{object}	pagination.Envelope[view.Subscription]
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/users/subscriptions [GET]
func HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	followerID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	params := pagination.Parse(r, env.Config.PageSize)
	previewLimit := recipePreviewLimit(r)

	env.Logger.DebugContext(ctx, "Listing subscriptions")
	authors, err := env.Database.ListFollowedAuthors(ctx, database.ListFollowedAuthorsParams{
		FollowerID: followerID,
		Limit:      int32(params.Limit),
		Offset:     int32(params.Offset()),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	count, err := env.Database.CountFollows(ctx, followerID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := make([]view.Subscription, 0, len(authors))
	for _, author := range authors {
		subscription, err := buildSubscription(r, author, previewLimit)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to build subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		results = append(results, subscription)
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
