// Package auth contains handlers for the auth endpoints
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	apiError "platefeed/internal/api/error"
	"platefeed/internal/api/requestid"
	"platefeed/internal/api/token"
	"platefeed/internal/argon2id"
	"platefeed/internal/env"
	pfJson "platefeed/internal/json"
)

// HandleTokenLogin godoc
//
//	@Summary	Exchange credentials for a bearer token.
//	@Tags		Auth
//
//	@Accept		json
//	@Param		request	body	TokenLoginRequest	true	"Token Login Request"
//
//	@Success	201	{object}	TokenLoginResponse
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Router		/api/auth/token/login [POST]
func HandleTokenLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request TokenLoginRequest
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

	// Retrieve user information
	env.Logger.DebugContext(ctx, "Retrieving user information")
	user, err := env.Database.GetUserByEmail(ctx, request.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "User with email does not exist", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user information", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Decode user password
	env.Logger.DebugContext(ctx, "Decoding user password")
	argonParams, argonSalt, trueHash, err := argon2id.DecodeHash(user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode password hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Hash given password and compare
	env.Logger.DebugContext(ctx, "Comparing passwords")
	givenHash := argon2id.HashWithSalt(request.Password, *argonParams, argonSalt)
	if subtle.ConstantTimeCompare(givenHash, trueHash) != 1 {
		env.Logger.ErrorContext(ctx, "Given password is incorrect")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	}

	// Issue bearer token
	env.Logger.DebugContext(ctx, "Issuing bearer token")
	bearer, err := token.Issue(ctx, env, user)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to issue bearer token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(TokenLoginResponse{AuthToken: bearer})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleTokenLogout godoc
//
//	@Summary	Revoke the presented bearer token.
//	@Tags		Auth
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/auth/token/logout [POST]
func HandleTokenLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	tokenID, ok := token.TokenIDFromCtx(ctx)
	if !ok {
		env.Logger.ErrorContext(ctx, "failed to extract token id from context")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Revoking bearer token")
	deleted, err := env.Database.DeleteAuthToken(ctx, tokenID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete auth token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !deleted {
		env.Logger.DebugContext(ctx, "auth token already revoked")
	}
	w.WriteHeader(http.StatusNoContent)
}
