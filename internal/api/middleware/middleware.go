// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"

	apiError "platefeed/internal/api/error"
	"platefeed/internal/api/requestid"
	"platefeed/internal/api/token"
	"platefeed/internal/config"
	"platefeed/internal/env"
	pfJwt "platefeed/internal/jwt"
	"platefeed/internal/log"
	"platefeed/internal/role"

	"github.com/oklog/ulid/v2"
)

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			requestID := r.Context().Value(requestIDKey)
			if id, ok := requestID.(uint64); ok {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")
		hostOrigin := e.Config.HostOrigin
		isProd := e.Config.Env == config.EnvProd

		// Determine allowed origin based on the incoming Origin header
		var allowedOrigin string
		if isProd {
			allowedOrigin = hostOrigin
		} else if origin != "" {
			// In dev mode, allow all origins
			allowedOrigin = origin
		}

		if allowedOrigin == "" && hostOrigin != "" {
			// Fallback to the configured origin if no matching origin
			allowedOrigin = hostOrigin
		}

		if allowedOrigin == "" {
			e.Logger.WarnContext(r.Context(),
				"host origin not configured and no valid origin found; Access-Control-Allow-Origin will be empty")
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate validates the bearer token on the request and, on
// success, returns the request with user id, token id and role
// attached to its context. A nil *apiError.Error means success.
func authenticate(r *http.Request) (*http.Request, role.Role, *apiError.Error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := fmt.Sprintf("%d", requestid.ExtractRequestID(ctx))

	fail := func(code apiError.ErrorCode, message string) (*http.Request, role.Role, *apiError.Error) {
		return r, role.RoleUnknown, &apiError.Error{
			Code:    code,
			Status:  code.StatusCode(),
			Message: message,
			ErrorID: requestID,
		}
	}

	rawToken, err := token.FromRequest(r)
	if err != nil {
		env.Logger.DebugContext(ctx, "unable to get bearer token", slog.Any("error", err))
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}

	secret := env.Config.Secret()
	if secret == "" {
		env.Logger.ErrorContext(ctx, "app secret not configured")
		return fail(apiError.InternalServerError, "internal server error")
	}
	secretVersion := env.Config.AppSecret.Version
	if secretVersion == "" {
		secretVersion = pfJwt.DefaultKID
	}

	accessJwt, err := pfJwt.ValidateJWT(rawToken, secretVersion, []byte(secret))
	if errors.Is(err, jwt.ErrTokenExpired) {
		env.Logger.DebugContext(ctx, "access token expired", slog.Any("error", err))
		return fail(apiError.ExpiredAccessToken, "access token expired")
	} else if err != nil {
		env.Logger.DebugContext(ctx, "invalid access token", slog.Any("error", err))
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}

	tokenID, err := pfJwt.TokenID(accessJwt)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract token id from jwt", slog.Any("error", err))
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}

	// A signed token is only good while its server-side row exists.
	// Logout deletes the row, revoking the token immediately.
	exists, err := env.Database.AuthTokenExists(ctx, tokenID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check auth token", slog.Any("error", err))
		return fail(apiError.InternalServerError, "internal server error")
	}
	if !exists {
		env.Logger.DebugContext(ctx, "auth token revoked or unknown")
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}

	sub, err := accessJwt.Claims.GetSubject()
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract subject from jwt", slog.Any("error", err))
		return fail(apiError.InternalServerError, "internal server error")
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		return fail(apiError.InternalServerError, "internal server error")
	}

	roleClaim, _ := accessJwt.Claims.(jwt.MapClaims)["role"].(string)
	userRole := role.ToRole(roleClaim)

	r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
	r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))
	r = r.WithContext(token.TokenIDWithCtx(r.Context(), tokenID))
	return r, userRole, nil
}

// AuthorizeRequest creates a middleware that validates bearer tokens and checks user roles.
func AuthorizeRequest(requiredRole role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, userRole, authErr := authenticate(r)
			if authErr != nil {
				_ = apiError.Encode(w, authErr)
				return
			}
			if userRole < requiredRole {
				env := env.EnvFromCtx(r.Context())
				env.Logger.ErrorContext(r.Context(), "user does not have required role",
					slog.String("user-role", userRole.String()),
					slog.String("required-role", requiredRole.String()))
				requestID := fmt.Sprintf("%d", requestid.ExtractRequestID(r.Context()))
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth attaches the requesting user to the context when a valid
// bearer token is present and passes the request through anonymously
// otherwise. Used on read endpoints whose responses vary per user.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		authed, _, authErr := authenticate(r)
		if authErr != nil {
			// A malformed token on an optional endpoint is still rejected
			// so clients notice expired credentials.
			_ = apiError.Encode(w, authErr)
			return
		}
		next.ServeHTTP(w, authed)
	})
}
