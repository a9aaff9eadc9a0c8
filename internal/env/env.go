// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"platefeed/internal/config"
	"platefeed/internal/database"
	"platefeed/internal/email"
	"platefeed/internal/filestore"
	"platefeed/internal/http"
	"platefeed/internal/log"
)

type Env struct {
	Logger   *slog.Logger
	Database *database.Database
	Media    filestore.MediaStore
	SMTP     email.Sender
	HTTP     *http.HTTP
	Config   config.Config
}

func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
	}
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects the environment into a context.
func WithCtx(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// EnvFromCtx extracts the environment from a context. A null environment is
// returned when none was injected, so callers can log unconditionally.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok {
		return e
	}
	return Null()
}
