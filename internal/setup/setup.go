// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"net/mail"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"platefeed/internal/argon2id"
	"platefeed/internal/catalog"
	"platefeed/internal/config"
	"platefeed/internal/database"
	"platefeed/internal/email"
	"platefeed/internal/env"
	"platefeed/internal/filestore"
)

// SMTP creates an SMTP sender from the config. Returns nil when SMTP is
// not configured; callers treat a nil sender as "do not send email".
func SMTP(conf config.SMTP) *email.SMTPSender {
	if !conf.Configured() {
		return nil
	}
	return email.NewSMTPSender(email.Config{
		Host:     conf.Host,
		Port:     int(conf.Port),
		Username: conf.Username,
		Password: conf.Password,
		From:     conf.From,
	})
}

// Database connects the pool and applies the schema if this is a fresh
// database.
func Database(ctx context.Context, conf config.Database) (*database.Database, error) {
	pool, err := pgxpool.New(ctx, conf.ConnString())
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

// Media builds the configured media backend.
func Media(ctx context.Context, conf config.Media) (filestore.MediaStore, error) {
	switch conf.Backend {
	case config.MediaBackendS3:
		client, err := minio.New(conf.S3.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(conf.S3.AccessKey, conf.S3.SecretKey, ""),
			Secure: conf.S3.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating s3 client: %w", err)
		}
		store := filestore.NewS3(client, conf.S3.Bucket, conf.URLPrefix)
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensuring media bucket: %w", err)
		}
		return store, nil
	default:
		volume, err := filepath.Abs(conf.Volume)
		if err != nil {
			return nil, fmt.Errorf("resolving media volume: %w", err)
		}
		return filestore.NewLocal(volume, conf.URLPrefix), nil
	}
}

// Admin sets up an admin user if one does not exist. Requires env.Database.
func Admin(ctx context.Context, env *env.Env) error {
	conf := env.Config.Admin
	if conf.Email == "" || conf.Password == "" {
		env.Logger.Info("admin email and password not configured, skipping admin setup")
		return nil
	}

	// Validate email and password
	if _, err := mail.ParseAddress(conf.Email); err != nil {
		return fmt.Errorf("parsing admin email: %w", err)
	}
	if err := conf.Password.Validate(); err != nil {
		return fmt.Errorf("validating admin password: %w", err)
	}

	// Check admin count
	count, err := env.Database.GetAdminCount(ctx)
	if err != nil {
		return fmt.Errorf("getting admin count: %w", err)
	}
	if count > 0 {
		env.Logger.Info("admin already setup, skipping setup")
		return nil
	}

	hashedPassword, err := argon2id.EncodeHash(string(conf.Password), argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	if _, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        conf.Email,
		Username:     conf.Username,
		FirstName:    conf.FirstName,
		LastName:     conf.LastName,
		PasswordHash: hashedPassword,
		Role:         database.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	env.Logger.Info("admin user created")
	return nil
}

// Tags seeds the configured tags. Existing slugs are left untouched.
func Tags(ctx context.Context, env *env.Env) error {
	for _, seed := range env.Config.Catalog.Tags {
		if _, err := env.Database.CreateTag(ctx, database.CreateTagParams{
			Name:  seed.Name,
			Color: seed.Color,
			Slug:  seed.Slug,
		}); err != nil {
			return fmt.Errorf("seeding tag %q: %w", seed.Slug, err)
		}
	}
	return nil
}

// Ingredients seeds the ingredient catalog when the table is empty.
// An already-populated table is left alone so boot stays fast.
func Ingredients(ctx context.Context, env *env.Env) error {
	source := env.Config.Catalog.Ingredients
	if source == "" {
		env.Logger.Info("no ingredient catalog configured, skipping seed")
		return nil
	}

	count, err := env.Database.CountIngredients(ctx)
	if err != nil {
		return fmt.Errorf("counting ingredients: %w", err)
	}
	if count > 0 {
		env.Logger.Info("ingredients already seeded, skipping")
		return nil
	}

	entries, err := catalog.Load(ctx, env.HTTP, source)
	if err != nil {
		return fmt.Errorf("loading ingredient catalog: %w", err)
	}
	seeded, err := catalog.Seed(ctx, env.Database, entries)
	if err != nil {
		return err
	}
	env.Logger.Info("ingredient catalog seeded", "count", seeded)
	return nil
}
