// Package config contains utilities for loading configs
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/go-playground/validator/v10"
	"platefeed/internal/password"
)

const (
	configFilePath     = "/data/platefeed.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const (
	MediaBackendLocal = "local"
	MediaBackendS3    = "s3"
)

const defaultPageSize = 6

type AdminPassword string

func (a AdminPassword) Validate() error {
	return password.ValidatePassword(string(a))
}

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing implements a cross-field validator for go-playground/validator.
//
// It succeeds only if either all listed fields have zero values or all have
// non-zero values. The validator is attached to a placeholder field and
// inspects the parent struct; field names come from the tag parameter as a
// comma- or space-separated list (e.g. `validate:"allOrNothing=A,B,C"`).
// Nil pointers and interfaces count as zero; non-nil ones are dereferenced
// before evaluation. A missing field name or non-struct parent fails the
// validation to signal misconfiguration.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true // nothing to validate
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false // field name typo / not found
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

func registerAllOrNothing(v *validator.Validate) {
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
}

// validateFn delegates to the field's own Validate() error method.
func validateFn(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.CanAddr() {
		if v, ok := field.Addr().Interface().(interface{ Validate() error }); ok {
			return v.Validate() == nil
		}
	}
	if v, ok := field.Interface().(interface{ Validate() error }); ok {
		return v.Validate() == nil
	}
	return false
}

func registerValidateFn(v *validator.Validate) {
	_ = v.RegisterValidation("validateFn", validateFn)
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() == "allOrNothing" {
			// Extract the struct name from the namespace
			// e.g., "Config.SMTP.Validate" -> "SMTP"
			namespace := e.Namespace()
			parts := strings.Split(namespace, ".")
			var structName string
			//nolint:mnd
			if len(parts) >= 2 {
				structName = parts[len(parts)-2]
			}

			var fields string
			switch structName {
			case "SMTP":
				fields = "From, Password, Host, Username, and Port"
			case "Database":
				fields = "Port, Host, Database, User, and Password"
			case "Admin":
				fields = "Username, FirstName, LastName, Email, and Password"
			case "S3":
				fields = "Endpoint, AccessKey, SecretKey, and Bucket"
			default:
				fields = "all related fields"
			}

			return fmt.Errorf(
				"%s configuration is incomplete: either all fields must be set (%s) or all must be empty",
				structName, fields)
		}
	}

	return err
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty,validateFn"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

func (d Database) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Endpoint AccessKey SecretKey Bucket"`
}

// Media selects where decoded recipe images are stored: a local volume or
// an S3-compatible bucket.
type Media struct {
	Backend   string `yaml:"backend" validate:"omitempty,oneof=local s3"`
	Volume    string `yaml:"volume"`
	URLPrefix string `yaml:"url_prefix"`
	S3        S3     `yaml:"s3"`
}

type SMTP struct {
	Port     uint16 `yaml:"port"`
	Username string `yaml:"username"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Password string `yaml:"password"`
	From     string `yaml:"from" validate:"omitempty,email"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=From Password Host Username Port"`
}

func (s SMTP) Configured() bool {
	return s.Host != ""
}

type Admin struct {
	Username  string        `yaml:"username" validate:"required_with_all=Email Password"`
	FirstName string        `yaml:"first_name" validate:"required_with_all=Email Password"`
	LastName  string        `yaml:"last_name" validate:"required_with_all=Email Password"`
	Email     string        `yaml:"email" validate:"omitempty,email"`
	Password  AdminPassword `yaml:"password" validate:"omitempty,validateFn"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Username FirstName LastName Email Password"`
}

type TagSeed struct {
	Name  string `yaml:"name" validate:"required"`
	Color string `yaml:"color" validate:"required"`
	Slug  string `yaml:"slug" validate:"required"`
}

// Catalog points at the reference data loaded on boot. Ingredients is a
// path or an http(s) URL to a JSON array of {name, measurement_unit}.
type Catalog struct {
	Ingredients string    `yaml:"ingredients"`
	Tags        []TagSeed `yaml:"tags" validate:"omitempty,dive"`
}

type Config struct {
	AppSecret  AppSecret `yaml:"app_secret"`
	SMTP       SMTP      `yaml:"smtp"`
	Admin      Admin     `yaml:"admin"`
	Media      Media     `yaml:"media"`
	Database   Database  `yaml:"database"`
	Catalog    Catalog   `yaml:"catalog"`
	HostOrigin string    `yaml:"host_origin" validate:"url"`
	Env        string    `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
	PageSize   int       `yaml:"page_size" validate:"omitempty,min=1,max=100"`
}

// Secret returns the resolved app secret. Only valid after LoadConfig.
func (c Config) Secret() string {
	if c.AppSecret.Value == nil {
		return ""
	}
	return string(*c.AppSecret.Value)
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	var secret string
	if f1, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f1.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		secret = string(data)
	}
	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		Env:        loadWithDefault("ENV", EnvDev),
		HostOrigin: loadWithDefault("HOST_ORIGIN", "http://localhost:8080"),
	}

	// AppSecret
	conf.AppSecret = AppSecret{
		Path:    loadWithDefault("APP_SECRET_PATH", "/data/secret"),
		Version: loadWithDefault("APP_SECRET_VERSION", "1"),
	}
	if v := os.Getenv("APP_SECRET"); v != "" {
		val := AppSecretValue(v)
		conf.AppSecret.Value = &val
	}

	// Database
	conf.Database = Database{
		Host:     loadWithDefault("DATABASE_HOST", "localhost"),
		Database: loadWithDefault("DATABASE", ""),
		User:     loadWithDefault("DATABASE_USER", ""),
		Password: loadWithDefault("DATABASE_PASSWORD", ""),
	}
	databasePort := loadWithDefault("DATABASE_PORT", "5432")
	if port, err := strconv.ParseUint(databasePort, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid DATABASE_PORT (%q): %w", databasePort, err)
	} else {
		conf.Database.Port = uint16(port)
	}

	// Media
	conf.Media = Media{
		Backend:   loadWithDefault("MEDIA_BACKEND", MediaBackendLocal),
		Volume:    loadWithDefault("MEDIA_VOLUME", "/data/media"),
		URLPrefix: loadWithDefault("MEDIA_URL_PREFIX", "/media"),
		S3: S3{
			Endpoint:  loadWithDefault("S3_ENDPOINT", ""),
			AccessKey: loadWithDefault("S3_ACCESS_KEY", ""),
			SecretKey: loadWithDefault("S3_SECRET_KEY", ""),
			Bucket:    loadWithDefault("S3_BUCKET", ""),
		},
	}
	s3UseSSL := loadWithDefault("S3_USE_SSL", "false")
	if b, err := strconv.ParseBool(s3UseSSL); err != nil {
		return conf, fmt.Errorf("invalid S3_USE_SSL (%q): %w", s3UseSSL, err)
	} else {
		conf.Media.S3.UseSSL = b
	}

	// SMTP
	conf.SMTP = SMTP{
		Username: loadWithDefault("SMTP_USERNAME", ""),
		Host:     loadWithDefault("SMTP_HOST", ""),
		Password: loadWithDefault("SMTP_PASSWORD", ""),
		From:     loadWithDefault("SMTP_FROM", ""),
	}

	// Only set SMTP_PORT default if SMTP is being configured
	smtpPort := loadWithDefault("SMTP_PORT", "")
	if smtpPort == "" && conf.SMTP.Configured() {
		smtpPort = "587"
	}
	if smtpPort != "" {
		if port, err := strconv.ParseUint(smtpPort, 10, 16); err != nil {
			return conf, fmt.Errorf("invalid SMTP_PORT (%q): %w", smtpPort, err)
		} else {
			conf.SMTP.Port = uint16(port)
		}
	}

	// Admin
	conf.Admin = Admin{
		Username:  loadWithDefault("ADMIN_USERNAME", ""),
		FirstName: loadWithDefault("ADMIN_FIRST_NAME", ""),
		LastName:  loadWithDefault("ADMIN_LAST_NAME", ""),
		Email:     loadWithDefault("ADMIN_EMAIL", ""),
		Password:  AdminPassword(loadWithDefault("ADMIN_PASSWORD", "")),
	}

	// Catalog
	conf.Catalog.Ingredients = loadWithDefault("INGREDIENT_CATALOG", "")

	// Pagination
	pageSize := loadWithDefault("PAGE_SIZE", strconv.Itoa(defaultPageSize))
	if n, err := strconv.Atoi(pageSize); err != nil {
		return conf, fmt.Errorf("invalid PAGE_SIZE (%q): %w", pageSize, err)
	} else {
		conf.PageSize = n
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(validate)
	registerValidateFn(validate)
	if err := validate.Struct(conf); err != nil {
		return conf, formatValidationError(err)
	}

	if err := loadAppSecret(&conf); err != nil {
		return conf, fmt.Errorf("loading app secret: %w", err)
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	// Read file
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	// Unmarshal into config
	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Set defaults
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = "/data/secret"
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Media.Backend == "" {
		config.Media.Backend = MediaBackendLocal
	}
	if config.Media.Volume == "" {
		config.Media.Volume = "/data/media"
	}
	if config.Media.URLPrefix == "" {
		config.Media.URLPrefix = "/media"
	}
	// Only set SMTP.Port default if SMTP is being configured
	if config.SMTP.Port == 0 && config.SMTP.Configured() {
		config.SMTP.Port = 587
	}
	if config.PageSize == 0 {
		config.PageSize = defaultPageSize
	}

	// Validate config
	validate := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(validate)
	registerValidateFn(validate)
	if err := validate.Struct(config); err != nil {
		return Config{}, formatValidationError(err)
	}

	if err := loadAppSecret(&config); err != nil {
		return Config{}, fmt.Errorf("loading app secret: %w", err)
	}

	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}

	return loadConfigFromEnv()
}
