package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/history"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/outline"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Store   StoreConfig       `yaml:"store"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Editor  EditorConfig      `yaml:"editor"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Editor.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects where plans are persisted.
//
// Driver is one of:
//   - "file" (default): JSON documents under Path.
//   - "sqlite": a database file at Path.
//   - "postgres": the database at DSN.
//   - "memory": nothing survives a restart.
type StoreConfig struct {
	Driver      string        `yaml:"driver"`
	Path        string        `yaml:"path"`
	DSN         string        `yaml:"dsn"`
	SaveTimeout time.Duration `yaml:"save_timeout"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreDriverFile
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(StoreDriverFile, StoreDriverSQLite, StoreDriverPostgres, StoreDriverMemory)),
		validation.Field(&c.Path,
			validation.When(c.Driver == StoreDriverFile || c.Driver == StoreDriverSQLite, validation.Required)),
		validation.Field(&c.DSN,
			validation.When(c.Driver == StoreDriverPostgres, validation.Required)),
		validation.Field(&c.SaveTimeout, validation.Min(time.Duration(0))),
	)
}

// CatalogConfig points at an optional catalog YAML overriding the built-in
// table. With Watch set, edits to the file are picked up live.
type CatalogConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	if c.Watch && c.Path == "" {
		return fmt.Errorf("watch requires a path")
	}
	return nil
}

// EditorConfig holds the defaults for plans that have never been saved.
type EditorConfig struct {
	WallHeight   float64 `yaml:"wall_height"`
	HistoryLimit int     `yaml:"history_limit"`
	Template     string  `yaml:"template"`
}

// Validate validates the editor configuration.
func (c *EditorConfig) Validate() error {
	names := make([]any, 0, len(outline.TemplateNames()))
	for _, n := range outline.TemplateNames() {
		names = append(names, n)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.WallHeight, validation.Min(0.0).Exclusive()),
		validation.Field(&c.HistoryLimit, validation.Min(1)),
		validation.Field(&c.Template, validation.In(names...)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Driver:      StoreDriverFile,
			Path:        "./data",
			SaveTimeout: 10 * time.Second,
		},
		Editor: EditorConfig{
			WallHeight:   floorplan.DefaultWallHeight,
			HistoryLimit: history.DefaultLimit,
			Template:     outline.TemplateRectangle,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
