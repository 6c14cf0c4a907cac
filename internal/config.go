// Package internal provides the application configuration and the serve
// runtime.
package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Sources SourcesConfig     `yaml:"sources"`
	Keys    KeysConfig        `yaml:"keys"`
	Render  RenderConfig      `yaml:"render"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Keys.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
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

// HTTPConfig holds HTTP server configuration for serve mode.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SourcesConfig names the save files served and indexed in serve mode.
// Either file may be empty; serve requires at least one.
type SourcesConfig struct {
	BackpackFile  string `yaml:"backpack_file"`
	ContainerFile string `yaml:"container_file"`
}

// Empty reports whether no source file is configured.
func (c *SourcesConfig) Empty() bool {
	return c.BackpackFile == "" && c.ContainerFile == ""
}

// KeysConfig names the compound keys used to locate backpack data inside
// the decoded save tree. The exact key set varies between save format
// versions, so it is configuration, defaulted to current saves.
type KeysConfig struct {
	Contents    string `yaml:"contents"`
	AccessLog   string `yaml:"access_log"`
	SearchDepth int    `yaml:"search_depth"`
}

// Validate validates the keys configuration.
func (c *KeysConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Contents, validation.Required),
		validation.Field(&c.SearchDepth, validation.Required, validation.Min(1), validation.Max(16)),
	)
}

// RenderConfig holds image output configuration.
type RenderConfig struct {
	AssetsDir string `yaml:"assets_dir"`
	OutputDir string `yaml:"output_dir"`
	SlotSize  int    `yaml:"slot_size"`
	Columns   int    `yaml:"columns"`
	Timezone  string `yaml:"timezone"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.SlotSize, validation.Required, validation.Min(18), validation.Max(256)),
		validation.Field(&c.Columns, validation.Required, validation.Min(1), validation.Max(27)),
	); err != nil {
		return err
	}
	_, err := c.Location()
	return err
}

// Location resolves the configured timezone, defaulting to local time.
func (c *RenderConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("render: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SQLiteConfig holds the search index database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication, suitable for local use.
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
		Keys: KeysConfig{
			Contents:    "backpackContents",
			AccessLog:   "accessLogRecords",
			SearchDepth: 3,
		},
		Render: RenderConfig{
			AssetsDir: "./assets",
			OutputDir: "./stash_images",
			SlotSize:  64,
			Columns:   9,
		},
		SQLite: SQLiteConfig{
			Path: "./stashview.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
