package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/almanac/pkg/flexidate"
	"github.com/starford/almanac/pkg/tokenize"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Tokenizer fallbacks.
const (
	FallbackNone      = "none"
	FallbackDateparse = "dateparse"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app" toml:"app"`
	Catalog CatalogConfig     `yaml:"catalog" toml:"catalog"`
	SQLite  SQLiteConfig      `yaml:"sqlite" toml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth" toml:"auth"`
	Parser  ParserConfig      `yaml:"parser" toml:"parser"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Parser.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" toml:"log_level"`
	HTTP     HTTPConfig `yaml:"http" toml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" toml:"port"`
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

// CatalogConfig points at the directory of Markdown records and names the
// frontmatter keys that hold dates.
type CatalogConfig struct {
	Path       string   `yaml:"path" toml:"path"`
	DateFields []string `yaml:"date_fields" toml:"date_fields"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.DateFields, validation.Required, validation.Each(validation.Required)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode" toml:"mode"`
	Token string `yaml:"token" toml:"token"`
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

// ParserConfig tunes free-text date parsing.
//
// Fallback selects a second tokenizer tried when the built-in one gives up:
//   - "none" (default): built-in lexical tokenizer only.
//   - "dateparse": retry with github.com/araddon/dateparse.
type ParserConfig struct {
	DayFirst bool   `yaml:"day_first" toml:"day_first"`
	Fallback string `yaml:"fallback" toml:"fallback"`
	Workers  int    `yaml:"workers" toml:"workers"`
}

// Validate validates the parser configuration.
func (c *ParserConfig) Validate() error {
	if c.Fallback == "" {
		c.Fallback = FallbackNone
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Fallback, validation.In(FallbackNone, FallbackDateparse)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(256)),
	)
}

// Tokenizer builds the tokenizer chain described by the configuration.
func (c *ParserConfig) Tokenizer() tokenize.Tokenizer {
	if c.Fallback == FallbackDateparse {
		return tokenize.Chain{tokenize.NewLexical(), tokenize.NewDateparse()}
	}
	return tokenize.NewLexical()
}

// NewParser returns the date parser described by the configuration.
func (c *ParserConfig) NewParser() *flexidate.Parser {
	return flexidate.NewParser(c.Tokenizer(), c.DayFirst)
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
		Catalog: CatalogConfig{
			Path:       "./catalog",
			DateFields: []string{"date", "born", "died", "start", "end", "published"},
		},
		SQLite: SQLiteConfig{
			Path: "./almanac.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Parser: ParserConfig{
			DayFirst: true,
			Fallback: FallbackNone,
			Workers:  8,
		},
	}
}
