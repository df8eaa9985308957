package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Docs   DocsConfig        `yaml:"docs"`
	Search SearchConfig      `yaml:"search"`
	MCP    MCPConfig         `yaml:"mcp"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.MCP.Validate(); err != nil {
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

// DocsConfig holds the location of the staged documentation tree.
//
// Root is the directory served to callers. Snippets is the directory of
// reusable fragments; when empty it defaults to a "snippets" directory
// next to Root. Watch enables the fsnotify cache-invalidation watcher.
type DocsConfig struct {
	Root     string `yaml:"root"`
	Snippets string `yaml:"snippets"`
	Watch    bool   `yaml:"watch"`
}

// SnippetsDir returns the effective snippets directory.
func (c *DocsConfig) SnippetsDir() string {
	if c.Snippets != "" {
		return c.Snippets
	}
	return filepath.Join(filepath.Dir(c.Root), "snippets")
}

// Output returns the staging output directory (parent of Root), used by
// the prepare command.
func (c *DocsConfig) Output() string {
	return filepath.Dir(c.Root)
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	)
}

// SearchConfig holds keyword search tuning.
type SearchConfig struct {
	Limit        int `yaml:"limit"`
	SnippetDepth int `yaml:"snippet_depth"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Limit, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.SnippetDepth, validation.Required, validation.Min(1), validation.Max(10)),
	)
}

// MCPConfig selects how the MCP server is exposed.
//
//   - "stdio" (default): serve on stdin/stdout for local CLI clients.
//   - "http": streamable HTTP mounted at /mcp on the REST router.
type MCPConfig struct {
	Transport string `yaml:"transport"`
}

// Validate validates the MCP configuration.
func (c *MCPConfig) Validate() error {
	if c.Transport == "" {
		c.Transport = TransportStdio
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TransportStdio, TransportHTTP)),
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
	// Normalise empty mode to "disabled" for backward compatibility.
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
		Docs: DocsConfig{
			Root: "./.docs/raw",
		},
		Search: SearchConfig{
			Limit:        10,
			SnippetDepth: 3,
		},
		MCP: MCPConfig{
			Transport: TransportStdio,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
