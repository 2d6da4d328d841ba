package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Cache   CacheConfig       `yaml:"cache"`
	Git     GitConfig         `yaml:"git"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Git.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level    `yaml:"log_level"`
	Preview  PreviewConfig `yaml:"preview"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.Preview.Validate()
}

// PreviewConfig holds the local preview server configuration.
type PreviewConfig struct {
	Port int `yaml:"port"`
}

// Address returns the preview server address.
func (c *PreviewConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the preview configuration.
func (c *PreviewConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig holds the input and output post directories.
type ContentConfig struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`
	Extension  string `yaml:"extension"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.InputPath, validation.Required),
		validation.Field(&c.OutputPath, validation.Required),
		validation.Field(&c.Extension, validation.Required),
	); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("content: extension %q must start with a dot", c.Extension)
	}
	if c.InputPath == c.OutputPath {
		return fmt.Errorf("content: input and output paths must differ")
	}
	return nil
}

// CacheConfig holds the build-cache database configuration.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// GitConfig controls the version-control date lookup.
//
// When Enabled is false the date fallback goes straight from the **Date:**
// line to the current local date.
type GitConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the git configuration.
func (c *GitConfig) Validate() error {
	if c.Enabled && c.Timeout <= 0 {
		return fmt.Errorf("git: enabled but timeout is %s", c.Timeout)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Preview: PreviewConfig{
				Port: 1313,
			},
		},
		Content: ContentConfig{
			InputPath:  "./raw_posts",
			OutputPath: "./content/posts",
			Extension:  ".md",
		},
		Cache: CacheConfig{
			Path: "./ansuz.db",
		},
		Git: GitConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
		},
	}
}
