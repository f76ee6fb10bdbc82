package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Document    DocumentConfig `mapstructure:"document"`
	Pipeline    PipelineConfig `mapstructure:"pipeline"`
	Storage     StorageConfig  `mapstructure:"storage"`
	Window      WindowConfig   `mapstructure:"window"`
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
}

// DocumentConfig holds the document handling settings
type DocumentConfig struct {
	// Extension is the supported document extension including the dot.
	Extension string `mapstructure:"extension"`
	// MaxBytes caps how large a document the viewer will read into memory.
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// PipelineConfig holds open-intent pipeline settings
type PipelineConfig struct {
	// ReadinessTimeout bounds how long an accepted open request may wait
	// for the display layer before the stall is logged. Zero disables the
	// watchdog.
	ReadinessTimeout time.Duration `mapstructure:"readiness_timeout"`
}

// StorageConfig holds the recent-documents store settings
type StorageConfig struct {
	// Path is the SQLite database location. Empty means the standard
	// location under the user config directory.
	Path string `mapstructure:"path"`
	// MaxRecents bounds how many entries the open history keeps.
	MaxRecents int `mapstructure:"max_recents"`
	// Disabled turns the open history off entirely.
	Disabled bool `mapstructure:"disabled"`
}

// WindowConfig holds the main window geometry
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Extension: ".pdf",
			MaxBytes:  256 * 1024 * 1024,
		},
		Pipeline: PipelineConfig{
			ReadinessTimeout: 15 * time.Second,
		},
		Storage: StorageConfig{
			Path:       "",
			MaxRecents: 20,
		},
		Window: WindowConfig{
			Width:  1100,
			Height: 800,
		},
		Environment: "production",
		LogLevel:    "info",
	}
}

// DevelopmentConfig returns a configuration optimized for development
func DevelopmentConfig() *Config {
	config := DefaultConfig()
	config.Environment = "development"
	config.LogLevel = "debug"
	config.Pipeline.ReadinessTimeout = 5 * time.Second
	return config
}

// TestConfig returns a configuration optimized for testing
func TestConfig() *Config {
	config := DefaultConfig()
	config.Environment = "test"
	config.LogLevel = "error"
	config.Document.MaxBytes = 1024 * 1024
	config.Pipeline.ReadinessTimeout = 50 * time.Millisecond
	config.Storage.Path = ":memory:"
	return config
}

// ConfigForEnvironment returns a configuration preset for the given environment
func ConfigForEnvironment(env string) *Config {
	switch env {
	case "development":
		return DevelopmentConfig()
	case "test":
		return TestConfig()
	default:
		return DefaultConfig()
	}
}

// Load reads configuration from file and environment. The file is TOML,
// either $VELLUM_CONFIG or config.toml under the user config directory.
// Environment overrides use the VELLUM_ prefix, e.g. VELLUM_LOG_LEVEL or
// VELLUM_PIPELINE_READINESS_TIMEOUT.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("document.extension", defaults.Document.Extension)
	v.SetDefault("document.max_bytes", defaults.Document.MaxBytes)
	v.SetDefault("pipeline.readiness_timeout", defaults.Pipeline.ReadinessTimeout)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.max_recents", defaults.Storage.MaxRecents)
	v.SetDefault("storage.disabled", defaults.Storage.Disabled)
	v.SetDefault("window.width", defaults.Window.Width)
	v.SetDefault("window.height", defaults.Window.Height)
	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("VELLUM_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "vellum"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VELLUM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is normal; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate validates the configuration parameters
func (c *Config) Validate() error {
	if c.Document.Extension == "" {
		return fmt.Errorf("document extension cannot be empty")
	}
	if !strings.HasPrefix(c.Document.Extension, ".") {
		return fmt.Errorf("document extension must start with a dot, got %q", c.Document.Extension)
	}
	if c.Document.MaxBytes <= 0 {
		return fmt.Errorf("document max_bytes must be positive, got %d", c.Document.MaxBytes)
	}
	if c.Pipeline.ReadinessTimeout < 0 {
		return fmt.Errorf("pipeline readiness_timeout cannot be negative, got %v", c.Pipeline.ReadinessTimeout)
	}
	if c.Storage.MaxRecents <= 0 {
		return fmt.Errorf("storage max_recents must be positive, got %d", c.Storage.MaxRecents)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	validEnvironments := map[string]bool{
		"development": true,
		"test":        true,
		"production":  true,
	}
	if !validEnvironments[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if the environment is set to test
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
