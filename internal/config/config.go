package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = "furnish.yaml"

// Config holds all furnish configuration.
type Config struct {
	// Recommendation/analytics backend
	Backend BackendConfig `yaml:"backend"`

	// Recommendation screen defaults
	Recommend RecommendConfig `yaml:"recommend"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Local fixture backend
	Fixture FixtureConfig `yaml:"fixture"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig locates the backend. Screens never hard-code a URL.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	RequestTimeout string `yaml:"request_timeout"` // "0" disables the timeout
}

// RecommendConfig configures searches.
type RecommendConfig struct {
	TopN int `yaml:"top_n"`
}

// UIConfig configures the interactive shell.
type UIConfig struct {
	Theme string `yaml:"theme"` // "light" or "dark"
}

// FixtureConfig configures `furnish fixture-server`.
type FixtureConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"` // empty means the built-in catalog
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, console
	File       string          `yaml:"file"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000",
			RequestTimeout: "30s",
		},
		Recommend: RecommendConfig{
			TopN: 3,
		},
		UI: UIConfig{
			Theme: "light",
		},
		Fixture: FixtureConfig{
			Addr: ":8000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(".furnish", "furnish.log"),
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is fine.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Unparseable numbers and durations are ignored.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("FURNISH_BASE_URL"); u != "" {
		c.Backend.BaseURL = u
	}
	if v := os.Getenv("FURNISH_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Recommend.TopN = n
		}
	}
	if v := os.Getenv("FURNISH_TIMEOUT"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			c.Backend.RequestTimeout = v
		}
	}
	if os.Getenv("FURNISH_DARK_MODE") == "1" {
		c.UI.Theme = "dark"
	}
	if os.Getenv("FURNISH_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// GetRequestTimeout returns the per-request timeout. Zero means none.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.Backend.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Backend.RequestTimeout)
	if err != nil || d < 0 {
		return 30 * time.Second
	}
	return d
}

// ValidThemes lists the supported UI themes.
var ValidThemes = []string{"light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url not configured (set backend.base_url or FURNISH_BASE_URL)")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend base_url: %q", c.Backend.BaseURL)
	}

	if c.Recommend.TopN < 1 {
		return fmt.Errorf("recommend.top_n must be at least 1, got %d", c.Recommend.TopN)
	}

	if c.Backend.RequestTimeout != "" {
		d, err := time.ParseDuration(c.Backend.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid backend request_timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("backend request_timeout must not be negative")
		}
	}

	if c.UI.Theme != "" {
		valid := false
		for _, t := range ValidThemes {
			if c.UI.Theme == t {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
		}
	}

	return nil
}

// IsDarkTheme reports whether the dark palette is selected.
func (c *Config) IsDarkTheme() bool {
	return c.UI.Theme == "dark"
}
