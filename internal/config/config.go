package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the nivosearch server configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	SettingsStore SettingsStoreConfig `yaml:"settings_store"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Search        SearchConfig        `yaml:"search"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SettingsStoreConfig holds the options/preset store connection.
type SettingsStoreConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds the product catalog connection and link layout.
type CatalogConfig struct {
	Driver         string         `yaml:"driver"` // mysql, sqlite (default: mysql)
	DSN            string         `yaml:"dsn"`
	TablePrefix    string         `yaml:"table_prefix"`
	SiteURL        string         `yaml:"site_url"`
	MaxOpenConns   int            `yaml:"max_open_conns"`
	MaxIdleConns   int            `yaml:"max_idle_conns"`
	ConnMaxLifeSec int            `yaml:"conn_max_lifetime_sec"`
	Currency       CurrencyConfig `yaml:"currency"`
}

// CurrencyConfig controls price rendering.
type CurrencyConfig struct {
	Symbol   string `yaml:"symbol"`
	Position string `yaml:"position"` // left, right, left_space, right_space
	Decimals int    `yaml:"decimals"`
	Locale   string `yaml:"locale"`
}

// SearchConfig holds search pipeline tuning.
type SearchConfig struct {
	TaxonomyCap      int `yaml:"taxonomy_cap"`
	DescriptionWords int `yaml:"description_words"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.SettingsStore.Driver == "" {
		c.SettingsStore.Driver = "valkey"
	}
	if c.SettingsStore.ReadinessTimeout <= 0 {
		c.SettingsStore.ReadinessTimeout = 10
	}
	if c.SettingsStore.KeyPrefix == "" {
		c.SettingsStore.KeyPrefix = "nivosearch:"
	}
	if c.Catalog.Driver == "" {
		c.Catalog.Driver = "mysql"
	}
	if c.Catalog.MaxOpenConns <= 0 {
		c.Catalog.MaxOpenConns = 10
	}
	if c.Catalog.MaxIdleConns <= 0 {
		c.Catalog.MaxIdleConns = 5
	}
	if c.Catalog.ConnMaxLifeSec <= 0 {
		c.Catalog.ConnMaxLifeSec = 300
	}
	if c.Catalog.Currency.Symbol == "" {
		c.Catalog.Currency.Symbol = "$"
	}
	if c.Catalog.Currency.Position == "" {
		c.Catalog.Currency.Position = "left"
	}
	if c.Catalog.Currency.Decimals <= 0 {
		c.Catalog.Currency.Decimals = 2
	}
	if c.Catalog.Currency.Locale == "" {
		c.Catalog.Currency.Locale = "en-US"
	}
	if c.Search.TaxonomyCap <= 0 {
		c.Search.TaxonomyCap = 5
	}
	if c.Search.DescriptionWords <= 0 {
		c.Search.DescriptionWords = 15
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.SettingsStore.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("settings_store.driver must be \"valkey\" or \"redis\", got %q", c.SettingsStore.Driver)
	}
	if len(c.SettingsStore.Addrs) == 0 {
		return fmt.Errorf("settings_store.addrs is required")
	}
	switch c.Catalog.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("catalog.driver must be \"mysql\" or \"sqlite\", got %q", c.Catalog.Driver)
	}
	if c.Catalog.DSN == "" {
		return fmt.Errorf("catalog.dsn is required")
	}
	switch c.Catalog.Currency.Position {
	case "left", "right", "left_space", "right_space":
	default:
		return fmt.Errorf("catalog.currency.position is invalid: %q", c.Catalog.Currency.Position)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
