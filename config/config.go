// Package config provides configuration management for the chatseg CLI.
// It supports loading configuration from a YAML file, environment variables,
// and command-line flags, with later sources overriding earlier ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultOutputFormat = OutputFormatText
	DefaultConfigDir    = ".chatseg"
	DefaultConfigFile   = "config.yaml"
	DefaultCacheTTL     = 24 * time.Hour
)

// StorageConfig holds PostgreSQL connection settings for transcript ingest.
type StorageConfig struct {
	// Host is the database server hostname.
	Host string `yaml:"host,omitempty"`

	// Port is the database server port (default: 5432).
	Port int `yaml:"port,omitempty"`

	// Database is the database name.
	Database string `yaml:"database,omitempty"`

	// User is the database username.
	User string `yaml:"user,omitempty"`

	// Password is the database password. Prefer the keyring (chatseg init
	// --with-db) over storing it here.
	Password string `yaml:"password,omitempty"`

	// SSLMode is the SSL connection mode (disable, require, verify-ca,
	// verify-full).
	SSLMode string `yaml:"sslmode,omitempty"`
}

// IsConfigured returns true if storage has the required fields.
func (c *StorageConfig) IsConfigured() bool {
	return c != nil && c.Host != "" && c.Database != "" && c.User != ""
}

// ConnectionString returns the PostgreSQL connection string, or empty when
// storage is not configured. The password is appended separately by the
// store layer after keyring resolution.
func (c *StorageConfig) ConnectionString() string {
	if !c.IsConfigured() {
		return ""
	}

	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "prefer"
	}

	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s sslmode=%s",
		c.Host, port, c.Database, c.User, sslmode)
}

// CacheConfig holds Redis settings for the segmentation result cache.
type CacheConfig struct {
	// Addr is the Redis address (host:port).
	Addr string `yaml:"addr,omitempty"`

	// DB is the Redis database number.
	DB int `yaml:"db,omitempty"`

	// TTL is how long cached segmentation results are kept.
	TTL time.Duration `yaml:"-"`
}

// IsConfigured returns true if a cache address is set.
func (c *CacheConfig) IsConfigured() bool {
	return c != nil && c.Addr != ""
}

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// AllowSingle admits singleton speakers during extraction by default.
	AllowSingle bool `yaml:"allow_single,omitempty"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// Storage holds PostgreSQL settings for the ingest command.
	Storage *StorageConfig `yaml:"storage,omitempty"`

	// Cache holds Redis settings for the segmentation result cache.
	Cache *CacheConfig `yaml:"cache,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		OutputFormat: DefaultOutputFormat,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $CHATSEG_CONFIG_DIR if set, otherwise ~/.chatseg
func ConfigDir() (string, error) {
	if dir := os.Getenv("CHATSEG_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration.
// Sources are applied in order (later overrides earlier):
//  1. Default values
//  2. Config file (~/.chatseg/config.yaml or $CHATSEG_CONFIG_DIR/config.yaml)
//  3. Environment variables (CHATSEG_*)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// fileConfig mirrors CLIConfig with the cache TTL as a duration string.
type fileConfig struct {
	OutputFormat OutputFormat   `yaml:"output_format"`
	AllowSingle  bool           `yaml:"allow_single,omitempty"`
	Debug        bool           `yaml:"debug,omitempty"`
	Storage      *StorageConfig `yaml:"storage,omitempty"`
	Cache        *cacheFile     `yaml:"cache,omitempty"`
}

type cacheFile struct {
	Addr string `yaml:"addr,omitempty"`
	DB   int    `yaml:"db,omitempty"`
	TTL  string `yaml:"ttl,omitempty"`
}

func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fc.OutputFormat != "" {
		cfg.OutputFormat = fc.OutputFormat
	}
	cfg.AllowSingle = fc.AllowSingle
	cfg.Debug = fc.Debug
	if fc.Storage != nil {
		cfg.Storage = fc.Storage
	}
	if fc.Cache != nil {
		cache := &CacheConfig{Addr: fc.Cache.Addr, DB: fc.Cache.DB, TTL: DefaultCacheTTL}
		if fc.Cache.TTL != "" {
			ttl, err := time.ParseDuration(fc.Cache.TTL)
			if err != nil {
				return fmt.Errorf("parsing cache ttl: %w", err)
			}
			cache.TTL = ttl
		}
		cfg.Cache = cache
	}
	return nil
}

func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("CHATSEG_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}
	if v := os.Getenv("CHATSEG_ALLOW_SINGLE"); v == "true" || v == "1" {
		cfg.AllowSingle = true
	}
	if v := os.Getenv("CHATSEG_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	loadStorageFromEnv(cfg)
	loadCacheFromEnv(cfg)
}

func loadStorageFromEnv(cfg *CLIConfig) {
	host := os.Getenv("CHATSEG_DB_HOST")
	database := os.Getenv("CHATSEG_DB_NAME")
	user := os.Getenv("CHATSEG_DB_USER")
	if host == "" && database == "" && user == "" {
		return
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if host != "" {
		cfg.Storage.Host = host
	}
	if database != "" {
		cfg.Storage.Database = database
	}
	if user != "" {
		cfg.Storage.User = user
	}
	if v := os.Getenv("CHATSEG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Port = port
		}
	}
	if v := os.Getenv("CHATSEG_DB_PASSWORD"); v != "" {
		cfg.Storage.Password = v
	}
	if v := os.Getenv("CHATSEG_DB_SSLMODE"); v != "" {
		cfg.Storage.SSLMode = v
	}
}

func loadCacheFromEnv(cfg *CLIConfig) {
	addr := os.Getenv("CHATSEG_REDIS_ADDR")
	if addr == "" {
		return
	}

	if cfg.Cache == nil {
		cfg.Cache = &CacheConfig{TTL: DefaultCacheTTL}
	}
	cfg.Cache.Addr = addr
	if v := os.Getenv("CHATSEG_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("CHATSEG_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = ttl
		}
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}
	if c.Cache != nil && c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig writes the configuration to the config file, creating the
// directory if needed.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	fc := fileConfig{
		OutputFormat: cfg.OutputFormat,
		AllowSingle:  cfg.AllowSingle,
		Debug:        cfg.Debug,
		Storage:      cfg.Storage,
	}
	if cfg.Cache != nil {
		fc.Cache = &cacheFile{Addr: cfg.Cache.Addr, DB: cfg.Cache.DB}
		if cfg.Cache.TTL > 0 {
			fc.Cache.TTL = cfg.Cache.TTL.String()
		}
	}

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
