// Package config provides configuration loading and management for the sync engine.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/sync/schedule"
)

// EnvPrefix is the prefix for environment variables that override
// application-level settings, e.g. HEALTHSYNC_LOG_LEVEL.
const EnvPrefix = "HEALTHSYNC"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// InstanceName is the name/identifier for this sync engine instance
	// Defaults to "default" if not specified
	InstanceName string          `yaml:"instanceName,omitempty"`
	Database     *DatabaseConfig `yaml:"database"`
	Source       *SourceConfig   `yaml:"source,omitempty"`
	Sync         *SyncConfig     `yaml:"sync,omitempty"`
	Server       *ServerConfig   `yaml:"server,omitempty"`
}

// SourceConfig defines the remote health data API settings
type SourceConfig struct {
	// Endpoint is the base API URL of the remote health data service
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds a single remote request (e.g. "30s")
	Timeout string `yaml:"timeout,omitempty"`
}

// SyncConfig defines synchronization behavior
type SyncConfig struct {
	// BatchSize is the number of days fetched per batch
	BatchSize int `yaml:"batchSize,omitempty"`

	// Order is the batch processing order: "chronological" or
	// "reverse-chronological" (the default)
	Order string `yaml:"order,omitempty"`

	// MaxConcurrentUsers bounds the number of users synced at once
	MaxConcurrentUsers int `yaml:"maxConcurrentUsers,omitempty"`

	// Metrics restricts which metric types are synced. Empty means all.
	Metrics []string `yaml:"metrics,omitempty"`

	Retry *RetryConfig `yaml:"retry,omitempty"`
}

// RetryConfig defines the retry policy for transient remote failures
type RetryConfig struct {
	// MaxAttempts is the total number of tries for one unit, including
	// the first
	MaxAttempts int `yaml:"maxAttempts,omitempty"`

	// InitialDelay is the first backoff delay (e.g. "500ms")
	InitialDelay string `yaml:"initialDelay,omitempty"`

	// MaxDelay caps the backoff delay (e.g. "30s")
	MaxDelay string `yaml:"maxDelay,omitempty"`
}

// ServerConfig defines the reporting API server settings
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// This is the recommended approach for production deployments
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxConns is the maximum number of connections in the pool
	MaxConns int32 `yaml:"maxConns,omitempty"`

	// MinConns is the minimum number of idle connections kept in the pool
	MinConns int32 `yaml:"minConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from HEALTHSYNC_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	// Priority 1: Read from file if specified
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		// Trim whitespace (including newlines) from file content
		password := strings.TrimSpace(string(data))
		return password, nil
	}

	// Priority 2: Check environment variable
	if envPassword := os.Getenv("HEALTHSYNC_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or HEALTHSYNC_DATABASE_PASSWORD environment variable",
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	// URL-escape the password to handle special characters
	escapedPassword := url.QueryEscape(password)

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		escapedPassword,
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Read the entire file into memory
	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML content
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate the config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetInstanceName returns the instance name, using "default" if not specified
func (c *Config) GetInstanceName() string {
	if c.InstanceName == "" {
		return "default"
	}
	return c.InstanceName
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Database == nil {
		return fmt.Errorf("database configuration is required")
	}
	if err := validateDatabaseConfig(c.Database); err != nil {
		return err
	}

	if err := validateSourceConfig(c.Source); err != nil {
		return err
	}

	return validateSyncConfig(c.Sync)
}

func validateDatabaseConfig(db *DatabaseConfig) error {
	if db.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if db.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if db.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if db.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if db.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(db.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime must be a valid duration (e.g., '30m', '1h'): %w", err)
		}
	}
	return nil
}

func validateSourceConfig(src *SourceConfig) error {
	if src == nil {
		return nil
	}
	if src.Endpoint == "" {
		return fmt.Errorf("source.endpoint is required when source is configured")
	}
	if src.Timeout != "" {
		if _, err := time.ParseDuration(src.Timeout); err != nil {
			return fmt.Errorf("source.timeout must be a valid duration (e.g., '30s'): %w", err)
		}
	}
	return nil
}

func validateSyncConfig(sc *SyncConfig) error {
	if sc == nil {
		return nil
	}
	if sc.BatchSize < 0 {
		return fmt.Errorf("sync.batchSize must not be negative")
	}
	if sc.MaxConcurrentUsers < 0 {
		return fmt.Errorf("sync.maxConcurrentUsers must not be negative")
	}
	if sc.Order != "" {
		if _, err := schedule.ParseOrder(sc.Order); err != nil {
			return fmt.Errorf("sync.order: %w", err)
		}
	}
	if len(sc.Metrics) > 0 {
		if _, err := metrics.ParseList(strings.Join(sc.Metrics, ",")); err != nil {
			return fmt.Errorf("sync.metrics: %w", err)
		}
	}
	return validateRetryConfig(sc.Retry)
}

func validateRetryConfig(rc *RetryConfig) error {
	if rc == nil {
		return nil
	}
	if rc.MaxAttempts < 0 {
		return fmt.Errorf("sync.retry.maxAttempts must not be negative")
	}
	if rc.InitialDelay != "" {
		if _, err := time.ParseDuration(rc.InitialDelay); err != nil {
			return fmt.Errorf("sync.retry.initialDelay must be a valid duration (e.g., '500ms'): %w", err)
		}
	}
	if rc.MaxDelay != "" {
		if _, err := time.ParseDuration(rc.MaxDelay); err != nil {
			return fmt.Errorf("sync.retry.maxDelay must be a valid duration (e.g., '30s'): %w", err)
		}
	}
	return nil
}
