package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Space       SpaceConfig       `mapstructure:"space"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// StorageConfig names the well-known storage roots
type StorageConfig struct {
	DataRoot         string   `mapstructure:"data_root"`
	CacheRoot        string   `mapstructure:"cache_root"`
	ExternalRoot     string   `mapstructure:"external_root"`
	PrivateCacheDir  string   `mapstructure:"private_cache_dir"`
	PrivateFilesDir  string   `mapstructure:"private_files_dir"`
	ActiveDirName    string   `mapstructure:"active_dir_name"`
	ExternalEmulated bool     `mapstructure:"external_emulated"`
	RemovableMounts  []string `mapstructure:"removable_mounts"`
}

// SpaceConfig contains space guarantee settings
type SpaceConfig struct {
	ReservedMarginMB  int      `mapstructure:"reserved_margin_mb"`
	MinDeleteAge      string   `mapstructure:"min_delete_age"`
	ReclaimTimeout    string   `mapstructure:"reclaim_timeout"`
	ForceFullEviction bool     `mapstructure:"force_full_eviction"`
	ReclaimCommand    []string `mapstructure:"reclaim_command"`
}

// MaintenanceConfig contains periodic maintenance settings
type MaintenanceConfig struct {
	ReconcileInterval string `mapstructure:"reconcile_interval"`
	TempFileMaxAge    string `mapstructure:"temp_file_max_age"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the specified file path
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("storage.data_root", "/var/lib/download-janitor/data")
	viper.SetDefault("storage.cache_root", "/var/cache/download-janitor")
	viper.SetDefault("storage.external_root", "")
	viper.SetDefault("storage.private_cache_dir", "/var/lib/download-janitor/.cache")
	viper.SetDefault("storage.private_files_dir", "/var/lib/download-janitor/files")
	viper.SetDefault("storage.active_dir_name", "incoming")
	viper.SetDefault("storage.external_emulated", false)
	viper.SetDefault("space.reserved_margin_mb", 32)
	viper.SetDefault("space.min_delete_age", "24h")
	viper.SetDefault("space.reclaim_timeout", "30s")
	viper.SetDefault("space.force_full_eviction", false)
	viper.SetDefault("maintenance.reconcile_interval", "1h")
	viper.SetDefault("maintenance.temp_file_max_age", "24h")
	viper.SetDefault("database.path", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Storage.DataRoot == "" {
		return fmt.Errorf("storage.data_root is required")
	}
	if c.Storage.CacheRoot == "" {
		return fmt.Errorf("storage.cache_root is required")
	}
	if c.Storage.ActiveDirName == "" {
		return fmt.Errorf("storage.active_dir_name is required")
	}

	if c.Space.ReservedMarginMB < 0 {
		return fmt.Errorf("space.reserved_margin_mb must not be negative")
	}
	if _, err := time.ParseDuration(c.Space.MinDeleteAge); err != nil {
		return fmt.Errorf("invalid space.min_delete_age: %w", err)
	}
	if _, err := time.ParseDuration(c.Space.ReclaimTimeout); err != nil {
		return fmt.Errorf("invalid space.reclaim_timeout: %w", err)
	}

	if _, err := time.ParseDuration(c.Maintenance.ReconcileInterval); err != nil {
		return fmt.Errorf("invalid maintenance.reconcile_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Maintenance.TempFileMaxAge); err != nil {
		return fmt.Errorf("invalid maintenance.temp_file_max_age: %w", err)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetReservedMarginBytes returns the reserved margin in bytes
func (c *SpaceConfig) GetReservedMarginBytes() int64 {
	return int64(c.ReservedMarginMB) * 1024 * 1024
}

// GetMinDeleteAge returns the minimum delete age as time.Duration
func (c *SpaceConfig) GetMinDeleteAge() time.Duration {
	d, _ := time.ParseDuration(c.MinDeleteAge)
	if d == 0 {
		return 24 * time.Hour
	}
	return d
}

// GetReclaimTimeout returns the reclaim timeout as time.Duration
func (c *SpaceConfig) GetReclaimTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ReclaimTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetReconcileInterval returns the reconcile interval as time.Duration
func (c *MaintenanceConfig) GetReconcileInterval() time.Duration {
	d, _ := time.ParseDuration(c.ReconcileInterval)
	if d == 0 {
		return time.Hour
	}
	return d
}

// GetTempFileMaxAge returns the temp file max age as time.Duration
func (c *MaintenanceConfig) GetTempFileMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.TempFileMaxAge)
	if d == 0 {
		return 24 * time.Hour
	}
	return d
}
