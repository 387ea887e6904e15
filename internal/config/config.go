package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	ServerAddr         string
	SnapshotDir        string
	PythonBin          string
	SpiceJetScript     string
	SpiceJetIntlScript string
	EtihadScript       string
	ScrapeTimeout      int // minutes
	Log                LogConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("snapshot_dir", "samples")
	v.SetDefault("python_bin", "python3")
	v.SetDefault("spicejet_script", "scrapers/spicejet_scraper_api.py")
	v.SetDefault("spicejet_intl_script", "scrapers/international/spicejet_scraper_api.py")
	v.SetDefault("etihad_script", "scrapers/etihad_scraper_api.py")
	v.SetDefault("scrape_timeout", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Set config file name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Set config file search paths
	v.AddConfigPath("/etc/flypoints")
	v.AddConfigPath(".")

	// Check for config file path from environment variable
	if configPath := os.Getenv("FLYPOINTS_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Read config file (if it exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults + env vars
	}

	// Set environment variable prefix
	v.SetEnvPrefix("FLYPOINTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		ServerAddr:         v.GetString("server_addr"),
		SnapshotDir:        v.GetString("snapshot_dir"),
		PythonBin:          v.GetString("python_bin"),
		SpiceJetScript:     v.GetString("spicejet_script"),
		SpiceJetIntlScript: v.GetString("spicejet_intl_script"),
		EtihadScript:       v.GetString("etihad_script"),
		ScrapeTimeout:      v.GetInt("scrape_timeout"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.ServerAddr == "" {
		return fmt.Errorf("server_addr is required")
	}

	if cfg.SnapshotDir == "" {
		return fmt.Errorf("snapshot_dir is required")
	}

	if cfg.PythonBin == "" {
		return fmt.Errorf("python_bin is required")
	}

	if cfg.ScrapeTimeout <= 0 {
		return fmt.Errorf("scrape_timeout must be greater than 0")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
