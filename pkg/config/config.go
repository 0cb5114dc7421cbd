package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Store and fallback values accepted by the pages section
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	FallbackBlocking = "blocking"
	FallbackFalse    = "false"
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		setDefaults()

		// Environment variables override file values, e.g. PODCASTR_CONTENT_API_BASE_URL
		viper.SetEnvPrefix("PODCASTR")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// A missing file is fine, defaults and env vars apply
			var notFound viper.ConfigFileNotFoundError
			if !os.IsNotExist(err) && !errors.As(err, &notFound) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("content_api.base_url") == "" {
		return fmt.Errorf("content_api.base_url is required")
	}

	switch viper.GetString("pages.store") {
	case StoreMemory:
	case StoreSQLite:
		if viper.GetString("database.path") == "" {
			return fmt.Errorf("pages.store is %q but database.path is empty", StoreSQLite)
		}
	default:
		return fmt.Errorf("invalid pages.store: %q", viper.GetString("pages.store"))
	}

	switch viper.GetString("pages.fallback") {
	case FallbackBlocking, FallbackFalse:
	default:
		return fmt.Errorf("invalid pages.fallback: %q", viper.GetString("pages.fallback"))
	}

	if viper.GetDuration("pages.revalidate") <= 0 {
		return fmt.Errorf("pages.revalidate must be positive")
	}

	if _, err := time.LoadLocation(viper.GetString("render.timezone")); err != nil {
		return fmt.Errorf("invalid render.timezone: %w", err)
	}

	// Auto-correct invalid prebuild count
	if viper.GetInt("pages.prebuild_count") <= 0 {
		viper.Set("pages.prebuild_count", 2)
	}

	// Keep stale pages around at least as long as one revalidation window
	if viper.GetDuration("pages.retention") < viper.GetDuration("pages.revalidate") {
		viper.Set("pages.retention", viper.GetDuration("pages.revalidate"))
	}

	if viper.GetString("pages.revalidate_token") == "" {
		log.Println("[WARN] pages.revalidate_token is empty, on-demand revalidation is disabled")
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.ContentAPI.BaseURL == "" {
		return fmt.Errorf("content_api.base_url is required")
	}

	if c.Pages.Store != StoreMemory && c.Pages.Store != StoreSQLite {
		return fmt.Errorf("invalid pages.store: %q", c.Pages.Store)
	}

	if c.Pages.Fallback != FallbackBlocking && c.Pages.Fallback != FallbackFalse {
		return fmt.Errorf("invalid pages.fallback: %q", c.Pages.Fallback)
	}

	if c.Pages.Revalidate <= 0 {
		return fmt.Errorf("pages.revalidate must be positive")
	}

	if c.Pages.PrebuildCount <= 0 {
		c.Pages.PrebuildCount = 2
	}

	if c.Pages.Retention < c.Pages.Revalidate {
		c.Pages.Retention = c.Pages.Revalidate
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/pages.db")
	viper.SetDefault("database.verbose", false)

	// Content API defaults (json-server on port 3333)
	viper.SetDefault("content_api.base_url", "http://localhost:3333")
	viper.SetDefault("content_api.timeout", 10*time.Second)
	viper.SetDefault("content_api.user_agent", "PodcastrPages/1.0")
	viper.SetDefault("content_api.rate_limit", 0)

	// Page generation defaults
	viper.SetDefault("pages.store", StoreMemory)
	viper.SetDefault("pages.fallback", FallbackBlocking)
	viper.SetDefault("pages.prebuild_count", 2)
	viper.SetDefault("pages.revalidate", 24*time.Hour)
	viper.SetDefault("pages.retention", 7*24*time.Hour)
	viper.SetDefault("pages.prebuild_on_start", true)
	viper.SetDefault("pages.revalidate_token", "")
	viper.SetDefault("pages.cleanup_interval", time.Hour)
	viper.SetDefault("pages.output_dir", "./out")

	// Render defaults
	viper.SetDefault("render.locale", "pt-BR")
	viper.SetDefault("render.timezone", "UTC")
	viper.SetDefault("render.minify", true)

	// Cache defaults
	viper.SetDefault("cache.memory.max_size_mb", 64)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.rps", 20)
	viper.SetDefault("rate_limiting.burst", 40)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.enable_request_id", true)
	viper.SetDefault("security.max_body_bytes", 1048576)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.json", false)
}
