package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Database     DatabaseConfig   `mapstructure:"database"`
	ContentAPI   ContentAPIConfig `mapstructure:"content_api"`
	Pages        PagesConfig      `mapstructure:"pages"`
	Render       RenderConfig     `mapstructure:"render"`
	Cache        CacheConfig      `mapstructure:"cache"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Security     SecurityConfig   `mapstructure:"security"`
	Logging      LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// ContentAPIConfig contains settings for the upstream episode REST API
type ContentAPIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	RateLimit int           `mapstructure:"rate_limit"` // requests per second, 0 disables
}

// PagesConfig contains incremental static generation settings
type PagesConfig struct {
	Store           string        `mapstructure:"store"`    // memory or sqlite
	Fallback        string        `mapstructure:"fallback"` // blocking or false
	PrebuildCount   int           `mapstructure:"prebuild_count"`
	Revalidate      time.Duration `mapstructure:"revalidate"`
	Retention       time.Duration `mapstructure:"retention"`
	PrebuildOnStart bool          `mapstructure:"prebuild_on_start"`
	RevalidateToken string        `mapstructure:"revalidate_token"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"` // sqlite store only
	OutputDir       string        `mapstructure:"output_dir"`
}

// RenderConfig contains page rendering settings
type RenderConfig struct {
	Locale   string `mapstructure:"locale"`
	Timezone string `mapstructure:"timezone"`
	Minify   bool   `mapstructure:"minify"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Memory MemoryCacheConfig `mapstructure:"memory"`
}

// MemoryCacheConfig contains in-memory cache settings
type MemoryCacheConfig struct {
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	RPS     int  `mapstructure:"rps"`
	Burst   int  `mapstructure:"burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS      bool     `mapstructure:"enable_cors"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	EnableRequestID bool     `mapstructure:"enable_request_id"`
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}
