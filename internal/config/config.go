package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/testforge/pomgen/internal/analyzer"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Env      Environment `envconfig:"ENV" default:"development"`
	LogLevel string      `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool        `envconfig:"DEBUG" default:"false"`

	// Analysis pipeline
	Analyzer AnalyzerConfig

	// Browser automation
	Browser BrowserConfig

	// Artifact output
	Output OutputConfig

	// Server
	Server ServerConfig

	// Redis
	Redis RedisConfig

	// Object storage
	Storage StorageConfig
}

// AnalyzerConfig holds similarity and grouping settings
type AnalyzerConfig struct {
	MinSimilarity          float64 `envconfig:"MIN_SIMILARITY" default:"40"`
	MaxPerSelector         int     `envconfig:"MAX_PER_SELECTOR" default:"120"`
	SelectorBatchSize      int     `envconfig:"SELECTOR_BATCH_SIZE" default:"4"`
	GroupKeyClassPrefixLen int     `envconfig:"GROUP_KEY_CLASS_PREFIX_LEN" default:"24"`
}

// BrowserConfig holds browser automation settings
type BrowserConfig struct {
	Headless          bool          `envconfig:"HEADLESS" default:"true"`
	NavigationTimeout time.Duration `envconfig:"NAVIGATION_TIMEOUT" default:"45s"`
	NavRatePerSecond  float64       `envconfig:"NAV_RATE_PER_SECOND" default:"1"`
}

// OutputConfig holds artifact output paths
type OutputConfig struct {
	ReportFile   string `envconfig:"REPORT_FILE" default:"./pom-locators-report.json"`
	BasePageFile string `envconfig:"BASEPAGE_FILE" default:"./BasePage.ts"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Addr returns the server listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig holds Redis settings for the element cache
type RedisConfig struct {
	Enabled      bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host         string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port         int           `envconfig:"REDIS_PORT" default:"6379"`
	Password     string        `envconfig:"REDIS_PASSWORD" default:""`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
	CacheTTL     time.Duration `envconfig:"REDIS_CACHE_TTL" default:"15m"`
}

// Addr returns Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig holds MinIO/S3 settings for artifact uploads
type StorageConfig struct {
	Enabled   bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint  string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"STORAGE_BUCKET" default:"pomgen"`
	Region    string `envconfig:"STORAGE_REGION" default:"us-east-1"`
	UseSSL    bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.Analyzer.MinSimilarity < 0 || c.Analyzer.MinSimilarity > 100 {
		errors = append(errors, "MIN_SIMILARITY must be between 0 and 100")
	}
	if c.Analyzer.MaxPerSelector <= 0 {
		errors = append(errors, "MAX_PER_SELECTOR must be positive")
	}
	if c.Analyzer.SelectorBatchSize <= 0 {
		errors = append(errors, "SELECTOR_BATCH_SIZE must be positive")
	}
	if c.Browser.NavigationTimeout <= 0 {
		errors = append(errors, "NAVIGATION_TIMEOUT must be positive")
	}
	if c.Output.ReportFile == "" {
		errors = append(errors, "REPORT_FILE must not be empty")
	}
	if c.Output.BasePageFile == "" {
		errors = append(errors, "BASEPAGE_FILE must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// ToAnalyzer converts the loaded configuration into the pipeline's config
func (c *Config) ToAnalyzer() analyzer.Config {
	return analyzer.Config{
		MinSimilarity:          c.Analyzer.MinSimilarity,
		MaxPerSelector:         c.Analyzer.MaxPerSelector,
		SelectorBatchSize:      c.Analyzer.SelectorBatchSize,
		Headless:               c.Browser.Headless,
		NavigationTimeout:      c.Browser.NavigationTimeout,
		NavRatePerSecond:       c.Browser.NavRatePerSecond,
		GroupKeyClassPrefixLen: c.Analyzer.GroupKeyClassPrefixLen,
		ReportFile:             c.Output.ReportFile,
		BasePageFile:           c.Output.BasePageFile,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GetLogLevel returns the appropriate zap log level
func (c *Config) GetLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
