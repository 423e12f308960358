package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for mes-engine.
// Configuration can come from a YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// HTTP server timeouts
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`

	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Paging    PagingConfig    `yaml:"paging"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"mes"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"secom"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	// ConnectAttempts bounds how many times startup waits for the database.
	ConnectAttempts int `yaml:"connect_attempts" env:"DB_CONNECT_ATTEMPTS" env-default:"10"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // json | console
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// PagingConfig enumerates page-size tunables for paged collection endpoints.
type PagingConfig struct {
	// DefaultPageSize is used when a request omits size. Range: 1..MaxPageSize.
	DefaultPageSize int `yaml:"default_page_size" env:"PAGING_DEFAULT_SIZE" env-default:"20"`
	// MaxPageSize caps any requested size. Range: 1..10000.
	MaxPageSize int `yaml:"max_page_size" env:"PAGING_MAX_SIZE" env-default:"500"`
	// FeaturePageSize is the default size for the feature catalog listing.
	FeaturePageSize int `yaml:"feature_page_size" env:"PAGING_FEATURE_SIZE" env-default:"50"`
	// AnomalyPageSize is the default size for the out-of-spec measurement listing.
	AnomalyPageSize int `yaml:"anomaly_page_size" env:"PAGING_ANOMALY_SIZE" env-default:"50"`
}

// AnalyticsConfig enumerates the defaults for parameterized analytics queries.
type AnalyticsConfig struct {
	// DefaultRiskThreshold for high-risk lot queries. Range: [0, 1].
	DefaultRiskThreshold float64 `yaml:"default_risk_threshold" env:"ANALYTICS_RISK_THRESHOLD" env-default:"0.70"`
	// HighRiskLimit is the default row limit for high-risk lots. Range: 1..MaxLimit.
	HighRiskLimit int `yaml:"high_risk_limit" env:"ANALYTICS_HIGH_RISK_LIMIT" env-default:"50"`
	// FeatureImportanceLimit is the default row limit for the ranking. Range: 1..MaxLimit.
	FeatureImportanceLimit int `yaml:"feature_importance_limit" env:"ANALYTICS_FEATURE_LIMIT" env-default:"10"`
	// DefaultDefectType selects the importance ranking when none is requested.
	DefaultDefectType string `yaml:"default_defect_type" env:"ANALYTICS_DEFECT_TYPE" env-default:"overall"`
	// MaxLimit caps any requested analytics limit.
	MaxLimit int `yaml:"max_limit" env:"ANALYTICS_MAX_LIMIT" env-default:"1000"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// A missing config.yaml is not an error; defaults and environment apply.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	return LoadFile("config.yaml", version)
}

// LoadFile is Load with an explicit YAML path.
func LoadFile(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every tunable against its documented range.
func (c *Config) Validate() error {
	if err := c.Paging.Validate(); err != nil {
		return err
	}
	if err := c.Analytics.Validate(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Validate checks the paging tunables.
func (p *PagingConfig) Validate() error {
	if p.MaxPageSize < 1 || p.MaxPageSize > 10000 {
		return fmt.Errorf("paging.max_page_size must be in [1, 10000], got %d", p.MaxPageSize)
	}
	for name, v := range map[string]int{
		"paging.default_page_size": p.DefaultPageSize,
		"paging.feature_page_size": p.FeaturePageSize,
		"paging.anomaly_page_size": p.AnomalyPageSize,
	} {
		if v < 1 || v > p.MaxPageSize {
			return fmt.Errorf("%s must be in [1, %d], got %d", name, p.MaxPageSize, v)
		}
	}
	return nil
}

// Validate checks the analytics tunables.
func (a *AnalyticsConfig) Validate() error {
	if a.DefaultRiskThreshold < 0 || a.DefaultRiskThreshold > 1 {
		return fmt.Errorf("analytics.default_risk_threshold must be in [0, 1], got %v", a.DefaultRiskThreshold)
	}
	if a.MaxLimit < 1 {
		return fmt.Errorf("analytics.max_limit must be positive, got %d", a.MaxLimit)
	}
	if a.HighRiskLimit < 1 || a.HighRiskLimit > a.MaxLimit {
		return fmt.Errorf("analytics.high_risk_limit must be in [1, %d], got %d", a.MaxLimit, a.HighRiskLimit)
	}
	if a.FeatureImportanceLimit < 1 || a.FeatureImportanceLimit > a.MaxLimit {
		return fmt.Errorf("analytics.feature_importance_limit must be in [1, %d], got %d", a.MaxLimit, a.FeatureImportanceLimit)
	}
	if a.DefaultDefectType == "" {
		return fmt.Errorf("analytics.default_defect_type must not be empty")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the database as a postgres:// URL, the form golang-migrate expects.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
