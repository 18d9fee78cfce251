// Package config loads service and CLI configuration from an optional file,
// SHORTLIST_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/cv-shortlister/internal/extraction"
	"github.com/jonathan/cv-shortlister/internal/shortlist"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SHORTLIST_PORT.
const EnvPrefix = "SHORTLIST"

// RateLimit configures the HTTP rate limiter
type RateLimit struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit" validate:"gte=1"`
	DefaultWindow   time.Duration `mapstructure:"default_window" validate:"gt=0"`
	ShortlistLimit  int           `mapstructure:"shortlist_limit" validate:"gte=1"`
	ShortlistWindow time.Duration `mapstructure:"shortlist_window" validate:"gt=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"gte=0"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// Config is the complete runtime configuration
type Config struct {
	DatabaseURL       string        `mapstructure:"database_url"`
	UploadDir         string        `mapstructure:"upload_dir" validate:"required"`
	Port              int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	LogLevel          string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogJSON           bool          `mapstructure:"log_json"`
	DefaultTopN       int           `mapstructure:"default_top_n" validate:"gte=0"`
	Workers           int           `mapstructure:"workers" validate:"gte=1,lte=64"`
	ExtractionTimeout time.Duration `mapstructure:"extraction_timeout" validate:"gt=0"`
	ReferenceYear     int           `mapstructure:"reference_year" validate:"gte=1900,lte=2200"`
	LexiconPath       string        `mapstructure:"lexicon_path"`
	RateLimit         RateLimit     `mapstructure:"rate_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("default_top_n", shortlist.DefaultTopN)
	v.SetDefault("workers", 4)
	v.SetDefault("extraction_timeout", 30*time.Second)
	v.SetDefault("reference_year", extraction.DefaultReferenceYear)
	v.SetDefault("lexicon_path", "")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.shortlist_limit", 30)
	v.SetDefault("rate_limit.shortlist_window", time.Hour)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Load reads configuration. path may be empty, in which case only defaults and
// environment variables apply. DATABASE_URL is honored when
// SHORTLIST_DATABASE_URL is unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database_url: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: invalid %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: database_url is required (set %s_DATABASE_URL or DATABASE_URL)", EnvPrefix)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
