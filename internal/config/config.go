package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Mail     MailConfig     `mapstructure:"mail"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ClientOrigin string `mapstructure:"client_origin"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// StorageConfig selects where the state snapshot lives.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"` // file, postgres or redis
	Key         string `mapstructure:"key"`
	FilePath    string `mapstructure:"file_path"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisAddr   string `mapstructure:"redis_addr"`
}

type PipelineConfig struct {
	// Enforce rejects status changes the transition table does not list.
	Enforce      bool          `mapstructure:"enforce"`
	ETA          time.Duration `mapstructure:"eta"`
	AtRiskWindow time.Duration `mapstructure:"at_risk_window"`
}

type AppConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MailConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sender  string `mapstructure:"sender"`
	Region  string `mapstructure:"region"`
}

type JobsConfig struct {
	LatenessInterval time.Duration `mapstructure:"lateness_interval"`
}

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Location resolves app.timezone, used for "today" in reports.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.client_origin", "http://localhost:5173")
	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.key", "kampai-delivery-storage")
	v.SetDefault("storage.file_path", "data/kampai-delivery-storage.json")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("pipeline.enforce", false)
	v.SetDefault("pipeline.eta", 45*time.Minute)
	v.SetDefault("pipeline.at_risk_window", 15*time.Minute)
	v.SetDefault("app.timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.sender", "")
	v.SetDefault("mail.region", "us-east-1")
	v.SetDefault("jobs.lateness_interval", time.Minute)
}

// LoadConfig reads cfgFile, or config.yaml from the usual places when it is
// empty, and lets OPSDESK_* environment variables override any key
// (OPSDESK_SERVER_PORT overrides server.port).
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("OPSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendPostgres && c.Storage.DatabaseURL == "" {
		return errors.New("config: storage.database_url is required for the postgres backend")
	}
	if c.Mail.Enabled && c.Mail.Sender == "" {
		return errors.New("config: mail.sender is required when mail is enabled")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: auth.token_ttl must be positive")
	}
	if c.Pipeline.AtRiskWindow <= 0 {
		return errors.New("config: pipeline.at_risk_window must be positive")
	}
	if c.Jobs.LatenessInterval <= 0 {
		return errors.New("config: jobs.lateness_interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: app.timezone: %w", err)
	}
	return nil
}
