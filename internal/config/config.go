package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Sync     SyncConfig     `mapstructure:"sync"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	RefreshSecret      string `mapstructure:"refresh_secret" split_words:"true"`
	ExpiryHours        int    `mapstructure:"expiry_hours" split_words:"true"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours" split_words:"true"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key" split_words:"true"`
	SecretKey string `mapstructure:"secret_key" split_words:"true"`
	UseSSL    bool   `mapstructure:"use_ssl" split_words:"true"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type SyncConfig struct {
	DrainIntervalSeconds int `mapstructure:"drain_interval_seconds" split_words:"true"`
	ProbeIntervalSeconds int `mapstructure:"probe_interval_seconds" split_words:"true"`
}

// LoadConfig reads config.yaml when present and applies ASVICARE_* environment
// overrides on top. A missing file is not an error; a fully empty database
// section puts the application into in-memory mode.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	var config Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := viper.Unmarshal(&config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := envconfig.Process("asvicare", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.JWT.ExpiryHours == 0 {
		c.JWT.ExpiryHours = 24
	}
	if c.JWT.RefreshExpiryHours == 0 {
		c.JWT.RefreshExpiryHours = 168
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Sync.DrainIntervalSeconds == 0 {
		c.Sync.DrainIntervalSeconds = 30
	}
	if c.Sync.ProbeIntervalSeconds == 0 {
		c.Sync.ProbeIntervalSeconds = 15
	}
}

// DatabaseConfigured reports whether a Postgres backend was supplied. Without
// one the application runs on in-memory stores and nothing persists.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.Host != "" && c.Database.Name != ""
}

// RedisConfigured reports whether the Redis broker and durable offline
// queue are available.
func (c *Config) RedisConfigured() bool {
	return c.Redis.URL != ""
}

// StorageConfigured reports whether the object store for visit photos is
// available.
func (c *Config) StorageConfigured() bool {
	return c.Storage.Endpoint != ""
}

// SMTPConfigured reports whether appointment reminder emails can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}
