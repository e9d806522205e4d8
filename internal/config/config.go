package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingSecretKey   = errors.New("SECRET_KEY is required")
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
}

type AppConfig struct {
	Name     string `toml:"name"`
	Env      string `toml:"env"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	GinMode  string `toml:"gin_mode"`
	LogLevel string `toml:"log_level"`
}

type AuthConfig struct {
	SecretKey           string `toml:"secret_key"`
	SessionCookie       string `toml:"session_cookie"`
	SessionExpireMinute int    `toml:"session_expire_minute"`
	SecureCookie        bool   `toml:"secure_cookie"`
	BcryptCost          int    `toml:"bcrypt_cost"`
}

type DatabaseConfig struct {
	URL                   string `toml:"url"`
	MaxIdleConns          int    `toml:"max_idle_conns"`
	MaxOpenConns          int    `toml:"max_open_conns"`
	ConnMaxLifetimeMinute int    `toml:"conn_max_lifetime_minute"`
}

// RedisConfig.Addr left empty keeps flash notices in process memory.
type RedisConfig struct {
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	FlashTTLSeconds int    `toml:"flash_ttl_seconds"`
}

// RabbitMQConfig.URL left empty disables activity publication.
type RabbitMQConfig struct {
	URL           string `toml:"url"`
	ActivityQueue string `toml:"activity_queue"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(getEnv("ENV_FILE", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file failed: %w", err)
	}

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing setting the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return ErrMissingDatabaseURL
	}
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		return ErrMissingSecretKey
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) IsDev() bool {
	return c.App.Env == "dev" || c.App.Env == "development"
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "warbler",
			Env:      "dev",
			Host:     "0.0.0.0",
			Port:     5000,
			GinMode:  "debug",
			LogLevel: "info",
		},
		Auth: AuthConfig{
			SessionCookie:       "warbler_session",
			SessionExpireMinute: 60 * 24 * 7,
			SecureCookie:        false,
			BcryptCost:          bcrypt.DefaultCost,
		},
		Database: DatabaseConfig{
			MaxIdleConns:          10,
			MaxOpenConns:          50,
			ConnMaxLifetimeMinute: 60,
		},
		Redis: RedisConfig{
			Addr:            "",
			Password:        "",
			DB:              0,
			FlashTTLSeconds: 300,
		},
		RabbitMQ: RabbitMQConfig{
			URL:           "",
			ActivityQueue: "warbler.activity",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.Auth.SecretKey = getEnv("SECRET_KEY", cfg.Auth.SecretKey)
	cfg.Auth.SessionCookie = getEnv("SESSION_COOKIE", cfg.Auth.SessionCookie)
	cfg.Auth.SessionExpireMinute = getEnvAsInt("SESSION_EXPIRE_MINUTE", cfg.Auth.SessionExpireMinute)
	cfg.Auth.SecureCookie = getEnvAsBool("SESSION_SECURE_COOKIE", cfg.Auth.SecureCookie)
	cfg.Auth.BcryptCost = getEnvAsInt("BCRYPT_COST", cfg.Auth.BcryptCost)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.ConnMaxLifetimeMinute = getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTE", cfg.Database.ConnMaxLifetimeMinute)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.FlashTTLSeconds = getEnvAsInt("FLASH_TTL_SECONDS", cfg.Redis.FlashTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.ActivityQueue = getEnv("RABBITMQ_ACTIVITY_QUEUE", cfg.RabbitMQ.ActivityQueue)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
