package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	LogLevel      string
	EncryptionKey string
	Postgres      PostgresConfig
	HTTP          HTTPConfig
	Auth          AuthConfig
	Redis         RedisConfig
	Bot           BotConfig
}

type PostgresConfig struct {
	URL      string
	MaxConns int32
}

type HTTPConfig struct {
	Port            int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// RedisConfig is optional; an empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// BotConfig is optional; an empty Token disables the moderator bot.
type BotConfig struct {
	Token          string
	AdminChatID    int64
	WorkerPoolSize int
}

func (c *Config) IsDev() bool { return c.AppEnv == "dev" }

// bindings maps viper keys to environment variable names.
var bindings = map[string]string{
	"app.env":              "APP_ENV",
	"log.level":            "LOG_LEVEL",
	"encryption.key":       "ENCRYPTION_KEY",
	"postgres.url":         "DATABASE_URL",
	"postgres.max_conns":   "DATABASE_MAX_CONNS",
	"http.port":            "HTTP_PORT",
	"http.allowed_origins": "HTTP_ALLOWED_ORIGINS",
	"http.shutdown":        "HTTP_SHUTDOWN_TIMEOUT",
	"auth.signing_key":     "AUTH_SIGNING_KEY",
	"auth.token_ttl":       "AUTH_TOKEN_TTL",
	"redis.addr":           "REDIS_ADDR",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"redis.cache_ttl":      "DIRECTORY_CACHE_TTL",
	"bot.token":            "BOT_MODERATOR_TOKEN",
	"bot.admin_chat_id":    "BOT_ADMIN_CHAT_ID",
	"bot.workers":          "BOT_WORKER_POOL_SIZE",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// 1. Load .env file into the process environment.
	// A missing file is fine, we fall back to OS-set variables.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// 2. Explicitly bind viper keys to env var names
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Set defaults
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.allowed_origins", "*")
	v.SetDefault("http.shutdown", "10s")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", "5m")
	v.SetDefault("bot.workers", 4)

	// 4. Get values from viper
	cfg := Config{
		AppEnv:        v.GetString("app.env"),
		LogLevel:      v.GetString("log.level"),
		EncryptionKey: v.GetString("encryption.key"),
		Postgres: PostgresConfig{
			URL:      v.GetString("postgres.url"),
			MaxConns: v.GetInt32("postgres.max_conns"),
		},
		HTTP: HTTPConfig{
			Port:            v.GetInt("http.port"),
			AllowedOrigins:  splitList(v.GetString("http.allowed_origins")),
			ShutdownTimeout: v.GetDuration("http.shutdown"),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			CacheTTL: v.GetDuration("redis.cache_ttl"),
		},
		Bot: BotConfig{
			Token:          v.GetString("bot.token"),
			AdminChatID:    v.GetInt64("bot.admin_chat_id"),
			WorkerPoolSize: v.GetInt("bot.workers"),
		},
	}

	// 5. Validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.EncryptionKey == "" {
		errs = append(errs, errors.New("ENCRYPTION_KEY is not set in environment or .env file"))
	} else if len(c.EncryptionKey) != 64 {
		errs = append(errs, fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey)))
	}
	if c.Postgres.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if len(c.Auth.SigningKey) < 32 {
		errs = append(errs, errors.New("AUTH_SIGNING_KEY must be at least 32 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d is out of range", c.HTTP.Port))
	}
	if c.Bot.Token != "" {
		if c.Bot.AdminChatID == 0 {
			errs = append(errs, errors.New("BOT_ADMIN_CHAT_ID is required when BOT_MODERATOR_TOKEN is set"))
		}
		if c.Bot.WorkerPoolSize < 1 {
			errs = append(errs, errors.New("BOT_WORKER_POOL_SIZE must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
