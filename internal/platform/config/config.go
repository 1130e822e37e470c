// Package config はアプリケーション全体の設定を環境変数から読み込みます。
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"finance_collector/internal/platform/db"
	"finance_collector/internal/platform/externalapi/fmp"
)

// Config は起動時に一度だけ読み込まれ、各コンポーネントへ明示的に渡されます。
type Config struct {
	Server   ServerConfig
	DB       db.Config
	Redis    RedisConfig
	FMP      fmp.Config
	Collect  CollectConfig
	Auth     AuthConfig
	LogLevel slog.Level
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// RedisConfig は実行状態の保存先です。Host が空の場合 Redis は使いません。
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// Enabled reports whether a Redis host is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type CollectConfig struct {
	RunOnStartup      bool
	EnrichConcurrency int
}

// AuthConfig は /collect の認証設定です。CollectJWTSecret が空なら認証なしで公開します。
type AuthConfig struct {
	CollectJWTSecret string
}

// LoadDotEnv は .env ファイルがあれば読み込みます。既に設定済みの環境変数は上書きしません。
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			slog.Info(".env not found; using system environment variables", "path", p)
		}
	}
}

// Load は環境変数から設定を読み込みます。未設定または不正な値は既定値になります。
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		DB: db.LoadConfigFromEnv(),
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "finance_collector"),
		},
		FMP: fmp.LoadConfig(),
		Collect: CollectConfig{
			RunOnStartup:      getEnvBool("COLLECT_ON_STARTUP", true),
			EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 8),
		},
		Auth: AuthConfig{
			CollectJWTSecret: os.Getenv("COLLECT_JWT_SECRET"),
		},
		LogLevel: parseLevel(os.Getenv("LOG_LEVEL")),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
