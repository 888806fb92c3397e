package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageBackend はリポジトリの保存先を表す。
type StorageBackend string

const (
	// StorageMemory はプロセス内メモリに保存する。プロセス終了で消える。
	StorageMemory StorageBackend = "memory"
	// StoragePostgres はPostgreSQLに保存する。
	StoragePostgres StorageBackend = "postgres"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Storage
	StorageBackend StorageBackend
	DatabaseURL    string

	// Server
	ServerPort        string
	CORSAllowedOrigin string

	// Rate Limit（req/min/client）
	RateLimitGeneral int
	RateLimitWrite   int

	// Calendar
	Timezone string
	Location *time.Location

	// Price cache
	PriceCacheTTL  time.Duration
	PriceCacheSize int64

	// Seed
	SeedSampleData bool

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。不正な任意項目はデフォルト値を使う。
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.StorageBackend = StorageBackend(strings.ToLower(getEnvString("STORAGE_BACKEND", string(StorageMemory))))
	switch cfg.StorageBackend {
	case StorageMemory, StoragePostgres:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %q (memory or postgres)", cfg.StorageBackend)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.StorageBackend == StoragePostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "")
	cfg.RateLimitGeneral = getEnvPositiveInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitWrite = getEnvPositiveInt("RATE_LIMIT_WRITE", 30)
	cfg.Timezone, cfg.Location = getEnvLocation("TIMEZONE", "UTC")
	cfg.PriceCacheTTL = getEnvDuration("PRICE_CACHE_TTL", 10*time.Minute)
	cfg.PriceCacheSize = getEnvInt64("PRICE_CACHE_SIZE", 1000)
	cfg.SeedSampleData = getEnvBool("SEED_SAMPLE_DATA", false)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

// getEnvPositiveInt は正の整数を読み込む。0以下や解析できない値はデフォルト値になる。
func getEnvPositiveInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvLocation はIANAタイムゾーン名を読み込む。読み込めない場合はデフォルトを使う。
func getEnvLocation(key, defaultVal string) (string, *time.Location) {
	name := getEnvString(key, defaultVal)
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc, _ = time.LoadLocation(defaultVal)
		return defaultVal, loc
	}
	return name, loc
}
