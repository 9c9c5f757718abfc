package config

import (
	"os"
	"strconv"
	"time"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreOxiDB  = "oxidb"
)

type Config struct {
	HTTPAddr      string
	Store         string
	SQLitePath    string
	OxiDBHost     string
	OxiDBPort     int
	PoolSize      int
	JWTSecret     string
	AdminEmail    string
	AdminPass     string
	StorageQuota  int64
	RedirectDelay time.Duration
	GelfAddr      string
}

func Load() *Config {
	return &Config{
		HTTPAddr:      getEnv("PORTAL_ADDR", ":8080"),
		Store:         getEnv("PORTAL_STORE", StoreMemory),
		SQLitePath:    getEnv("PORTAL_SQLITE_PATH", "portal.db"),
		OxiDBHost:     getEnv("OXIDB_HOST", "127.0.0.1"),
		OxiDBPort:     getEnvInt("OXIDB_PORT", 4444),
		PoolSize:      getEnvInt("PORTAL_POOL_SIZE", 3),
		JWTSecret:     getEnv("PORTAL_JWT_SECRET", "portal-dev-secret-change-me"),
		AdminEmail:    getEnv("PORTAL_ADMIN_EMAIL", "admin@tonio-senora.local"),
		AdminPass:     getEnv("PORTAL_ADMIN_PASS", "admin123"),
		StorageQuota:  int64(getEnvInt("PORTAL_STORAGE_QUOTA", kv.DefaultQuota)),
		RedirectDelay: getEnvDuration("PORTAL_REDIRECT_DELAY", time.Second),
		GelfAddr:      getEnv("PORTAL_GELF_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// getEnvDuration accepts "1.5s"-style durations or a bare number of
// milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
