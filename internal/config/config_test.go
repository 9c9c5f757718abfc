package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORTAL_ADDR", "PORTAL_STORE", "OXIDB_PORT", "PORTAL_STORAGE_QUOTA", "PORTAL_REDIRECT_DELAY", "PORTAL_GELF_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 4444, cfg.OxiDBPort)
	assert.Equal(t, int64(kv.DefaultQuota), cfg.StorageQuota)
	assert.Equal(t, time.Second, cfg.RedirectDelay)
	assert.Empty(t, cfg.GelfAddr)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORTAL_ADDR", ":9090")
	t.Setenv("PORTAL_STORE", StoreSQLite)
	t.Setenv("OXIDB_PORT", "5555")
	t.Setenv("PORTAL_STORAGE_QUOTA", "1024")
	t.Setenv("PORTAL_REDIRECT_DELAY", "250ms")
	t.Setenv("PORTAL_ADMIN_EMAIL", "team@example.com")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 5555, cfg.OxiDBPort)
	assert.Equal(t, int64(1024), cfg.StorageQuota)
	assert.Equal(t, 250*time.Millisecond, cfg.RedirectDelay)
	assert.Equal(t, "team@example.com", cfg.AdminEmail)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("OXIDB_PORT", "44a4")
	t.Setenv("PORTAL_REDIRECT_DELAY", "soon")
	assert.Equal(t, 4444, getEnvInt("OXIDB_PORT", 4444))
	assert.Equal(t, time.Second, getEnvDuration("PORTAL_REDIRECT_DELAY", time.Second))

	t.Setenv("PORTAL_REDIRECT_DELAY", "1500")
	assert.Equal(t, 1500*time.Millisecond, getEnvDuration("PORTAL_REDIRECT_DELAY", time.Second))
}
