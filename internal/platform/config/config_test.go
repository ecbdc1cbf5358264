package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/ledger")

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 10*time.Minute, cfg.BalanceCacheTTL)
	assert.Equal(t, 5, cfg.TxMaxRetries)
	assert.Equal(t, cfg.JWTSecret, cfg.DownloadURLSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("BALANCE_CACHE_TTL", "30s")
	t.Setenv("TX_MAX_RETRIES", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REPORT_STALE_AFTER", "not-a-duration")

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.BalanceCacheTTL)
	assert.Equal(t, 1, cfg.TxMaxRetries)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.ReportStaleAfter)
}
