package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECURITY_JWT_SECRET", "test-secret")

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, 8288, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "data/mellat.db", cfg.DatabaseDbPath)
	assert.Equal(t, OverpaymentAllow, cfg.FeesOverpaymentPolicy)
	assert.Equal(t, int64(5*1024*1024), cfg.UploadsMaxFileBytes)
	assert.Equal(t, 10, cfg.PaginationDefaultLimit)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SECURITY_JWT_SECRET", "test-secret")
	t.Setenv("FEES_OVERPAYMENT_POLICY", "REJECT")
	t.Setenv("DATABASE_CACHE_ADDRESS", "valkey")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, OverpaymentReject, cfg.FeesOverpaymentPolicy)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.True(t, cfg.CacheEnabled())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "SECURITY_JWT_SECRET=from-file\nUPLOADS_DIR=/srv/uploads\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.SecurityJwtSecret)
	assert.Equal(t, "/srv/uploads", cfg.UploadsDir)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseDriver:        "sqlite",
		DatabaseDbPath:        "data/test.db",
		SecurityJwtSecret:     "secret",
		FeesOverpaymentPolicy: OverpaymentAllow,
		UploadsDir:            "uploads",
	}

	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name:     "unknown driver",
			mutate:   func(c *Config) { c.DatabaseDriver = "mysql" },
			errorMsg: "unsupported DATABASE_DRIVER",
		},
		{
			name:     "missing sqlite path",
			mutate:   func(c *Config) { c.DatabaseDbPath = "" },
			errorMsg: "DATABASE_DB_PATH is required",
		},
		{
			name:     "missing secret",
			mutate:   func(c *Config) { c.SecurityJwtSecret = "" },
			errorMsg: "SECURITY_JWT_SECRET is required",
		},
		{
			name: "missing secret with auth disabled",
			mutate: func(c *Config) {
				c.SecurityJwtSecret = ""
				c.SecurityAuthDisabled = true
			},
		},
		{
			name:     "unknown overpayment policy",
			mutate:   func(c *Config) { c.FeesOverpaymentPolicy = "warn" },
			errorMsg: "unsupported FEES_OVERPAYMENT_POLICY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
