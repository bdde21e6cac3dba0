package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantagon/internal/metrics"
)

var configKeys = []string{"PORT", "DATABASE_URL", "BURN_RATE_FILTER", "LOG_LEVEL", "LOG_PRETTY", "CORS_ORIGINS"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/pantagon")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://localhost/pantagon", cfg.DatabaseURL)
	assert.Equal(t, metrics.BurnNotSold, cfg.BurnFilter)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadFromDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `# local settings
PORT=9090
export DATABASE_URL="postgres://file/pantagon"
BURN_RATE_FILTER=opted_in
LOG_LEVEL=DEBUG
LOG_PRETTY=true
CORS_ORIGINS=http://localhost:5173, https://dash.example.com
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://file/pantagon", cfg.DatabaseURL)
	assert.Equal(t, metrics.BurnOptedIn, cfg.BurnFilter)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, []string{"http://localhost:5173", "https://dash.example.com"}, cfg.CORSOrigins)
}

func TestLoadFromEnvironmentWins(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PORT=9090\nDATABASE_URL=postgres://file/pantagon\n")
	t.Setenv("PORT", "7070")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "postgres://file/pantagon", cfg.DatabaseURL)
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{"missing database url", "PORT=8080\n"},
		{"bad port", "DATABASE_URL=postgres://x\nPORT=abc\n"},
		{"negative port", "DATABASE_URL=postgres://x\nPORT=-1\n"},
		{"bad burn filter", "DATABASE_URL=postgres://x\nBURN_RATE_FILTER=all\n"},
		{"bad pretty flag", "DATABASE_URL=postgres://x\nLOG_PRETTY=maybe\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadFrom(writeEnvFile(t, tc.env))
			assert.Error(t, err)
		})
	}
}
