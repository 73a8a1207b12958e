package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "STORE_BACKEND", "USE_MEMORY_STORE", "SQLITE_PATH",
		"GOOGLE_CLOUD_PROJECT", "SKIP_AUTH", "GEMINI_API_KEY", "GEMINI_MODEL",
		"TIMEZONE", "LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTimezone, cfg.Timezone)
	assert.Equal(t, DefaultSQLitePath, cfg.SQLitePath)
	assert.Equal(t, BackendFirestore, cfg.StoreBackend())
	assert.False(t, cfg.SkipAuth)
	assert.Equal(t, DefaultAllowedOrigins, cfg.Origins())
	assert.Equal(t, "Africa/Casablanca", cfg.Location().String())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/h.db")
	t.Setenv("SKIP_AUTH", "true")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend())
	assert.Equal(t, "/tmp/h.db", cfg.SQLitePath)
	assert.True(t, cfg.SkipAuth)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestStoreBackendOverrides(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit sqlite", Config{Backend: BackendSQLite}, BackendSQLite},
		{"use memory flag", Config{Backend: BackendFirestore, UseMemoryStore: true}, BackendMemory},
		{"local env", Config{Backend: BackendSQLite, Env: "LOCAL"}, BackendMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.StoreBackend())
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_BACKEND", "postgres")
		_, err := Load()
		assert.ErrorContains(t, err, "STORE_BACKEND")
	})
	t.Run("timezone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "TIMEZONE")
	})
}

func TestStoreOptions(t *testing.T) {
	cfg := Config{Backend: BackendSQLite, SQLitePath: "x.db", ProjectID: "p"}
	opts := cfg.StoreOptions()
	assert.Equal(t, BackendSQLite, opts.Backend)
	assert.Equal(t, "x.db", opts.SQLitePath)
	assert.Equal(t, "p", opts.ProjectID)
}
