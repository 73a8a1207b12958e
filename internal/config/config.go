// Package config loads the server and CLI configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hsabsaboun/backend/internal/store"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Store backends.
const (
	BackendMemory    = store.BackendMemory
	BackendFirestore = store.BackendFirestore
	BackendSQLite    = store.BackendSQLite
)

const (
	DefaultPort       = "8111"
	DefaultTimezone   = "Africa/Casablanca"
	DefaultSQLitePath = "data/hsab.db"
)

// DefaultAllowedOrigins are the CORS origins of the local and hosted frontends.
var DefaultAllowedOrigins = []string{
	"http://localhost:1234",
	"http://127.0.0.1:1234",
	"http://localhost:5173",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Port is the HTTP listen port.
	// Environment variable: PORT
	Port string `koanf:"PORT"`

	// Env names the deployment; "local" forces the memory store.
	// Environment variable: ENV
	Env string `koanf:"ENV"`

	// Backend selects memory, firestore or sqlite.
	// Environment variable: STORE_BACKEND
	Backend string `koanf:"STORE_BACKEND"`

	// UseMemoryStore forces the memory store regardless of Backend.
	// Environment variable: USE_MEMORY_STORE
	UseMemoryStore bool `koanf:"USE_MEMORY_STORE"`

	// SQLitePath is the database file of the sqlite backend.
	// Environment variable: SQLITE_PATH
	SQLitePath string `koanf:"SQLITE_PATH"`

	// ProjectID is the Google Cloud project of Firestore and Firebase Auth.
	// Environment variable: GOOGLE_CLOUD_PROJECT
	ProjectID string `koanf:"GOOGLE_CLOUD_PROJECT"`

	// SkipAuth replaces token verification with the local dev user.
	// Environment variable: SKIP_AUTH
	SkipAuth bool `koanf:"SKIP_AUTH"`

	// GeminiAPIKey enables the assistant; without it chat replies with the fallback.
	// Environment variable: GEMINI_API_KEY
	GeminiAPIKey string `koanf:"GEMINI_API_KEY"`

	// GeminiModel overrides the default model.
	// Environment variable: GEMINI_MODEL
	GeminiModel string `koanf:"GEMINI_MODEL"`

	// Timezone is the IANA zone used to decide "today".
	// Environment variable: TIMEZONE
	Timezone string `koanf:"TIMEZONE"`

	// LogLevel and LogFormat configure internal/logging.
	// Environment variables: LOG_LEVEL, LOG_FORMAT
	LogLevel  string `koanf:"LOG_LEVEL"`
	LogFormat string `koanf:"LOG_FORMAT"`

	// AllowedOrigins is a comma separated CORS origin list.
	// Environment variable: ALLOWED_ORIGINS
	AllowedOrigins string `koanf:"ALLOWED_ORIGINS"`
}

// Load reads the environment into a Config and fills in defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.SQLitePath == "" {
		c.SQLitePath = DefaultSQLitePath
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendFirestore
	}
}

// Validate rejects unknown backends and time zones.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendFirestore, BackendSQLite:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// StoreBackend returns the backend to use. USE_MEMORY_STORE=true or ENV=local
// always select the memory store.
func (c *Config) StoreBackend() string {
	if c.UseMemoryStore || strings.EqualFold(c.Env, "local") {
		return BackendMemory
	}
	return c.Backend
}

// Location returns the configured time zone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Origins splits AllowedOrigins, falling back to DefaultAllowedOrigins.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return DefaultAllowedOrigins
	}
	return origins
}

// StoreOptions returns the options to open the configured store.
func (c *Config) StoreOptions() store.OpenOptions {
	return store.OpenOptions{
		Backend:    c.StoreBackend(),
		ProjectID:  c.ProjectID,
		SQLitePath: c.SQLitePath,
	}
}
