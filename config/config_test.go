package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_DRIVER", "DATABASE_URL", "SERVER_PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
	} {
		t.Setenv(key, env[key])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_URL": "postgres://localhost/fixtures"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://localhost/fixtures", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_DRIVER":      "sqlite3",
		"DATABASE_URL":         "file:fixtures.db",
		"SERVER_PORT":          "9090",
		"LOG_LEVEL":            "debug",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com,",
		"R2_BUCKET_NAME":       "fixtures",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.R2.Enabled())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"unknown driver", map[string]string{"DATABASE_URL": "x", "DATABASE_DRIVER": "mysql"}},
		{"bad port", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "http"}},
		{"port out of range", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "70000"}},
		{"bad log level", map[string]string{"DATABASE_URL": "x", "LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadTeamsFromBytes(t *testing.T) {
	tf, err := LoadTeamsFromBytes([]byte(`
name: Spring Cup
format: SEEDED_PLAYOFF
teams:
  - Lions
  - " Bears "
  - Wolves
`))
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", tf.Name)
	assert.Equal(t, models.FormatSeededPlayoff, tf.Format)
	assert.Equal(t, []string{"Lions", "Bears", "Wolves"}, tf.Teams)
}

func TestLoadTeamsFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "teams: [a, b"},
		{"one team", "teams: [Lions]"},
		{"duplicate", "teams: [Lions, Bears, Lions]"},
		{"blank", "teams: [Lions, '  ']"},
		{"unknown format", "format: SWISS\nteams: [Lions, Bears]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTeamsFromBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadTeamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.yaml")
	require.NoError(t, os.WriteFile(path, []byte("teams: [A, B, C]\n"), 0o644))

	tf, err := LoadTeamsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, tf.Teams)

	_, err = LoadTeamsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
