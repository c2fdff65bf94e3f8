package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"playnote/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "playnote", cfg.JWTIssuer)
	assert.Equal(t, "playnote-api", cfg.JWTAudience)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.AuthAllowPlaceholderLogin)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("AUTH_ALLOW_PLACEHOLDER_LOGIN", "true")

	cfg, err := config.Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.AuthAllowPlaceholderLogin)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "JWT_SECRET=from-file\nSERVER_ADDR=:9090\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := config.Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, ":9090", cfg.ServerAddr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "missing secret", mutate: func(c *config.Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "unknown driver", mutate: func(c *config.Config) { c.DatabaseDriver = "mysql" }, wantErr: `DATABASE_DRIVER "mysql" is not supported`},
		{name: "missing url", mutate: func(c *config.Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL is required"},
		{name: "bad ttl", mutate: func(c *config.Config) { c.JWTTTL = 0 }, wantErr: "JWT_TTL must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				DatabaseDriver: "postgres",
				DatabaseURL:    "postgres://localhost/playnote",
				JWTSecret:      "secret",
				JWTTTL:         time.Hour,
			}
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
