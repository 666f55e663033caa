package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 8, cfg.Catalog.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, GateModeVerify, cfg.Auth.GateMode)
	assert.Equal(t, DevelopmentSecret, cfg.Auth.JWTSecret, "development gets a fallback secret")
	assert.True(t, cfg.UsesDevelopmentSecret())
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MOVIES_SERVER_ADDR", ":9090")
	t.Setenv("MOVIES_CATALOG_PAGE_SIZE", "12")
	t.Setenv("MOVIES_AUTH_TOKEN_TTL", "2h")
	t.Setenv("MOVIES_AUTH_GATE_MODE", GateModePresence)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, GateModePresence, cfg.Auth.GateMode)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  env: production
auth:
  jwt_secret: file-secret
database:
  path: /var/lib/movies/movies.db
redis:
  addr: redis:6379
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.UsesDevelopmentSecret())
	assert.Equal(t, "/var/lib/movies/movies.db", cfg.Database.Path)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "production without secret", mutate: func(c *Config) {
			c.App.Env = EnvProduction
			c.Auth.JWTSecret = ""
		}, wantErr: true},
		{name: "production with development secret", mutate: func(c *Config) {
			c.App.Env = EnvProduction
			c.Auth.JWTSecret = DevelopmentSecret
		}, wantErr: true},
		{name: "unknown gate mode", mutate: func(c *Config) { c.Auth.GateMode = "maybe" }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.Catalog.PageSize = 0 }, wantErr: true},
		{name: "unknown env", mutate: func(c *Config) { c.App.Env = "staging" }, wantErr: true},
		{name: "unknown gin mode", mutate: func(c *Config) { c.Server.Mode = "verbose" }, wantErr: true},
		{name: "zero body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				App:     AppConfig{Env: EnvDevelopment},
				Server:  ServerConfig{Mode: "release", RequestTimeout: time.Second, MaxBodyBytes: 1024},
				Auth:    AuthConfig{JWTSecret: "s", TokenTTL: time.Hour, GateMode: GateModeVerify},
				Catalog: CatalogConfig{PageSize: 8},
			}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
