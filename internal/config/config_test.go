package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configPath(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(root, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Paramount Land", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
	assert.Equal(t, EngineSQLite, cfg.DB.Engine)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, "auth_token", cfg.Auth.CookieName)
	assert.Equal(t, 5*time.Minute, cfg.Webserver.CacheTTL)
	assert.Equal(t, "access.log", cfg.Log.File.Access.Filename)

	// dev mode without a secret falls back to the development secret
	assert.Equal(t, DevJWTSecret, cfg.Auth.JWTSecret)
}

func TestReadConfigEnvBindings(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "file:./other.db")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")

	cfg, err := ReadConfig(configPath(t))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "file:./other.db", cfg.DB.URL)
	assert.Equal(t, "demo", cfg.Cloudinary.CloudName)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(JSONEnv, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(configPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigBrokenJSONOverride(t *testing.T) {
	t.Setenv(JSONEnv, `{"Title":`)

	_, err := ReadConfig(configPath(t))
	require.Error(t, err)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Auth:      Auth{JWTSecret: "secret"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Webserver.Port = 0 }, wantErr: ErrWebServerPortCanNotBeZero},
		{name: "missing URL", mutate: func(c *Config) { c.Webserver.URL = "" }, wantErr: ErrEmptyURL},
		{name: "unknown engine", mutate: func(c *Config) { c.DB.Engine = "oracle" }, wantErr: ErrUnknownEngine},
		{name: "missing secret in production", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: ErrEmptyJWTSecret},
		{
			name: "missing secret in dev mode",
			mutate: func(c *Config) {
				c.Auth.JWTSecret = ""
				c.DevMode = true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, EngineSQLite, cfg.DB.Engine)
			assert.Equal(t, defaultShutDownTime, cfg.Webserver.ShutDownTime)
			assert.NotEmpty(t, cfg.Auth.JWTSecret)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:     "Test",
		DevMode:   true,
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
	}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)
	assert.True(t, strings.Contains(tomlStr, "Test"))

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)
	assert.Contains(t, jsonStr, `"Title": "Test"`)
}

func TestRedact(t *testing.T) {
	c := Config{
		DB:         DB{Password: "db-pass", URL: "postgres://u:p@h/db"},
		Auth:       Auth{JWTSecret: "jwt", AdminEmail: "admin@example.com"},
		Cloudinary: Cloudinary{CloudName: "demo", APISecret: "cloud"},
	}

	r := Redact(c)

	assert.Equal(t, Masked, r.DB.Password)
	assert.Equal(t, Masked, r.DB.URL)
	assert.Equal(t, Masked, r.Auth.JWTSecret)
	assert.Equal(t, Masked, r.Cloudinary.APISecret)
	assert.Empty(t, r.Auth.AdminPassword)
	assert.Equal(t, "admin@example.com", r.Auth.AdminEmail)
	assert.Equal(t, "demo", r.Cloudinary.CloudName)

	// the original is untouched
	assert.Equal(t, "jwt", c.Auth.JWTSecret)
}
