package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_MODE", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, AuthModeFirebase, cfg.Auth.Mode)
	assert.Equal(t, "OSM", cfg.Map.DefaultBasemap)
	assert.True(t, cfg.Map.DemoFallback)
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, time.Second, cfg.Geocode.Interval)
	assert.Equal(t, 24*time.Hour, cfg.Geocode.CacheTTL)
	assert.Contains(t, cfg.Geocode.CountryCodes, "bj")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_MODE", "JWT")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MAP_CACHE_TTL", "30s")
	t.Setenv("MAP_DEMO_FALLBACK", "false")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, AuthModeJWT, cfg.Auth.Mode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Map.DemoFallback)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost"},
			Auth:     AuthConfig{Mode: AuthModeFirebase},
			App:      AppConfig{Environment: "development"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		c := base()
		c.Server.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("jwt without secret", func(t *testing.T) {
		c := base()
		c.Auth.Mode = AuthModeJWT
		assert.Error(t, c.Validate())
	})

	t.Run("firebase in production without credentials", func(t *testing.T) {
		c := base()
		c.App.Environment = "production"
		assert.Error(t, c.Validate())

		c.Auth.FirebaseCredsJSON = `{"type":"service_account"}`
		assert.NoError(t, c.Validate())
	})

	t.Run("geocoder faster than the public usage policy", func(t *testing.T) {
		c := base()
		c.Geocode = GeocodeConfig{BaseURL: "https://nominatim.openstreetmap.org", Interval: 200 * time.Millisecond}
		assert.Error(t, c.Validate())

		c.Geocode.BaseURL = "http://nominatim.internal:8080"
		assert.NoError(t, c.Validate(), "self-hosted servers set their own rate")
	})

	t.Run("unknown auth mode", func(t *testing.T) {
		c := base()
		c.Auth.Mode = "saml"
		assert.Error(t, c.Validate())
	})
}
