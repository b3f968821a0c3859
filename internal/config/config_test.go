package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, Session{
		Secret: "dev_secret_key",
		Name:   "recommread_session",
		Store:  SessionStoreCookie,
		Secure: false,
		MaxAge: 604800,
	}, cfg.Session)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/recommread")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("SESSION_STORE", "gorm")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("SESSION_SECRET", "a-much-longer-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@db:5432/recommread", cfg.DatabaseURL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, SessionStoreGorm, cfg.Session.Store)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, "a-much-longer-secret", cfg.Session.Secret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string][2]string{
		"unknown session store": {"SESSION_STORE", "redis"},
		"short secret":          {"SESSION_SECRET", "short"},
		"bad log level":         {"LOG_LEVEL", "verbose"},
		"non numeric port":      {"PORT", "http"},
		"bcrypt cost too high":  {"BCRYPT_COST", "40"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}
