package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/pkg/validation"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for k := range defaults {
		t.Setenv(strings.ToUpper(k), "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"SUPABASE_URL":              "https://project.supabase.co",
		"SUPABASE_SERVICE_ROLE_KEY": "service-key",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, ":8001", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURL)
	assert.Equal(t, "carga_platform", cfg.DBName)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, IdentityRemote, cfg.IdentityMode)
	assert.Equal(t, 10*time.Second, cfg.IdentityTimeout)
	assert.Nil(t, cfg.Brokers())
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":                "9000",
		"LOG_LEVEL":           "DEBUG",
		"STORE_DRIVER":        "postgres",
		"DATABASE_URL":        "postgres://u:p@localhost:5432/carga",
		"IDENTITY_MODE":       "jwt",
		"SUPABASE_JWT_SECRET": "secret",
		"IDENTITY_TIMEOUT":    "3s",
		"KAFKA_BROKERS":       "k1:9092, k2:9092,",
		"REDIS_ADDR":          "localhost:6379",
		"SEED_DEMO_DATA":      "false",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, IdentityJWT, cfg.IdentityMode)
	assert.Equal(t, 3*time.Second, cfg.IdentityTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.False(t, cfg.SeedDemo)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantField string
	}{
		{name: "remote without provider url", env: map[string]string{"SUPABASE_SERVICE_ROLE_KEY": "k"}, wantField: "supabase_url"},
		{name: "remote without service key", env: map[string]string{"SUPABASE_URL": "https://p.supabase.co"}, wantField: "supabase_service_role_key"},
		{name: "jwt without secret", env: map[string]string{"IDENTITY_MODE": "jwt"}, wantField: "supabase_jwt_secret"},
		{name: "postgres without dsn", env: map[string]string{
			"STORE_DRIVER": "postgres", "SUPABASE_URL": "https://p.supabase.co", "SUPABASE_SERVICE_ROLE_KEY": "k",
		}, wantField: "database_url"},
		{name: "unknown driver", env: map[string]string{
			"STORE_DRIVER": "sqlite", "SUPABASE_URL": "https://p.supabase.co", "SUPABASE_SERVICE_ROLE_KEY": "k",
		}, wantField: "store_driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)

			_, err := Load()
			require.Error(t, err)
			assert.True(t, validation.Is(err))
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}
