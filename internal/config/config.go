// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"carga-platform/pkg/validation"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Identity modes.
const (
	IdentityRemote = "remote"
	IdentityJWT    = "jwt"
)

// Config holds every setting the process reads at startup. Keys map to the
// upper-cased environment variable of the same name.
type Config struct {
	Port     int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	StoreDriver string `mapstructure:"store_driver" validate:"oneof=postgres mongo memory"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=StoreDriver postgres"`
	MongoURL    string `mapstructure:"mongo_url" validate:"required_if=StoreDriver mongo"`
	DBName      string `mapstructure:"db_name" validate:"required"`
	SeedDemo    bool   `mapstructure:"seed_demo_data"`

	IdentityMode       string        `mapstructure:"identity_mode" validate:"oneof=remote jwt"`
	SupabaseURL        string        `mapstructure:"supabase_url" validate:"required_if=IdentityMode remote"`
	SupabaseServiceKey string        `mapstructure:"supabase_service_role_key" validate:"required_if=IdentityMode remote"`
	SupabaseJWTSecret  string        `mapstructure:"supabase_jwt_secret" validate:"required_if=IdentityMode jwt"`
	IdentityTimeout    time.Duration `mapstructure:"identity_timeout" validate:"gt=0"`

	RedisAddr    string `mapstructure:"redis_addr"`
	KafkaBrokers string `mapstructure:"kafka_brokers"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

var defaults = map[string]any{
	"port":                      8001,
	"log_level":                 "info",
	"store_driver":              DriverMongo,
	"database_url":              "",
	"mongo_url":                 "mongodb://localhost:27017",
	"db_name":                   "carga_platform",
	"seed_demo_data":            true,
	"identity_mode":             IdentityRemote,
	"supabase_url":              "",
	"supabase_service_role_key": "",
	"supabase_jwt_secret":       "",
	"identity_timeout":          "10s",
	"redis_addr":                "",
	"kafka_brokers":             "",
	"shutdown_timeout":          "10s",
}

// Load reads an optional .env file, then the environment, and validates the
// result. A missing identity-provider setting is an error here so the
// process never starts half configured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	cfg.IdentityMode = strings.ToLower(cfg.IdentityMode)

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Brokers splits KAFKA_BROKERS; nil means Kafka is disabled.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
