package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                     "2022",
		Env:                      "development",
		DBDriver:                 DriverPostgres,
		DBPassword:               "secure-password",
		DBSSLMode:                "disable",
		DBSchemaMode:             SchemaModeSQL,
		DBMaxOpenConns:           25,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 5,
		EventsBackend:            EventsNone,
		TracingSamplerRatio:      1,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Missing port", func(c *Config) { c.Port = "" }},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"Unknown schema mode", func(c *Config) { c.DBSchemaMode = "magic" }},
		{"Unknown events backend", func(c *Config) { c.EventsBackend = "kafka" }},
		{"Redis events without redis", func(c *Config) { c.EventsBackend = EventsRedis; c.RedisURL = "" }},
		{"Negative pool", func(c *Config) { c.DBMaxOpenConns = -1 }},
		{"Sampler out of range", func(c *Config) { c.TracingSamplerRatio = 1.5 }},
		{"SQLite in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.DBDriver = DriverSQLite
		}},
		{"Default password in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.DBPassword = defaultDBPassword
		}},
	}

	assert.NoError(t, validConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_DRIVER", "SQLite")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "2022", c.Port)
	assert.Equal(t, SchemaModeSQL, c.DBSchemaMode)
	assert.Equal(t, 25, c.DBMaxOpenConns)
	assert.Equal(t, EventsNone, c.EventsBackend)
	assert.Equal(t, "*", c.AllowedOrigins)
}

func TestLoadConfig_RejectsInvalidEnv(t *testing.T) {
	t.Setenv("EVENTS_BACKEND", "carrier-pigeon")

	_, err := LoadConfig()
	assert.Error(t, err)
}
