package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Environment: "test",
		Server:      ServerConfig{Port: 8000, ReadTimeout: "10s", WriteTimeout: "30s"},
		Redis:       RedisConfig{RunReportTTL: "1h"},
		Prediction:  PredictionConfig{DefaultSeason: 2025, MinWorkers: 1, MaxWorkers: 4},
		Telemetry:   TelemetryConfig{Exporter: "stdout"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "fantasyedge", cfg.Database.DBName)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "https://site.api.espn.com/apis/site/v2/sports/football/nfl", cfg.ESPN.BaseURL)
	assert.Equal(t, 30, cfg.ESPN.Timeout)
	assert.Equal(t, 2025, cfg.Prediction.DefaultSeason)
	assert.Equal(t, 1, cfg.Prediction.MinWorkers)
	assert.Equal(t, 8, cfg.Prediction.MaxWorkers)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "stdout", cfg.Telemetry.Exporter)
	assert.Empty(t, cfg.Security.AdminAPIKey)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "PRODUCTION")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/fe")
	t.Setenv("PREDICTION_DEFAULT_SEASON", "2026")
	t.Setenv("ADMIN_API_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/fe", cfg.Database.DatabaseURL)
	assert.Equal(t, 2026, cfg.Prediction.DefaultSeason)
	assert.Equal(t, "s3cret", cfg.Security.AdminAPIKey)
}

func TestLoad_InvalidWorkerBounds(t *testing.T) {
	t.Setenv("PREDICTION_MIN_WORKERS", "6")
	t.Setenv("PREDICTION_MAX_WORKERS", "2")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad read timeout", func(c *Config) { c.Server.ReadTimeout = "soon" }, true},
		{"bad ttl", func(c *Config) { c.Redis.RunReportTTL = "1 week" }, true},
		{"season too early", func(c *Config) { c.Prediction.DefaultSeason = 1800 }, true},
		{"zero min workers", func(c *Config) { c.Prediction.MinWorkers = 0 }, true},
		{"unknown exporter", func(c *Config) { c.Telemetry.Exporter = "zipkin" }, true},
		{"otlp exporter", func(c *Config) { c.Telemetry.Exporter = "otlp" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_ConnString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "fantasyedge",
		SSLMode:  "disable",
		MaxConns: 10,
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=fantasyedge sslmode=disable pool_max_conns=10",
		cfg.ConnString())

	cfg.DatabaseURL = "postgres://u:p@db/fe"
	assert.Equal(t, "postgres://u:p@db/fe", cfg.ConnString())
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, Duration("5s", time.Minute))
	assert.Equal(t, time.Minute, Duration("", time.Minute))
	assert.Equal(t, time.Minute, Duration("nope", time.Minute))
}
