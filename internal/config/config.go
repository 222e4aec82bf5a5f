package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	ESPN        ESPNConfig       `mapstructure:"espn"`
	Prediction  PredictionConfig `mapstructure:"prediction"`
	Telemetry   TelemetryConfig  `mapstructure:"telemetry"`
	Security    SecurityConfig   `mapstructure:"security"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    string   `mapstructure:"read_timeout"`
	WriteTimeout   string   `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	DatabaseURL     string `mapstructure:"database_url"`
	MaxConns        int    `mapstructure:"max_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// RunReportTTL bounds how long the last batch report is kept.
	RunReportTTL string `mapstructure:"run_report_ttl"`
}

// ESPNConfig configures the public roster source used by ingestion.
type ESPNConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

type PredictionConfig struct {
	DefaultSeason int `mapstructure:"default_season"`
	MinWorkers    int `mapstructure:"min_workers"`
	MaxWorkers    int `mapstructure:"max_workers"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

type SecurityConfig struct {
	// AdminAPIKey guards mutating endpoints. Empty disables the guard.
	AdminAPIKey string `mapstructure:"admin_api_key" json:"-" yaml:"-"`
}

// ConnString returns the pgx connection string, preferring DatabaseURL.
func (c DatabaseConfig) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
	if c.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", c.MaxConns)
	}
	return dsn
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("database.database_url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL environment variable: %w", err)
	}
	if err := v.BindEnv("security.admin_api_key", "ADMIN_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind ADMIN_API_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	for _, d := range []string{c.Server.ReadTimeout, c.Server.WriteTimeout, c.Redis.RunReportTTL} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid duration %q: %w", d, err)
		}
	}
	if c.Prediction.DefaultSeason < 1920 || c.Prediction.DefaultSeason > 2100 {
		return fmt.Errorf("prediction default season out of range: %d", c.Prediction.DefaultSeason)
	}
	if c.Prediction.MinWorkers < 1 || c.Prediction.MaxWorkers < c.Prediction.MinWorkers {
		return fmt.Errorf("prediction workers must satisfy 1 <= min (%d) <= max (%d)",
			c.Prediction.MinWorkers, c.Prediction.MaxWorkers)
	}
	switch c.Telemetry.Exporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("unknown telemetry exporter %q", c.Telemetry.Exporter)
	}
	return nil
}

// Duration parses s, returning fallback when s is empty or malformed.
func Duration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func setDefaults(v *viper.Viper) {
	// Environment
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	// Server
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "120s")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "fantasyedge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.database_url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "300s")
	v.SetDefault("database.auto_migrate", true)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.run_report_ttl", "168h")

	// ESPN roster source
	v.SetDefault("espn.base_url", "https://site.api.espn.com/apis/site/v2/sports/football/nfl")
	v.SetDefault("espn.timeout", 30)

	// Prediction
	v.SetDefault("prediction.default_season", 2025)
	v.SetDefault("prediction.min_workers", 1)
	v.SetDefault("prediction.max_workers", 8)

	// Telemetry
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "stdout")
	v.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "fantasyedge-api")
	v.SetDefault("telemetry.sample_rate", 1.0)

	// Security
	v.SetDefault("security.admin_api_key", "")
}
