package config

import (
	"strings"

	"github.com/joho/godotenv"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/spf13/viper"
)

// Configuration is the top-level application configuration, loaded from
// config files and SECURECOMMAND_* environment variables.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type DeploymentMode string

const (
	DeploymentModeAPI   DeploymentMode = "api"
	DeploymentModeLocal DeploymentMode = "local"
)

type DeploymentConfig struct {
	Mode DeploymentMode `mapstructure:"mode" default:"api"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" default:":8080"`
}

type PostgresConfig struct {
	Host                  string `mapstructure:"host" default:"localhost"`
	Port                  int    `mapstructure:"port" default:"5432"`
	User                  string `mapstructure:"user" default:"securecommand"`
	Password              string `mapstructure:"password"`
	DBName                string `mapstructure:"dbname" default:"securecommand"`
	SSLMode               string `mapstructure:"sslmode" default:"disable"`
	MaxOpenConns          int    `mapstructure:"max_open_conns" default:"10"`
	MinConns              int    `mapstructure:"min_conns" default:"2"`
	ConnMaxLifetimeMinute int    `mapstructure:"conn_max_lifetime_minute" default:"60"`
}

type AuthConfig struct {
	Provider string             `mapstructure:"provider" default:"securecommand"`
	Secret   string             `mapstructure:"secret"`
	Supabase SupabaseAuthConfig `mapstructure:"supabase"`
}

type SupabaseAuthConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ServiceKey string `mapstructure:"service_key"`
	JWTSecret  string `mapstructure:"jwt_secret"`
}

type CacheConfig struct {
	Type string `mapstructure:"type" default:"inmemory"`
}

type LoggingConfig struct {
	Level          string `mapstructure:"level" default:"info"`
	FluentdEnabled bool   `mapstructure:"fluentd_enabled" default:"false"`
	FluentdHost    string `mapstructure:"fluentd_host"`
	FluentdPort    int    `mapstructure:"fluentd_port"`
}

// NewConfig loads the configuration from ./config/config.yaml (optional), a
// local .env file (optional) and the environment.
func NewConfig() (*Configuration, error) {
	// Load .env if present; ignore absence.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SECURECOMMAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrSystem)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "api")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "securecommand")
	v.SetDefault("postgres.dbname", "securecommand")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.conn_max_lifetime_minute", 60)
	v.SetDefault("auth.provider", "securecommand")
	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.fluentd_enabled", false)
}

// GetDefaultConfig returns a configuration suitable for scripts and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: DeploymentModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Auth:       AuthConfig{Provider: "securecommand", Secret: "test-secret"},
		Cache:      CacheConfig{Type: "inmemory"},
		Logging:    LoggingConfig{Level: "debug"},
	}
}

// Validate checks the parts of the configuration the server cannot run without.
func (c *Configuration) Validate() error {
	if c.Auth.Provider == "supabase" {
		if c.Auth.Supabase.BaseURL == "" || c.Auth.Supabase.ServiceKey == "" {
			return ierr.NewError("supabase auth requires base_url and service_key").
				WithHint("Set SECURECOMMAND_AUTH_SUPABASE_BASE_URL and SECURECOMMAND_AUTH_SUPABASE_SERVICE_KEY").
				Mark(ierr.ErrValidation)
		}
	}
	if c.Auth.Provider == "securecommand" && c.Auth.Secret == "" {
		return ierr.NewError("auth secret is required").
			WithHint("Set SECURECOMMAND_AUTH_SECRET").
			Mark(ierr.ErrValidation)
	}
	return nil
}
