// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Copper CopperConfig `yaml:"copper" mapstructure:"copper"`
	Plan   PlanConfig   `yaml:"plan" mapstructure:"plan"`
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// CopperConfig holds Copper CRM API credentials and the workspace's
// custom-field definition ids.
type CopperConfig struct {
	Token               string  `yaml:"token" mapstructure:"token"`
	Email               string  `yaml:"email" mapstructure:"email"`
	BaseURL             string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit           float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	AccountOrderIDField int64   `yaml:"account_order_id_field" mapstructure:"account_order_id_field"`
	AccountTypeField    int64   `yaml:"account_type_field" mapstructure:"account_type_field"`
	ActiveField         int64   `yaml:"active_field" mapstructure:"active_field"`
}

// PlanConfig holds the quarterly bonus plan's global floor and cap.
type PlanConfig struct {
	MinAttainment    float64 `yaml:"min_attainment" mapstructure:"min_attainment"`
	MaxAttainmentCap float64 `yaml:"max_attainment_cap" mapstructure:"max_attainment_cap"`
}

// IngestConfig configures the ingestion upload path.
type IngestConfig struct {
	MaxUploadMB int `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMMISSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("copper.base_url", "https://api.copper.com/developer_api/v1")
	v.SetDefault("copper.rate_limit", 1.0)
	v.SetDefault("plan.min_attainment", 0.75)
	v.SetDefault("plan.max_attainment_cap", 1.25)
	v.SetDefault("ingest.max_upload_mb", 32)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the fields a command depends on are populated.
// mode is the command group: "store" for anything touching the ledger,
// "sync" additionally when pulling live from Copper, "serve" for the API.
func (c *Config) Validate(mode string) error {
	var problems []string

	needStore := func() {
		if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	}

	switch mode {
	case "store":
		needStore()
	case "sync":
		needStore()
		if c.Copper.Token == "" {
			problems = append(problems, "copper.token is required")
		}
		if c.Copper.Email == "" {
			problems = append(problems, "copper.email is required")
		}
	case "serve":
		needStore()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Plan.MinAttainment < 0 || c.Plan.MinAttainment > 1 {
		problems = append(problems, "plan.min_attainment must be between 0 and 1")
	}
	if c.Plan.MaxAttainmentCap < 1 {
		problems = append(problems, "plan.max_attainment_cap must be >= 1")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
