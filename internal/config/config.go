package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"zoostat/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. ZOOSTAT_SERVER_PORT
const EnvPrefix = "ZOOSTAT"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	GinMode         string        `mapstructure:"gin_mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`

	// AdminPort serves metrics and pprof on a second listener; empty disables it
	AdminPort string `mapstructure:"admin_port"`
}

// DatabaseConfig selects report storage. An empty driver keeps reports in memory.
type DatabaseConfig struct {
	Driver        string `mapstructure:"driver"`
	URL           string `mapstructure:"url"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

// AnalysisConfig bounds the work done per request
type AnalysisConfig struct {
	MaxRows           int     `mapstructure:"max_rows"`
	Workers           int     `mapstructure:"workers"`
	SignificanceLevel float64 `mapstructure:"significance_level"`
	MinDataPoints     int     `mapstructure:"min_data_points"`
	MaxCorrelations   int     `mapstructure:"max_correlations"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.admin_port", "")

	v.SetDefault("database.driver", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.run_migrations", true)

	v.SetDefault("analysis.max_rows", 100000)
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.significance_level", 0.05)
	v.SetDefault("analysis.min_data_points", 10)
	v.SetDefault("analysis.max_correlations", 50)

	v.SetDefault("log.level", "INFO")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads configuration from defaults, an optional YAML file, a .env file and the
// environment. Precedence: environment > config file > defaults. The unprefixed
// DATABASE_URL, PORT, GIN_MODE and LOG_LEVEL variables are honoured as well.
func Load(cfgFile string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for key, legacy := range map[string]string{
		"database.url":    "DATABASE_URL",
		"server.port":     "PORT",
		"server.gin_mode": "GIN_MODE",
		"log.level":       "LOG_LEVEL",
	} {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, errors.Wrap(err, "failed to bind environment")
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", cfgFile)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to decode configuration")
	}
	if c.Database.Driver == "" && c.Database.URL != "" {
		c.Database.Driver = "postgres"
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

// Validate checks ranges and cross-field requirements
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if c.Server.AdminPort != "" && c.Server.AdminPort == c.Server.Port {
		return errors.ConfigInvalid("server.admin_port must differ from server.port")
	}
	switch c.Database.Driver {
	case "":
	case "postgres", "sqlite3":
		if c.Database.URL == "" {
			return errors.ConfigInvalid(fmt.Sprintf("database url is required for driver %s", c.Database.Driver))
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Analysis.MaxRows < 0 {
		return errors.ConfigInvalid("analysis.max_rows must not be negative")
	}
	if c.Analysis.Workers < 1 {
		return errors.ConfigInvalid("analysis.workers must be at least 1")
	}
	if c.Analysis.SignificanceLevel <= 0 || c.Analysis.SignificanceLevel >= 1 {
		return errors.ConfigInvalid("analysis.significance_level must be between 0 and 1")
	}
	if c.Analysis.MinDataPoints < 3 {
		return errors.ConfigInvalid("analysis.min_data_points must be at least 3")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("server.max_upload_mb must be positive")
	}
	switch strings.ToUpper(c.Log.Level) {
	case "ERROR", "WARN", "INFO", "DEBUG":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	return nil
}
