package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultManufacturers is the ordered list of identifiers fetched when none
// are configured.
var DefaultManufacturers = []string{
	"huawei", "xiaomi", "oneplus", "samsung", "meizu",
	"asus", "wiko", "lenovo", "oppo", "vivo",
	"realme", "blackview", "tecno", "sony", "unihertz",
	"motorola", "nokia", "htc", "google", "aosp",
}

// Config holds the full application configuration.
type Config struct {
	Fetch        FetchConfig        `yaml:"fetch" mapstructure:"fetch"`
	Publish      PublishConfig      `yaml:"publish" mapstructure:"publish"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Instructions InstructionsConfig `yaml:"instructions" mapstructure:"instructions"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// FetchConfig configures the dontkillmyapp API fetch.
type FetchConfig struct {
	BaseURL       string   `yaml:"base_url" mapstructure:"base_url"`
	Manufacturers []string `yaml:"manufacturers" mapstructure:"manufacturers"`
	OutputPath    string   `yaml:"output_path" mapstructure:"output_path"`
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`

	// TimeoutOverride is set from the --timeout flag and wins over TimeoutSecs.
	TimeoutOverride time.Duration `yaml:"-" mapstructure:"-"`
}

// Timeout returns the per-request timeout.
func (c FetchConfig) Timeout() time.Duration {
	if c.TimeoutOverride > 0 {
		return c.TimeoutOverride
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// PublishConfig configures where the dataset is copied for the library build.
type PublishConfig struct {
	LibDir string `yaml:"lib_dir" mapstructure:"lib_dir"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// InstructionsConfig configures instruction rendering.
type InstructionsConfig struct {
	AppName string `yaml:"app_name" mapstructure:"app_name"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml, environment, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DKMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("fetch.base_url", "https://dontkillmyapp.com/api/v2/")
	v.SetDefault("fetch.manufacturers", DefaultManufacturers)
	v.SetDefault("fetch.output_path", "data/dontkillmyapp_data.json")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("publish.lib_dir", "lib/data")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "dontkillmyapp.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("instructions.app_name", "your app")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "fetch":
		if c.Fetch.BaseURL == "" {
			errs = append(errs, "fetch.base_url is required")
		} else if u, err := url.Parse(c.Fetch.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, "fetch.base_url must be an absolute URL")
		}
		if len(c.Fetch.Manufacturers) == 0 {
			errs = append(errs, "fetch.manufacturers is required")
		}
		if c.Fetch.OutputPath == "" {
			errs = append(errs, "fetch.output_path is required")
		}
		if c.Fetch.TimeoutOverride <= 0 && c.Fetch.TimeoutSecs <= 0 {
			errs = append(errs, "fetch.timeout_secs must be > 0")
		}
	case "publish":
		if c.Fetch.OutputPath == "" {
			errs = append(errs, "fetch.output_path is required")
		}
		if c.Publish.LibDir == "" {
			errs = append(errs, "publish.lib_dir is required")
		}
	case "export":
		if c.Store.Driver == "" {
			errs = append(errs, "store.driver is required")
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "lookup":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger configures the global zap logger based on config.
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
