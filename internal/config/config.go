package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/newthinker/trendkit/internal/core"
)

// EnvPrefix prefixes environment overrides, e.g. TRENDKIT_SERVER_PORT
const EnvPrefix = "TRENDKIT"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Indicators IndicatorsConfig `mapstructure:"indicators"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MaxBodyMB   int    `mapstructure:"max_body_mb"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// StorageConfig selects where inputs are read from and results are archived
type StorageConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// IndicatorsConfig holds the default parameters of the built-in studies
type IndicatorsConfig struct {
	PSAR       PSARConfig       `mapstructure:"psar"`
	Supertrend SupertrendConfig `mapstructure:"supertrend"`
	ATR        LengthConfig     `mapstructure:"atr"`
	RMA        LengthConfig     `mapstructure:"rma"`
}

type PSARConfig struct {
	Acceleration float64 `mapstructure:"acceleration"`
	Maximum      float64 `mapstructure:"maximum"`
}

type SupertrendConfig struct {
	Length     int     `mapstructure:"length"`
	Multiplier float64 `mapstructure:"multiplier"`
}

type LengthConfig struct {
	Length int `mapstructure:"length"`
}

// BatchConfig controls the concurrent batch runner
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.max_body_mb", d.Server.MaxBodyMB)
	v.SetDefault("server.timeout_secs", d.Server.TimeoutSecs)
	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("indicators.psar.acceleration", d.Indicators.PSAR.Acceleration)
	v.SetDefault("indicators.psar.maximum", d.Indicators.PSAR.Maximum)
	v.SetDefault("indicators.supertrend.length", d.Indicators.Supertrend.Length)
	v.SetDefault("indicators.supertrend.multiplier", d.Indicators.Supertrend.Multiplier)
	v.SetDefault("indicators.atr.length", d.Indicators.ATR.Length)
	v.SetDefault("indicators.rma.length", d.Indicators.RMA.Length)
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("log.level", d.Log.Level)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			MaxBodyMB:   16,
			TimeoutSecs: 30,
		},
		Storage: StorageConfig{
			Type: "localfs",
			Path: "./data",
		},
		Indicators: IndicatorsConfig{
			PSAR:       PSARConfig{Acceleration: 0.02, Maximum: 0.2},
			Supertrend: SupertrendConfig{Length: 10, Multiplier: 3.0},
			ATR:        LengthConfig{Length: 14},
			RMA:        LengthConfig{Length: 14},
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs error
	invalid := func(format string, args ...any) {
		errs = multierr.Append(errs, core.Errorf(core.ErrConfigInvalid, format, args...))
	}
	missing := func(format string, args ...any) {
		errs = multierr.Append(errs, core.Errorf(core.ErrConfigMissing, format, args...))
	}

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		invalid("port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyMB < 0 {
		invalid("max_body_mb cannot be negative, got %d", c.Server.MaxBodyMB)
	}

	// Storage validation
	switch c.Storage.Type {
	case "", "localfs":
		if c.Storage.Type == "localfs" && c.Storage.Path == "" {
			missing("storage path required when type is localfs")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			missing("s3 bucket required when storage type is s3")
		}
		if c.Storage.S3.Region == "" && c.Storage.S3.Endpoint == "" {
			missing("s3 region or endpoint required when storage type is s3")
		}
	default:
		invalid("unknown storage type %q", c.Storage.Type)
	}

	// Indicator defaults
	p := c.Indicators.PSAR
	if !(p.Acceleration > 0) || !(p.Maximum > 0) || p.Acceleration > p.Maximum {
		invalid("psar needs 0 < acceleration <= maximum, got %v / %v", p.Acceleration, p.Maximum)
	}
	if c.Indicators.Supertrend.Length <= 0 || !(c.Indicators.Supertrend.Multiplier > 0) {
		invalid("supertrend length and multiplier must be > 0, got %d / %v",
			c.Indicators.Supertrend.Length, c.Indicators.Supertrend.Multiplier)
	}
	if c.Indicators.ATR.Length <= 0 {
		invalid("atr length must be > 0, got %d", c.Indicators.ATR.Length)
	}
	if c.Indicators.RMA.Length <= 0 {
		invalid("rma length must be > 0, got %d", c.Indicators.RMA.Length)
	}

	if c.Batch.Workers < 1 {
		invalid("batch workers must be at least 1, got %d", c.Batch.Workers)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		invalid("metrics path must start with /, got %q", c.Metrics.Path)
	}

	return errs
}
