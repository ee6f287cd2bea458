package configs

import (
	"time"

	"github.com/jsphweid/ngramdex/features"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix  = "NGRAMDEX"
	ConfigName = "ngramdex"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	Verbose        bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat   string `mapstructure:"output_format" yaml:"output_format"`
	MaxConcurrency int    `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	// 0 means no limit
	MaxFiles int `mapstructure:"max_files" yaml:"max_files"`

	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// empty means the default feature set
	Features []features.FeatureConfig `mapstructure:"features" yaml:"features,omitempty"`
}

// ServerConfig contains settings for the extraction server
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" yaml:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	// request body limit in bytes
	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// LoadConfig fills in defaults, decodes and validates the configuration
// held by v
func LoadConfig(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfig rejects settings that cannot work and clamps feature
// thresholds into [0, 1]
func ValidateConfig(config *Config) error {
	switch config.OutputFormat {
	case "json", "yaml", "table":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown output format %q", config.OutputFormat)
	}
	if config.MaxConcurrency < 1 {
		return errors.Wrap(ErrInvalidConfig, "max concurrency must be positive")
	}
	if config.Server.ReadHeaderTimeout <= 0 {
		return errors.Wrap(ErrInvalidConfig, "server read header timeout must be positive")
	}
	if config.MaxFiles < 0 {
		return errors.Wrap(ErrInvalidConfig, "max files cannot be negative")
	}

	for i := range config.Features {
		f := &config.Features[i]
		f.Threshold = clamp(f.Threshold)
		f.Filter = clamp(f.Filter)
		if f.Filter >= 1 {
			return errors.Wrapf(ErrInvalidConfig, "feature %q: filter must be below 1", f.Name)
		}
	}
	return nil
}

func clamp(f float64) float64 {
	return max(0, min(f, 1))
}

// EffectiveLogLevel is LogLevel, lowered to debug when Verbose is set
func (c *Config) EffectiveLogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.LogLevel
}

// Calculators builds the configured feature calculators
func (c *Config) Calculators() ([]features.Calculator, error) {
	return features.FromConfig(c.Features)
}

// YAML renders the resolved configuration
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
