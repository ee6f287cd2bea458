package configs

import (
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "json")
	}
	if !v.IsSet("max_concurrency") {
		v.Set("max_concurrency", runtime.NumCPU())
	}
	if !v.IsSet("max_files") {
		v.Set("max_files", 0)
	}

	if !v.IsSet("server.addr") {
		v.Set("server.addr", ":8080")
	}
	if !v.IsSet("server.allowed_origins") {
		v.Set("server.allowed_origins", []string{"*"})
	}
	if !v.IsSet("server.max_body_size") {
		v.Set("server.max_body_size", 8<<20)
	}
	if !v.IsSet("server.read_header_timeout") {
		v.Set("server.read_header_timeout", 5*time.Second)
	}
	if !v.IsSet("server.read_timeout") {
		v.Set("server.read_timeout", 30*time.Second)
	}
	if !v.IsSet("server.write_timeout") {
		v.Set("server.write_timeout", 60*time.Second)
	}
	if !v.IsSet("server.idle_timeout") {
		v.Set("server.idle_timeout", 120*time.Second)
	}
}

// GetDefaultConfig returns the configuration used when nothing is set
func GetDefaultConfig() *Config {
	v := viper.New()
	config, err := LoadConfig(v)
	if err != nil {
		// defaults always validate
		panic(err)
	}
	return config
}
