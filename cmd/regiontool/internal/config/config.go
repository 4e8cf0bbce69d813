// Package config loads regiontool's settings from a config file (and
// environment), the way discopanel loads its server config. Command-line
// flags are not merged into the result.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds regiontool's settings: where to log, and the
// compression level new chunk writes use.
type Config struct {
	Logging          LoggingConfig `mapstructure:"logging" json:"logging"`
	CompressionLevel int           `mapstructure:"compression_level" json:"compression_level"`
}

// LoggingConfig controls the rotating log file regiontool writes
// alongside its stdout output.
type LoggingConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled"`
	FilePath   string `mapstructure:"file_path" json:"file_path"`
	MaxSize    int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" json:"max_age"`
	Compress   bool   `mapstructure:"compress" json:"compress"`
}

// Load reads config.yaml from configPath (or the working directory).
// REGIONTOOL_-prefixed environment variables override values from the
// file, and defaults fill in anything set by neither.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("REGIONTOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.file_path", "./regiontool.log")
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
	v.SetDefault("compression_level", 6)
}
