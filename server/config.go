package server

import (
	"github.com/spf13/viper"
)

type Config struct {
	Addr              string `mapstructure:"SERVER_ADDR"`
	DefaultMoveTimeMs int    `mapstructure:"DEFAULT_MOVETIME_MS"`
	MaxMoveTimeMs     int    `mapstructure:"MAX_MOVETIME_MS"`
	MaxDepth          int    `mapstructure:"MAX_DEPTH"`
}

func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		DefaultMoveTimeMs: 1000,
		MaxMoveTimeMs:     30000,
		MaxDepth:          20,
	}
}

// LoadConfig reads a config file (env-style key=value) over the defaults.
func LoadConfig(cfgPath string) (Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigFile(cfgPath)
	viper.SetDefault("SERVER_ADDR", cfg.Addr)
	viper.SetDefault("DEFAULT_MOVETIME_MS", cfg.DefaultMoveTimeMs)
	viper.SetDefault("MAX_MOVETIME_MS", cfg.MaxMoveTimeMs)
	viper.SetDefault("MAX_DEPTH", cfg.MaxDepth)

	if err := viper.ReadInConfig(); err != nil {
		return cfg, err
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
