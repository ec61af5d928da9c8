package app

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds everything the security core needs to run. Values come from
// flags, murmur.yaml in the home directory, or MURMUR_* environment
// variables, in that order of precedence.
type Config struct {
	// Home is the state directory: keyring files, message database, config.
	Home string `mapstructure:"home"`

	// DirectoryURL is the key directory base URL. Empty selects the
	// in-process directory (single-machine setups and tests).
	DirectoryURL string `mapstructure:"directory_url"`

	// RelayURL is the message relay base URL. Empty selects the in-process
	// transport.
	RelayURL string `mapstructure:"relay_url"`

	// DSN overrides the message database location. Empty derives it from
	// Home.
	DSN string `mapstructure:"dsn"`

	LogLevel string `mapstructure:"log_level"`
}

// DatabaseDSN resolves the message database DSN.
func (c Config) DatabaseDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "file:" + filepath.Join(c.Home, "messages.db")
}

// LoadConfig reads configuration rooted at home. A missing config file is
// fine; defaults and the environment fill the gaps.
func LoadConfig(home string) (Config, error) {
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		home = filepath.Join(dir, ".murmur")
	}

	v := viper.New()
	v.SetDefault("home", home)
	v.SetDefault("log_level", "info")

	v.SetConfigName("murmur")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	v.SetEnvPrefix("MURMUR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Home == "" {
		cfg.Home = home
	}
	return cfg, nil
}
