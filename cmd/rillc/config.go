package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys; each may be overridden by the matching flag.
	cfgKeyParallel = "parallel"
	cfgKeyWorkers  = "workers"
	cfgKeyLogDB    = "log_db"

	defaultWorkers = 4
)

// loadConfig reads config.yaml from the resolved config directory using
// Viper. A missing directory or config file is not an error; flag defaults
// apply.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyParallel, false)
	v.SetDefault(cfgKeyWorkers, defaultWorkers)
	v.SetDefault(cfgKeyLogDB, "")
	v.SetEnvPrefix("RILLC")
	v.AutomaticEnv()

	dir := resolveConfigDir()
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return nil, fmt.Errorf("stat config dir: %w", err)
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() string {
	if flags.configDir != "" {
		return flags.configDir
	}
	if v := os.Getenv("RILLC_CONFIG_DIR"); v != "" {
		return v
	}
	return ".rillc"
}
