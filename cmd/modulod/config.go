// Config loading for the modulod CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/modulo/internal/paths"
	"github.com/mesh-intelligence/modulo/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Keys recognized in config.yaml.
	cfgKeyDataDir   = "data_dir"
	cfgKeyHTTPAddr  = "http_addr"
	cfgKeyLogLevel  = "log_level"
	cfgKeyRetention = "recovery_retention_days"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Modulod configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Listen address for the shell-facing HTTP API
# http_addr: 127.0.0.1:7173

# Log level: debug, info, warn, error
# log_level: info

# Days before recovery snapshots are swept
# recovery_retention_days: 7
`

// runtimeConfig is the resolved configuration every subcommand runs
// against. Set by the root command's PersistentPreRunE.
var runtimeConfig types.Config

// loadRuntimeConfig resolves the config directory, reads config.yaml, and
// assembles the runtime configuration from flags, file values, and
// defaults, in that precedence order.
func loadRuntimeConfig() error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	runtimeConfig = types.Config{
		DataDir:               dataDir,
		HTTPAddr:              v.GetString(cfgKeyHTTPAddr),
		LogLevel:              v.GetString(cfgKeyLogLevel),
		RecoveryRetentionDays: v.GetInt(cfgKeyRetention),
	}.WithDefaults()

	if err := runtimeConfig.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// loadConfig reads config.yaml from the config directory using Viper. It
// creates the directory and a default config.yaml on first run; a missing
// file is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
