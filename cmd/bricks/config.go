// Config loading for the bricks CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jfexwana/lego-manager/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir      = "data_dir"
	cfgKeyResourceBase = "resource_base_url"
	cfgKeyHTTPTimeout  = "http_timeout_seconds"

	defaultHTTPTimeoutSecs = 600
)

// appConfig is the config.yaml contents after defaulting.
type appConfig struct {
	DataDir         string
	ResourceBaseURL string
	HTTPTimeoutSecs int
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Bricks CLI configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Base URL for catalogue dump downloads
# resource_base_url: https://cdn.rebrickable.com/media/downloads/

# HTTP timeout for downloads, in seconds
# http_timeout_seconds: 600
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. A missing config.yaml is not an error.
func loadConfig(configDir string) (appConfig, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return appConfig{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return appConfig{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyResourceBase, types.DefaultResourceBaseURL)
	v.SetDefault(cfgKeyHTTPTimeout, defaultHTTPTimeoutSecs)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return appConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	out := appConfig{
		DataDir:         v.GetString(cfgKeyDataDir),
		ResourceBaseURL: v.GetString(cfgKeyResourceBase),
		HTTPTimeoutSecs: v.GetInt(cfgKeyHTTPTimeout),
	}
	check := types.Config{
		DataDir:         out.DataDir,
		ResourceBaseURL: out.ResourceBaseURL,
		HTTPTimeoutSecs: out.HTTPTimeoutSecs,
	}
	if err := check.Validate(); err != nil {
		return appConfig{}, fmt.Errorf("config.yaml: %w", err)
	}
	return out, nil
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

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(struct {
				ConfigDir       string `json:"config_dir"`
				DataDir         string `json:"data_dir"`
				ResourceBaseURL string `json:"resource_base_url"`
				HTTPTimeoutSecs int    `json:"http_timeout_seconds"`
			}{configDir, dataDir, cfg.ResourceBaseURL, cfg.HTTPTimeoutSecs})
		}

		fmt.Printf("config dir:         %s\n", configDir)
		fmt.Printf("data dir:           %s\n", dataDir)
		fmt.Printf("resource base url:  %s\n", cfg.ResourceBaseURL)
		fmt.Printf("http timeout:       %ds\n", cfg.HTTPTimeoutSecs)
		return nil
	},
}
