package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// cliEnvPrefix prefixes the CLI settings. Plain JITCSS_ variables belong to
// the engine; see jitcss.LoadEnv.
const cliEnvPrefix = "JITCSS_CLI_"

var k = koanf.New(".")

// buildConfig holds the settings of one build run.
type buildConfig struct {
	Inputs         []string
	Output         string
	TailwindConfig string
	Watch          bool
	Report         string
	Verbose        bool
	Quiet          bool
	Color          bool
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".jitcss.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Flags that were not set only fill keys nothing else provided.
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(cliEnvPrefix, ".", func(s string) string {
		// JITCSS_CLI_BUILD_OUTPUT -> build.output
		// JITCSS_CLI_QUIET -> quiet
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, cliEnvPrefix)),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildBuildConfig constructs the build settings from koanf state.
func buildBuildConfig() buildConfig {
	config := buildConfig{
		Output:         getStringWithFallback("output", "build.output", ""),
		TailwindConfig: getStringWithFallback("tailwind-config", "tailwind-config", ""),
		Report:         getStringWithFallback("report", "build.report", "text"),
		Verbose:        getBoolWithFallback("verbose", "verbose", false),
		Quiet:          getBoolWithFallback("quiet", "quiet", false),
		Color:          getBoolWithFallback("color", "color", false),
	}

	// An unset --watch flag is loaded as false, so either source may enable it.
	config.Watch = k.Bool("watch") || k.Bool("build.watch")

	if inputs := k.Strings("input"); len(inputs) > 0 {
		config.Inputs = inputs
	} else if inputs := k.Strings("build.input"); len(inputs) > 0 {
		config.Inputs = inputs
	} else {
		config.Inputs = []string{"src/main.css"}
	}

	return config
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}
