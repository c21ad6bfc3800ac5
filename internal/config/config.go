// Package config provides configuration management for besessen.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (BESESSEN_ prefix)
//  3. Config file (.besessen.yaml)
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Initial build policies.
const (
	// InitialBuildFresh sweeps the watch root only when the build directory
	// had to be created at startup.
	InitialBuildFresh = "fresh"

	// InitialBuildAlways sweeps the watch root on every startup.
	InitialBuildAlways = "always"
)

// Config represents the global configuration for besessen.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel" yaml:"log-level"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat" yaml:"log-format"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor" yaml:"no-color"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet" yaml:"quiet"`

	// NoNotify disables desktop notifications.
	NoNotify bool `mapstructure:"no-notify" json:"noNotify" yaml:"no-notify"`

	// InitialBuild selects when the startup sweep runs.
	// Valid values: fresh, always.
	InitialBuild string `mapstructure:"initial-build" json:"initialBuild" yaml:"initial-build"`

	// MoveWindow is how long a rename waits for its matching create before
	// it is treated as a deletion.
	MoveWindow time.Duration `mapstructure:"move-window" json:"moveWindow" yaml:"move-window"`

	// Ignore lists doublestar globs, relative to the watch root, of
	// directories that are never registered with the watcher.
	Ignore []string `mapstructure:"ignore" json:"ignore" yaml:"ignore"`

	TypeScript CompilerConfig `mapstructure:"typescript" json:"typescript" yaml:"typescript"`
	Less       CompilerConfig `mapstructure:"less" json:"less" yaml:"less"`
	Site       SiteConfig     `mapstructure:"site" json:"site" yaml:"site"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), never read from the config itself.
	ConfigFile string `mapstructure:"-" json:"-" yaml:"-"`
}

// CompilerConfig configures a per-file compiler with its own build directory.
type CompilerConfig struct {
	Enabled    bool     `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Command    string   `mapstructure:"command" json:"command" yaml:"command"`
	BuildDir   string   `mapstructure:"build-dir" json:"buildDir" yaml:"build-dir"`
	Extensions []string `mapstructure:"extensions" json:"extensions" yaml:"extensions"`
}

// SiteConfig configures the static-site generator.
type SiteConfig struct {
	Enabled    bool     `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Command    string   `mapstructure:"command" json:"command" yaml:"command"`
	ConfigFile string   `mapstructure:"config-file" json:"configFile" yaml:"config-file"`
	Extensions []string `mapstructure:"extensions" json:"extensions" yaml:"extensions"`
}

// Default compiler settings.
const (
	DefaultTypeScriptCommand  = "node_modules/typescript/bin/tsc"
	DefaultTypeScriptBuildDir = "jsbuild"
	DefaultLessCommand        = "node_modules/less/bin/lessc"
	DefaultLessBuildDir       = "cssbuild"
	DefaultSiteCommand        = "./sitegen"
	DefaultSiteConfigFile     = "site.yaml"
	DefaultMoveWindow         = 100 * time.Millisecond
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:     LogLevelInfo,
		LogFormat:    LogFormatText,
		InitialBuild: InitialBuildFresh,
		MoveWindow:   DefaultMoveWindow,
		TypeScript: CompilerConfig{
			Enabled:    true,
			Command:    DefaultTypeScriptCommand,
			BuildDir:   DefaultTypeScriptBuildDir,
			Extensions: []string{"ts"},
		},
		Less: CompilerConfig{
			Enabled:    true,
			Command:    DefaultLessCommand,
			BuildDir:   DefaultLessBuildDir,
			Extensions: []string{"less"},
		},
		Site: SiteConfig{
			Enabled:    false,
			Command:    DefaultSiteCommand,
			ConfigFile: DefaultSiteConfigFile,
			Extensions: []string{"jinja", "j2"},
		},
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.InitialBuild {
	case InitialBuildFresh, InitialBuildAlways:
		// valid
	default:
		return fmt.Errorf("invalid initial build policy %q: must be one of fresh, always", c.InitialBuild)
	}

	if c.MoveWindow < 0 {
		return fmt.Errorf("invalid move window %s: must not be negative", c.MoveWindow)
	}

	for _, pat := range c.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid ignore pattern %q", pat)
		}
	}

	if c.TypeScript.Enabled && c.TypeScript.Command == "" {
		return fmt.Errorf("typescript.command must not be empty")
	}

	if c.Less.Enabled && c.Less.Command == "" {
		return fmt.Errorf("less.command must not be empty")
	}

	if c.Site.Enabled && c.Site.Command == "" {
		return fmt.Errorf("site.command must not be empty")
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper. Every key is registered so
// that AutomaticEnv can resolve nested keys as well.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("no-color", d.NoColor)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("no-notify", d.NoNotify)
	v.SetDefault("initial-build", d.InitialBuild)
	v.SetDefault("move-window", d.MoveWindow)
	v.SetDefault("ignore", []string{})

	v.SetDefault("typescript.enabled", d.TypeScript.Enabled)
	v.SetDefault("typescript.command", d.TypeScript.Command)
	v.SetDefault("typescript.build-dir", d.TypeScript.BuildDir)
	v.SetDefault("typescript.extensions", d.TypeScript.Extensions)

	v.SetDefault("less.enabled", d.Less.Enabled)
	v.SetDefault("less.command", d.Less.Command)
	v.SetDefault("less.build-dir", d.Less.BuildDir)
	v.SetDefault("less.extensions", d.Less.Extensions)

	v.SetDefault("site.enabled", d.Site.Enabled)
	v.SetDefault("site.command", d.Site.Command)
	v.SetDefault("site.config-file", d.Site.ConfigFile)
	v.SetDefault("site.extensions", d.Site.Extensions)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("BESESSEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".besessen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "besessen"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
