package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skytreader/besessen/internal/config"
)

// effectiveConfig mirrors config.Config for display. The move window is
// rendered as a duration string rather than nanoseconds.
type effectiveConfig struct {
	LogLevel     string                `yaml:"log-level"`
	LogFormat    string                `yaml:"log-format"`
	NoColor      bool                  `yaml:"no-color"`
	Quiet        bool                  `yaml:"quiet"`
	NoNotify     bool                  `yaml:"no-notify"`
	InitialBuild string                `yaml:"initial-build"`
	MoveWindow   string                `yaml:"move-window"`
	Ignore       []string              `yaml:"ignore"`
	TypeScript   config.CompilerConfig `yaml:"typescript"`
	Less         config.CompilerConfig `yaml:"less"`
	Site         config.SiteConfig     `yaml:"site"`
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration besessen would run with, after merging defaults,
the config file, BESESSEN_* environment variables and flags. The output is
valid YAML and can be saved as .besessen.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())

			out, err := renderConfig(cfg)
			if err != nil {
				return err
			}

			if cfg.ConfigFile != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", cfg.ConfigFile)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}

func renderConfig(cfg *config.Config) ([]byte, error) {
	ignore := cfg.Ignore
	if ignore == nil {
		ignore = []string{}
	}

	out, err := yaml.Marshal(effectiveConfig{
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
		NoColor:      cfg.NoColor,
		Quiet:        cfg.Quiet,
		NoNotify:     cfg.NoNotify,
		InitialBuild: cfg.InitialBuild,
		MoveWindow:   cfg.MoveWindow.String(),
		Ignore:       ignore,
		TypeScript:   cfg.TypeScript,
		Less:         cfg.Less,
		Site:         cfg.Site,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	return out, nil
}
