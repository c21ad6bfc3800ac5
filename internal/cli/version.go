package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skytreader/besessen/internal/config"
	"github.com/skytreader/besessen/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and the compilers in use",
		Long: `Display the version, git commit, build date, Go version and platform,
followed by each configured compiler command and where it resolves.

With --check the command fails when an enabled compiler cannot be found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo(configuredTools(config.FromContext(cmd.Context()))...)

			if jsonOutput {
				j, err := info.JSON()
				if err != nil {
					return err
				}

				if _, err := fmt.Fprintln(cmd.OutOrStdout(), j); err != nil {
					return err
				}
			} else if _, err := fmt.Fprintln(cmd.OutOrStdout(), info.String()); err != nil {
				return err
			}

			if missing := info.Missing(); check && len(missing) > 0 {
				return fmt.Errorf("%s: %s not found", missing[0].Name, missing[0].Command)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	cmd.Flags().BoolVar(&check, "check", false, "fail if an enabled compiler cannot be found")

	return cmd
}

// configuredTools lists the compiler commands in the same order the watcher
// registers them.
func configuredTools(cfg *config.Config) []version.Tool {
	return []version.Tool{
		version.LookupTool("typescript", cfg.TypeScript.Command, cfg.TypeScript.Enabled),
		version.LookupTool("less", cfg.Less.Command, cfg.Less.Enabled),
		version.LookupTool("site", cfg.Site.Command, cfg.Site.Enabled),
	}
}
