package cli

import (
	"github.com/spf13/cobra"

	"github.com/skytreader/besessen/internal/config"
)

func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for besessen. The watch path completes to
directories and --initial-build, --log-level and --log-format complete to
their accepted values.

  $ source <(besessen completion bash)
  $ besessen completion zsh > "${fpath[1]}/_besessen"
  $ besessen completion fish > ~/.config/fish/completions/besessen.fish`,
		// Completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			default:
				return cmd.Root().GenBashCompletionV2(w, true)
			}
		},
	}
}

// registerCompletions wires value completion for the root command's path
// argument and enumerated flags.
func registerCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}

	_ = cmd.RegisterFlagCompletionFunc("initial-build",
		fixed(config.InitialBuildFresh, config.InitialBuildAlways))
	_ = cmd.RegisterFlagCompletionFunc("log-level",
		fixed(config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError))
	_ = cmd.RegisterFlagCompletionFunc("log-format",
		fixed(config.LogFormatText, config.LogFormatJSON))
}
