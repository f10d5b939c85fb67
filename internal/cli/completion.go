package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/thematic"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for statmap.

Besides subcommands and flag names, the scripts complete the values of
--method and --map-type, e.g. "statmap classify -m <TAB>".

Bash:
  $ source <(statmap completion bash)
  $ statmap completion bash > /etc/bash_completion.d/statmap

Zsh:
  $ statmap completion zsh > "${fpath[1]}/_statmap"

Fish:
  $ statmap completion fish > ~/.config/fish/completions/statmap.fish

PowerShell:
  PS> statmap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerValueCompletions attaches value completions to the --method and
// --map-type flags of cmd and its subcommands.
func registerValueCompletions(cmd *cobra.Command) {
	methods := []string{string(classify.Quantile), string(classify.EqualInterval), string(classify.Threshold)}
	mapTypes := make([]string, 0, len(thematic.MapTypes))
	for _, t := range thematic.MapTypes {
		mapTypes = append(mapTypes, string(t))
	}
	values := map[string][]string{"method": methods, "map-type": mapTypes}

	for name, vals := range values {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, prefixCompletions(vals))
	}
	for _, sub := range cmd.Commands() {
		registerValueCompletions(sub)
	}
}

// prefixCompletions completes the values that start with the typed prefix.
func prefixCompletions(vals []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		var out []cobra.Completion
		for _, v := range vals {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
