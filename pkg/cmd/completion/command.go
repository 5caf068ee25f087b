package completion

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/birdayz/morse/pkg/app"
)

type generator func(root *cobra.Command, w io.Writer, descriptions bool) error

var generators = map[string]generator{
	"bash": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenBashCompletionV2(w, descriptions)
	},
	"zsh": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenFishCompletion(w, descriptions)
	},
	"powershell": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

// Shells lists the shells a completion script can be generated for.
func Shells() []string {
	shells := make([]string, 0, len(generators))
	for s := range generators {
		shells = append(shells, s)
	}
	sort.Strings(shells)
	return shells
}

// NewCommand returns the "morse completion" command for the tree under root.
func NewCommand(root *cobra.Command, a *app.App) *cobra.Command {
	var noDescriptions bool

	cmd := &cobra.Command{
		Use:   "completion [SHELL]",
		Short: "Generate completion script for bash, zsh, fish or powershell",
		Long: `To load completions:

Bash:
  $ source <(morse completion bash)
  $ morse completion bash > /etc/bash_completion.d/morse

Zsh:
  $ morse completion zsh > "${fpath[1]}/_morse"

Fish:
  $ morse completion fish > ~/.config/fish/completions/morse.fish

PowerShell:
  PS> morse completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             Shells(),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generators[args[0]]
			if err := gen(root, a.OutWriter, !noDescriptions); err != nil {
				return fmt.Errorf("failed to generate %s completion: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "Omit completion descriptions")
	return cmd
}
