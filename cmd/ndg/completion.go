// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ndg

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd returns the shell-completion generator command.
func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

**Bash**:

$ source <(ndg completion bash)

To load completions for each session, execute once:
- Linux:
  $ ndg completion bash > /etc/bash_completion.d/ndg
- MacOS:
  $ ndg completion bash > /usr/local/etc/bash_completion.d/ndg

**Zsh**:

If shell completion is not already enabled in your environment you will need
to enable it. You can execute the following once:

$ echo "autoload -U compinit; compinit" >> ~/.zshrc

To load completions for each session, execute once:
$ ndg completion zsh > "${fpath[1]}/_ndg"

**Fish**:

$ ndg completion fish | source

To load completions for each session, execute once:
$ ndg completion fish > ~/.config/fish/completions/ndg.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactValidArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				_ = cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				_ = cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				_ = cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				_ = cmd.Root().GenPowerShellCompletion(os.Stdout)
			}
		},
	}
}
