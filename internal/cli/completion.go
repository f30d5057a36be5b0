package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var completionInstall bool

// shellCompletion describes how to generate and where to install the
// completion script for one shell. An empty installDir means the shell has
// no automatic install.
type shellCompletion struct {
	generate   func(w io.Writer) error
	installDir []string
	fileName   string
	loadHint   string
	afterHint  string
}

var completionShells = map[string]shellCompletion{
	"bash": {
		generate:   func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		installDir: []string{".local", "share", "bash-completion", "completions"},
		fileName:   "todo",
		loadHint:   `eval "$(todo completion bash)"`,
		afterHint:  "Restart your shell to pick up the completions.",
	},
	"zsh": {
		generate:   func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
		installDir: []string{".local", "share", "zsh", "site-functions"},
		fileName:   "_todo",
		loadHint:   `eval "$(todo completion zsh)"`,
		afterHint:  "Make sure the directory is in your fpath and compinit runs in ~/.zshrc.",
	},
	"fish": {
		generate:   func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		installDir: []string{".config", "fish", "completions"},
		fileName:   "todo.fish",
		loadHint:   "todo completion fish | source",
		afterHint:  "New fish sessions load the completions automatically.",
	},
	"powershell": {
		generate: func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
		loadHint: "todo completion powershell | Out-String | Invoke-Expression",
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for todo",
	Long: `Print or install shell tab-completions for todo.

Supported shells: bash, zsh, fish, powershell

Quick install (writes the script under your home directory):

  todo completion bash --install
  todo completion zsh --install
  todo completion fish --install

Or print the completion script to stdout:

  todo completion bash`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions under your home directory")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	shell := strings.ToLower(args[0])
	sc, ok := completionShells[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", args[0])
	}

	if completionInstall {
		return installCompletion(cmd, shell, sc)
	}

	// Hints go to stderr so eval "$(todo completion bash)" stays clean.
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "# To load completions in your current session:\n#   %s\n", sc.loadHint)
	return sc.generate(cmd.OutOrStdout())
}

func installCompletion(cmd *cobra.Command, shell string, sc shellCompletion) error {
	if len(sc.installDir) == 0 {
		return fmt.Errorf("automatic install is not supported for %s; add '%s' to your profile", shell, sc.loadHint)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("detecting home directory: %w", err)
	}

	dir := filepath.Join(append([]string{home}, sc.installDir...)...)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating completion directory: %w", err)
	}
	target := filepath.Join(dir, sc.fileName)

	if err := writeCompletionFile(target, sc.generate); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s completions installed to %s\n", shell, target)
	_, _ = fmt.Fprintln(out, sc.afterHint)
	return nil
}

// writeCompletionFile creates target and writes the script into it,
// propagating close errors.
func writeCompletionFile(target string, generate func(io.Writer) error) error {
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating completion file %s: %w", target, err)
	}

	writeErr := generate(f)
	closeErr := f.Close()

	if writeErr != nil {
		return fmt.Errorf("writing completion file %s: %w", target, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}
	return nil
}
