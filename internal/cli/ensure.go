// internal/cli/ensure.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ensureCreate bool

var ensureCmd = &cobra.Command{
	Use:   "ensure [script...]",
	Short: "Make auxiliary scripts executable",
	Long: `Mark scripts, given relative to the package root, as executable.
A missing script is an error unless --create is given, in which case an empty
placeholder is written first.

Examples:
  emsdk-pkg ensure emsdk
  emsdk-pkg ensure python_selector --create`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnsure,
}

func init() {
	ensureCmd.Flags().BoolVar(&ensureCreate, "create", false, "create missing scripts as placeholders")
}

func runEnsure(cmd *cobra.Command, args []string) error {
	p, err := newPackager(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if err := p.EnsureScripts(args, ensureCreate); err != nil {
		return err
	}

	for _, script := range args {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", script)
	}
	return nil
}
