// internal/cli/restore.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [dest]",
	Short: "Unpack the cached binary package for the target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPackager(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		m, err := p.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %s/%s (%s) into %s\n", m.Name, m.Version, m.PackageID, args[0])
		return nil
	},
}
