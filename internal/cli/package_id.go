// internal/cli/package_id.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var packageIDCmd = &cobra.Command{
	Use:   "package-id",
	Short: "Print the binary package identity for the target",
	Long: `Print the key binary packages are cached under. Fat and x86_64 macOS builds
share one identity.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPackager(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		id, err := p.PackageID()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}
