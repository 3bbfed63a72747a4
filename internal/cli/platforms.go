// internal/cli/platforms.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/emsdk/pkg/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the platforms a package can be built for",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, hostErr := platform.Detect()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Platforms:\n")
		for _, d := range platform.Matrix() {
			marker := " "
			if hostErr == nil && d == host {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %-18s identity arch: %s\n", marker, d, platform.NormalizeArch(d))
		}

		if hostErr == nil {
			fmt.Fprintf(out, "\n* = host platform\n")
		}
		return nil
	},
}
