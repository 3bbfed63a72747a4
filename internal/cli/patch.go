// internal/cli/patch.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Let the CMake toolchain find libraries outside the SDK",
	Long: `Switch CMAKE_FIND_ROOT_PATH_MODE_{LIBRARY,INCLUDE,PACKAGE} from ONLY to BOTH
in the SDK's Emscripten.cmake. Running it again is a no-op.`,
	Args: cobra.NoArgs,
	RunE: runPatch,
}

func runPatch(cmd *cobra.Command, args []string) error {
	p, err := newPackager(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	applied, err := p.Patch()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Patched %s: %d substitutions applied\n", p.Layout().ToolchainPath(), applied)
	return nil
}
