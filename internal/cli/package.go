// internal/cli/package.go
package cli

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var packageCompression string

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Patch the SDK and store it as a binary package",
	Long: `Run the packaging steps on an installed SDK: patch the CMake toolchain file,
verify every tool resolves, then store the tree in the package cache.

Examples:
  emsdk-pkg package --root /opt/emsdk
  emsdk-pkg package --root /opt/emsdk --os Macos --arch macos_fat --compression zstd`,
	Args: cobra.NoArgs,
	RunE: runPackage,
}

func init() {
	packageCmd.Flags().StringVar(&packageCompression, "compression", "", "archive compression (xz, zstd)")
}

func runPackage(cmd *cobra.Command, args []string) error {
	if packageCompression != "" {
		config.Compression = packageCompression
	}

	p, err := newPackager(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	m, manifestPath, err := p.Package(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Packaged %s/%s for %s\n", m.Name, m.Version, m.Platform)
	fmt.Fprintf(out, "  Package ID: %s\n", m.PackageID)
	fmt.Fprintf(out, "  NAR hash:   %s\n", m.NarHash)
	fmt.Fprintf(out, "  Size:       %s (%s uncompressed)\n", units.HumanSize(float64(m.Size)), units.HumanSize(float64(m.NarSize)))
	fmt.Fprintf(out, "  Manifest:   %s\n", manifestPath)
	return nil
}
