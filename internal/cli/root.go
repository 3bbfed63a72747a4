// internal/cli/root.go
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/emsdk"
	"github.com/arc-language/emsdk/pkg/core"
)

var (
	cfgFile    string
	rootDir    string
	recipeFile string
	targetOS   string
	targetArch string
	debug      bool
	config     *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "emsdk-pkg",
	Short: "Emscripten SDK binary package tool",
	Long: `emsdk-pkg - Emscripten SDK binary package tool

Turns an installed and activated emsdk tree into a reusable binary package
and exposes the toolchain paths and variables its consumers need.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/emsdk-pkg/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "installed emsdk package root")
	rootCmd.PersistentFlags().StringVar(&recipeFile, "recipe", "", "recipe.toml describing the package (default is the built-in emsdk recipe)")
	rootCmd.PersistentFlags().StringVar(&targetOS, "os", "", "target operating system (Windows, Linux, Macos)")
	rootCmd.PersistentFlags().StringVar(&targetArch, "arch", "", "target architecture (x86_64, macos_fat)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(packageIDCmd)
	rootCmd.AddCommand(ensureCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if rootDir != "" {
		config.PackageRoot = rootDir
	}
	if recipeFile != "" {
		config.Recipe = recipeFile
	}
	if targetOS != "" {
		config.OS = targetOS
	}
	if targetArch != "" {
		config.Arch = targetArch
	}
	if debug {
		config.Debug = true
	}
}

// newPackager builds a packager from the effective configuration. Debug
// output goes to stderr so it never mixes with machine-readable stdout.
func newPackager(stderr io.Writer) (*emsdk.Packager, error) {
	if config.Debug && config.Logger == nil {
		config.Logger = debugLogger(stderr)
	}
	return emsdk.NewPackager(config)
}
