// internal/cli/config.go
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/emsdk/pkg/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after flag overrides are applied.

Examples:
  emsdk-pkg config
  emsdk-pkg config save --root /opt/emsdk --arch macos_fat`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.OutOrStdout(), config)
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist the effective configuration",
	Long: `Write the configuration, including any flag overrides, to the config file
(--config, or $HOME/.config/emsdk-pkg/config.yaml).`,
	Args: cobra.NoArgs,
	RunE: runConfigSave,
}

func init() {
	configCmd.AddCommand(configSaveCmd)
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	if _, err := config.Platform(); err != nil {
		return err
	}

	path, err := core.SaveConfig(config, cfgFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved configuration to %s\n", path)
	return nil
}

func writeConfig(w io.Writer, cfg *core.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
