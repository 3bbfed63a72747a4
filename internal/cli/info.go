// internal/cli/info.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/emsdk"
)

var infoFormat string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the environment the package exposes",
	Long: `Resolve the search path additions and environment variables a consumer
needs to use the installed toolchain.

Examples:
  emsdk-pkg info --root /opt/emsdk
  emsdk-pkg info --root /opt/emsdk --os Windows --format json
  eval "$(emsdk-pkg info --root /opt/emsdk --format env)"`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoFormat, "format", "text", "output format (text, json, yaml, env)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	p, err := newPackager(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	info, err := p.Info()
	if err != nil {
		return err
	}

	return writeInfo(cmd.OutOrStdout(), info, infoFormat)
}

func writeInfo(w io.Writer, info *emsdk.PackageInfo, format string) error {
	switch format {
	case "text", "":
		fmt.Fprintf(w, "Package: %s\n", info.Reference)
		fmt.Fprintf(w, "Package ID: %s\n", info.PackageID)
		fmt.Fprintf(w, "Platform: %s\n", info.Platform)
		fmt.Fprintf(w, "PATH additions:\n")
		for _, dir := range info.Environment.PathAdditions {
			fmt.Fprintf(w, "  %s\n", dir)
		}
		fmt.Fprintf(w, "Variables:\n")
		for _, v := range info.Environment.Vars {
			fmt.Fprintf(w, "  %s=%s\n", v.Name, v.Value)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case "env":
		_, err := io.WriteString(w, info.Environment.Script())
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json, yaml or env)", format)
	}
}

func debugLogger(w io.Writer) *log.Logger {
	return log.New(w, "[DEBUG] ", log.LstdFlags)
}
