// internal/cli/run.go
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run -- [command] [args...]",
	Short: "Run a command inside the package environment",
	Long: `Run a command with the package's PATH additions and variables applied on top
of the current environment. The current process environment is left untouched.

Examples:
  emsdk-pkg run -- emcc --version
  emsdk-pkg run -- cmake -DCMAKE_TOOLCHAIN_FILE="$CONAN_CMAKE_TOOLCHAIN_FILE" ..`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	p, err := newPackager(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	info, err := p.Info()
	if err != nil {
		return err
	}

	c := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	c.Env = info.Environment.Environ(os.Environ())
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()

	// exec.LookPath consults the parent PATH; resolve against the new one
	if path, ok := lookPath(args[0], c.Env); ok {
		c.Path = path
		c.Err = nil
	}

	if err := c.Run(); err != nil {
		return fmt.Errorf("running %s: %w", args[0], err)
	}
	return nil
}

// lookPath searches the PATH of env for an executable name. Names with a
// directory component and Windows hosts are left to exec.
func lookPath(name string, env []string) (string, bool) {
	if runtime.GOOS == "windows" || strings.ContainsRune(name, filepath.Separator) {
		return "", false
	}

	var path string
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			path = v
		}
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return candidate, true
	}
	return "", false
}
