// pkg/toolchain/patch.go
package toolchain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/renameio"
)

// Patch is an exact-text substitution
type Patch struct {
	Find    string
	Replace string
}

// DefaultPatches switches the CMake find-root modes from ONLY to BOTH so that
// libraries outside the SDK sysroot (the package manager's own store) are found
func DefaultPatches() []Patch {
	kinds := []string{"LIBRARY", "INCLUDE", "PACKAGE"}
	patches := make([]Patch, 0, len(kinds))
	for _, kind := range kinds {
		patches = append(patches, Patch{
			Find:    fmt.Sprintf("set(CMAKE_FIND_ROOT_PATH_MODE_%s ONLY)", kind),
			Replace: fmt.Sprintf("set(CMAKE_FIND_ROOT_PATH_MODE_%s BOTH)", kind),
		})
	}
	return patches
}

// ApplyPatches replaces the first occurrence of each patch's Find text in the
// file at path and returns how many patches fired. Patches whose text is absent
// are skipped, so applying the same set twice returns 0 the second time.
// The file is rewritten atomically and only if something changed.
func ApplyPatches(path string, patches []Patch) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, &Error{Op: "patch", Name: path, Err: ErrPatchTargetMissing}
		}
		return 0, fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	content := string(data)
	applied := 0
	for _, p := range patches {
		if p.Find == "" || !strings.Contains(content, p.Find) {
			continue
		}
		content = strings.Replace(content, p.Find, p.Replace, 1)
		applied++
	}

	if applied == 0 {
		return 0, nil
	}

	if err := renameio.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return applied, nil
}

// Patch applies DefaultPatches to the layout's CMake toolchain file
func (r *Resolver) Patch() (int, error) {
	path := r.layout.ToolchainPath()
	applied, err := ApplyPatches(path, DefaultPatches())
	if err != nil {
		return 0, err
	}
	r.logger.Printf("Patched %s (%d of %d substitutions applied)", path, applied, len(DefaultPatches()))
	return applied, nil
}
