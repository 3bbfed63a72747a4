// pkg/toolchain/resolve.go
package toolchain

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/arc-language/emsdk/pkg/platform"
)

// Resolver computes tool locations and environments for one installed SDK
type Resolver struct {
	layout Layout
	logger *log.Logger
}

// New creates a resolver for layout. A nil logger discards output.
func New(layout Layout, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{
		layout: layout.clone(),
		logger: logger,
	}
}

// Layout returns a copy of the layout the resolver was built with
func (r *Resolver) Layout() Layout {
	return r.layout.clone()
}

// ExecutablePath computes the absolute path of a tool wrapper without
// touching the filesystem
func (r *Resolver) ExecutablePath(name string, target platform.OS) (string, error) {
	base, ok := r.layout.base(name)
	if !ok {
		return "", &Error{Op: "resolve", Name: name, Err: ErrUnknownTool}
	}

	suffix := platform.Descriptor{OS: target}.ExecutableSuffix()
	return filepath.Join(r.layout.ToolsDir(), base+suffix), nil
}

// ResolveExecutablePath computes the path of a tool wrapper and, for POSIX
// targets, makes sure the file exists and is executable. Windows targets
// get the .bat path only: nothing checks that the wrapper exists, so a
// Windows environment can be built for a tree lacking its tools.
func (r *Resolver) ResolveExecutablePath(name string, target platform.OS) (string, error) {
	path, err := r.ExecutablePath(name, target)
	if err != nil {
		return "", err
	}

	if target != platform.Windows {
		if err := EnsureExecutable(path); err != nil {
			return "", &Error{Op: "resolve", Name: name, Err: err}
		}
	}

	return path, nil
}

// EnsureExecutable ORs the executable bits into the mode of path.
// A file that is already executable for everyone is left alone; a missing
// file is an error wrapping ErrToolNotFound.
func EnsureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrToolNotFound, path)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrToolNotFound, path)
	}

	mode := info.Mode().Perm()
	if mode&0o111 == 0o111 {
		return nil
	}

	if err := os.Chmod(path, mode|0o111); err != nil {
		return fmt.Errorf("making %s executable: %w", path, err)
	}
	return nil
}

// EnsureFilePresent creates path with a single newline if it does not exist.
// It reports whether the file was created. Resolution never calls this; it is
// meant for optional auxiliary scripts that callers explicitly tolerate.
func EnsureFilePresent(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return false, fmt.Errorf("%s is a directory", path)
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	return true, nil
}
