// errors.go
package emsdk

import (
	"errors"
	"fmt"

	"github.com/arc-language/emsdk/pkg/archive"
	"github.com/arc-language/emsdk/pkg/platform"
	"github.com/arc-language/emsdk/pkg/toolchain"
)

// ErrCacheInsidePackage indicates a binary package cache located within the
// tree it packages
var ErrCacheInsidePackage = errors.New("cache path inside package root")

var (
	// ErrUnknownTool indicates a logical tool name not configured in the layout
	ErrUnknownTool = toolchain.ErrUnknownTool

	// ErrToolNotFound indicates a tool wrapper missing from the installed package
	ErrToolNotFound = toolchain.ErrToolNotFound

	// ErrPatchTargetMissing indicates the CMake toolchain file is absent
	ErrPatchTargetMissing = toolchain.ErrPatchTargetMissing

	// ErrHashMismatch indicates a binary package that fails verification
	ErrHashMismatch = archive.ErrHashMismatch

	// ErrPlatformNotSupported indicates the platform is not supported
	ErrPlatformNotSupported = platform.ErrPlatformNotSupported
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package reference if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
