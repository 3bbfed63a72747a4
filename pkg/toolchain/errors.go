// pkg/toolchain/errors.go
package toolchain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTool indicates a logical tool name that is not part of the layout
	ErrUnknownTool = errors.New("unknown tool")

	// ErrToolNotFound indicates a tool wrapper missing from the installed tree
	ErrToolNotFound = errors.New("tool not found")

	// ErrPatchTargetMissing indicates the toolchain file to patch does not exist
	ErrPatchTargetMissing = errors.New("patch target missing")
)

// Error wraps a resolution failure with the operation and subject involved
type Error struct {
	Op   string // Operation that failed
	Name string // Tool name or file path
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
