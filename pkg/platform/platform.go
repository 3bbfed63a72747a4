// pkg/platform/platform.go
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPlatformNotSupported indicates an os/arch combination outside the settings domain
var ErrPlatformNotSupported = errors.New("platform not supported")

// OS is the operating system a package is built for
type OS string

const (
	// Windows targets; tool wrappers carry a .bat suffix
	Windows OS = "Windows"
	// Linux targets
	Linux OS = "Linux"
	// MacOS targets
	MacOS OS = "Macos"
)

// Arch is the build architecture setting
type Arch string

const (
	// X86_64 is a plain 64-bit intel build
	X86_64 Arch = "x86_64"
	// MacOSFat is a universal macOS build. It satisfies x86_64 consumers.
	MacOSFat Arch = "macos_fat"
)

// Descriptor identifies the platform a package is built for
type Descriptor struct {
	OS   OS   `json:"os" yaml:"os" toml:"os"`
	Arch Arch `json:"arch" yaml:"arch" toml:"arch"`
}

// Matrix returns every valid settings combination
func Matrix() []Descriptor {
	return []Descriptor{
		{Windows, X86_64},
		{Linux, X86_64},
		{MacOS, X86_64},
		{MacOS, MacOSFat},
	}
}

// NormalizeArch returns the architecture used for package identity.
// A fat macOS build collapses to x86_64; everything else is unchanged.
func NormalizeArch(d Descriptor) Arch {
	if d.Arch == MacOSFat {
		return X86_64
	}
	return d.Arch
}

// Normalize returns a copy of d with its architecture normalized
func (d Descriptor) Normalize() Descriptor {
	return Descriptor{OS: d.OS, Arch: NormalizeArch(d)}
}

// Validate checks d against the settings domain
func (d Descriptor) Validate() error {
	switch d.OS {
	case Windows, Linux, MacOS:
	default:
		return fmt.Errorf("%w: unknown operating system %q", ErrPlatformNotSupported, d.OS)
	}

	switch d.Arch {
	case X86_64:
	case MacOSFat:
		if d.OS != MacOS {
			return fmt.Errorf("%w: %s is only valid for %s, got %s", ErrPlatformNotSupported, MacOSFat, MacOS, d.OS)
		}
	default:
		return fmt.Errorf("%w: unknown architecture %q", ErrPlatformNotSupported, d.Arch)
	}

	return nil
}

// ExecutableSuffix returns the suffix of the tool wrapper scripts
func (d Descriptor) ExecutableSuffix() string {
	if d.OS == Windows {
		return ".bat"
	}
	return ""
}

// PathListSeparator returns the search path separator of the target
func (d Descriptor) PathListSeparator() string {
	if d.OS == Windows {
		return ";"
	}
	return ":"
}

// String returns a string representation of the descriptor
func (d Descriptor) String() string {
	return string(d.OS) + "/" + string(d.Arch)
}

// ParseOS accepts both settings spellings (Macos) and Go spellings (darwin)
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows", "win":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "macos", "darwin", "osx":
		return MacOS, nil
	default:
		return "", fmt.Errorf("%w: unknown operating system %q", ErrPlatformNotSupported, s)
	}
}

// ParseArch accepts both settings spellings (x86_64) and Go spellings (amd64)
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86_64", "amd64", "x64":
		return X86_64, nil
	case "macos_fat", "universal", "fat":
		return MacOSFat, nil
	default:
		return "", fmt.Errorf("%w: unknown architecture %q", ErrPlatformNotSupported, s)
	}
}

// Parse parses an "os/arch" pair and validates it
func Parse(s string) (Descriptor, error) {
	osPart, archPart, ok := strings.Cut(s, "/")
	if !ok {
		return Descriptor{}, fmt.Errorf("invalid platform %q: expected os/arch", s)
	}

	o, err := ParseOS(osPart)
	if err != nil {
		return Descriptor{}, err
	}
	a, err := ParseArch(archPart)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{OS: o, Arch: a}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}
