// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Detect returns the descriptor of the host system.
// Non-intel macOS hosts get the fat build, which runs on both architectures.
func Detect() (Descriptor, error) {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) (Descriptor, error) {
	var d Descriptor

	switch goos {
	case "windows":
		d.OS = Windows
	case "linux":
		d.OS = Linux
	case "darwin":
		d.OS = MacOS
	default:
		return Descriptor{}, fmt.Errorf("%w: unsupported operating system: %s", ErrPlatformNotSupported, goos)
	}

	switch {
	case goarch == "amd64":
		d.Arch = X86_64
	case d.OS == MacOS:
		d.Arch = MacOSFat
	default:
		return Descriptor{}, fmt.Errorf("%w: unsupported architecture %s on %s", ErrPlatformNotSupported, goarch, goos)
	}

	return d, nil
}

// Resolve builds a descriptor from optional overrides, falling back to the host
// for any part left empty
func Resolve(osName, archName string) (Descriptor, error) {
	d, err := Detect()
	if err != nil && (osName == "" || archName == "") {
		return Descriptor{}, fmt.Errorf("detecting platform: %w", err)
	}

	if osName != "" {
		if d.OS, err = ParseOS(osName); err != nil {
			return Descriptor{}, err
		}
	}
	if archName != "" {
		if d.Arch, err = ParseArch(archName); err != nil {
			return Descriptor{}, err
		}
	} else if d.Arch == MacOSFat && d.OS != MacOS {
		// host default does not carry over to a non-mac target
		d.Arch = X86_64
	}

	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}
