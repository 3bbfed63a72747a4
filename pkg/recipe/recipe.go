// pkg/recipe/recipe.go
package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"zombiezen.com/go/nix"

	"github.com/arc-language/emsdk/pkg/platform"
	"github.com/arc-language/emsdk/pkg/toolchain"
)

//go:embed emsdk.toml
var defaultManifest string

// Recipe is the metadata of a packaged SDK, read from a recipe.toml file
type Recipe struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	URL         string   `toml:"url"`
	Homepage    string   `toml:"homepage"`
	License     string   `toml:"license"`
	Topics      []string `toml:"topics"`
	Settings    Settings `toml:"settings"`
	Layout      Layout   `toml:"layout"`
}

// Settings lists the platform values a recipe can be built for
type Settings struct {
	OSBuild   []string `toml:"os_build"`
	ArchBuild []string `toml:"arch_build"`
}

// Layout is the on-disk shape of the installed SDK. Paths use forward slashes.
type Layout struct {
	ToolsSubdir   string           `toml:"tools_subdir"`
	ConfigFile    string           `toml:"config_file"`
	CacheDir      string           `toml:"cache_dir"`
	ToolchainFile string           `toml:"toolchain_file"`
	Tools         []toolchain.Tool `toml:"tools"`
}

// Default returns the built-in emsdk recipe
func Default() *Recipe {
	r, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("recipe: built-in manifest is invalid: %v", err))
	}
	return r
}

// Load reads and parses a recipe file
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipe: reading %s: %w", path, err)
	}

	r, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("recipe: %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a recipe manifest
func Parse(data string) (*Recipe, error) {
	var r Recipe
	if _, err := toml.Decode(data, &r); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Recipe) validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Version == "" {
		return errors.New("version is required")
	}
	if r.Layout.ToolsSubdir == "" {
		return errors.New("layout.tools_subdir is required")
	}
	if r.Layout.ToolchainFile == "" {
		return errors.New("layout.toolchain_file is required")
	}

	seen := make(map[string]bool)
	for _, t := range r.Layout.Tools {
		if t.Name == "" || t.Base == "" {
			return fmt.Errorf("layout.tools: entry %+v needs both name and base", t)
		}
		if seen[t.Name] {
			return fmt.Errorf("layout.tools: duplicate tool %s", t.Name)
		}
		seen[t.Name] = true
	}

	for _, s := range r.Settings.OSBuild {
		if _, err := platform.ParseOS(s); err != nil {
			return fmt.Errorf("settings.os_build: %w", err)
		}
	}
	for _, s := range r.Settings.ArchBuild {
		if _, err := platform.ParseArch(s); err != nil {
			return fmt.Errorf("settings.arch_build: %w", err)
		}
	}

	return nil
}

// ToolchainLayout builds the layout of this recipe installed at root
func (r *Recipe) ToolchainLayout(root string) toolchain.Layout {
	return toolchain.Layout{
		RootDir:       root,
		ToolsSubdir:   filepath.FromSlash(r.Layout.ToolsSubdir),
		ConfigFile:    filepath.FromSlash(r.Layout.ConfigFile),
		CacheDir:      filepath.FromSlash(r.Layout.CacheDir),
		ToolchainFile: filepath.FromSlash(r.Layout.ToolchainFile),
		Tools:         append([]toolchain.Tool(nil), r.Layout.Tools...),
	}
}

// Supports reports whether d is within the recipe's declared settings.
// Empty settings lists accept anything the platform package accepts.
func (r *Recipe) Supports(d platform.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if len(r.Settings.OSBuild) > 0 && !containsOS(r.Settings.OSBuild, d.OS) {
		return fmt.Errorf("%w: %s does not build for %s", platform.ErrPlatformNotSupported, r.Name, d.OS)
	}
	if len(r.Settings.ArchBuild) > 0 && !containsArch(r.Settings.ArchBuild, d.Arch) {
		return fmt.Errorf("%w: %s does not build for %s", platform.ErrPlatformNotSupported, r.Name, d.Arch)
	}
	return nil
}

// SDKName returns the name the vendor installer uses for this version
func (r *Recipe) SDKName() string {
	return fmt.Sprintf("sdk-%s-64bit", r.Version)
}

// Reference returns name/version
func (r *Recipe) Reference() string {
	return r.Name + "/" + r.Version
}

// PackageID returns the identity of the binary package built for d. The
// architecture is normalized first, so a fat macOS build and an x86_64 macOS
// build share one ID.
func (r *Recipe) PackageID(d platform.Descriptor) (string, error) {
	if err := r.Supports(d); err != nil {
		return "", err
	}

	n := d.Normalize()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Reference())
	fmt.Fprintf(&b, "os_build=%s\n", n.OS)
	fmt.Fprintf(&b, "arch_build=%s\n", n.Arch)

	h := nix.NewHasher(nix.SHA256)
	io.WriteString(h, b.String())
	return h.SumHash().RawBase32(), nil
}

func containsOS(values []string, o platform.OS) bool {
	for _, v := range values {
		if parsed, err := platform.ParseOS(v); err == nil && parsed == o {
			return true
		}
	}
	return false
}

func containsArch(values []string, a platform.Arch) bool {
	for _, v := range values {
		if parsed, err := platform.ParseArch(v); err == nil && parsed == a {
			return true
		}
	}
	return false
}
