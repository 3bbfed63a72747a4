// pkg/toolchain/layout.go
package toolchain

import (
	"path/filepath"
)

// Names of the infrastructure variables exported for every package
const (
	VarRoot          = "EMSDK"
	VarTools         = "EMSCRIPTEN"
	VarConfig        = "EM_CONFIG"
	VarCache         = "EM_CACHE"
	VarToolchainFile = "CONAN_CMAKE_TOOLCHAIN_FILE"
)

// Tool maps a logical tool name to the base filename of its wrapper
type Tool struct {
	Name string `json:"name" yaml:"name" toml:"name"` // e.g. "CC"
	Base string `json:"base" yaml:"base" toml:"base"` // e.g. "emcc"
}

// Layout defines where files are located within an installed SDK.
// All fields but RootDir are relative paths.
type Layout struct {
	RootDir       string // Absolute package root (e.g. /opt/emsdk)
	ToolsSubdir   string // Directory holding the driver wrappers, relative to RootDir
	ConfigFile    string // SDK configuration file, relative to RootDir
	CacheDir      string // SDK cache directory, relative to RootDir
	ToolchainFile string // CMake toolchain file, relative to the tools directory
	Tools         []Tool // Ordered tool set
}

// DefaultTools returns the driver wrappers every emsdk install ships
func DefaultTools() []Tool {
	return []Tool{
		{Name: "CC", Base: "emcc"},
		{Name: "CXX", Base: "em++"},
		{Name: "RANLIB", Base: "emranlib"},
		{Name: "AR", Base: "emar"},
	}
}

// DefaultLayout returns the layout of an activated emsdk rooted at root
func DefaultLayout(root string) Layout {
	return Layout{
		RootDir:       root,
		ToolsSubdir:   filepath.Join("upstream", "emscripten"),
		ConfigFile:    ".emscripten",
		CacheDir:      ".emscripten_cache",
		ToolchainFile: filepath.Join("cmake", "Modules", "Platform", "Emscripten.cmake"),
		Tools:         DefaultTools(),
	}
}

// ToolsDir returns the absolute directory of the driver wrappers
func (l Layout) ToolsDir() string {
	return filepath.Join(l.RootDir, l.ToolsSubdir)
}

// ConfigPath returns the absolute path of the SDK configuration file
func (l Layout) ConfigPath() string {
	return filepath.Join(l.RootDir, l.ConfigFile)
}

// CachePath returns the absolute path of the SDK cache directory
func (l Layout) CachePath() string {
	return filepath.Join(l.RootDir, l.CacheDir)
}

// ToolchainPath returns the absolute path of the CMake toolchain file
func (l Layout) ToolchainPath() string {
	return filepath.Join(l.ToolsDir(), l.ToolchainFile)
}

// base returns the wrapper base name configured for a logical tool name
func (l Layout) base(name string) (string, bool) {
	for _, t := range l.Tools {
		if t.Name == name {
			return t.Base, true
		}
	}
	return "", false
}

// clone returns a copy of l that shares no slices with it
func (l Layout) clone() Layout {
	c := l
	c.Tools = append([]Tool(nil), l.Tools...)
	return c
}
