// pkg/core/config.go
package core

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/emsdk/pkg/platform"
)

// Config holds emsdk-pkg configuration
type Config struct {
	PackageRoot string `yaml:"package_root"` // Installed SDK tree
	Recipe      string `yaml:"recipe"`       // Optional recipe.toml; the built-in emsdk recipe when empty
	CachePath   string `yaml:"cache_path"`   // Where binary packages are stored
	Compression string `yaml:"compression"`  // xz (default) or zstd
	OS          string `yaml:"os"`           // Target OS; host when empty
	Arch        string `yaml:"arch"`         // Target arch; host when empty
	Debug       bool   `yaml:"debug"`

	// Logger for custom logging
	Logger *log.Logger `yaml:"-"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		PackageRoot: getDefaultPackageRoot(),
		CachePath:   getDefaultCachePath(),
		Debug:       false,
	}
}

// DefaultConfigPath returns $HOME/.config/emsdk-pkg/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "emsdk-pkg", "config.yaml"), nil
}

// LoadConfig loads configuration from file. A missing file yields the defaults;
// fields left empty in the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, or to DefaultConfigPath when path is
// empty, and returns the path written. The file is replaced atomically so a
// concurrent LoadConfig sees either the old or the new settings.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", fmt.Errorf("locating config: %w", err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("# emsdk-pkg configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	return path, nil
}

// Platform returns the target descriptor, filling unset parts from the host
func (c *Config) Platform() (platform.Descriptor, error) {
	return platform.Resolve(c.OS, c.Arch)
}

// GetLogger returns the configured logger, or a default one based on Debug
func (c *Config) GetLogger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Debug {
		return log.New(os.Stdout, "[DEBUG] ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

func getDefaultPackageRoot() string {
	if path := os.Getenv("EMSDK_PKG_ROOT"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/opt/emsdk"
	}

	return filepath.Join(home, ".emsdk-pkg", "emsdk")
}

func getDefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "emsdk-pkg")
	}
	return filepath.Join(home, ".cache", "emsdk-pkg")
}
