// pkg/archive/manifest.go
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"

	"github.com/arc-language/emsdk/pkg/platform"
)

// Manifest is written next to every binary package
type Manifest struct {
	Name      string              `toml:"name"`
	Version   string              `toml:"version"`
	PackageID string              `toml:"package_id"`
	Archive   string              `toml:"archive"` // file name, relative to the manifest
	NarHash   string              `toml:"nar_hash"`
	NarSize   int64               `toml:"nar_size"`
	Size      int64               `toml:"size"`
	Platform  platform.Descriptor `toml:"platform"`
}

// ManifestPath returns the manifest location for an archive path. Archives
// of either codec share one manifest name.
func ManifestPath(archivePath string) string {
	base := strings.TrimSuffix(archivePath, Extension)
	base = strings.TrimSuffix(base, zstdExtension)
	return base + ".toml"
}

// ArchivePath returns the archive the manifest refers to
func (m *Manifest) ArchivePath(manifestPath string) string {
	return filepath.Join(filepath.Dir(manifestPath), m.Archive)
}

// WriteManifest atomically writes m to path
func WriteManifest(path string, m *Manifest) error {
	f, err := renameio.TempFile("", path)
	if err != nil {
		return fmt.Errorf("creating manifest: %w", err)
	}
	defer f.Cleanup()

	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Archive == "" || m.NarHash == "" {
		return nil, fmt.Errorf("manifest %s: archive and nar_hash are required", path)
	}
	return &m, nil
}
