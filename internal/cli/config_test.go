package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/emsdk/pkg/core"
)

func TestWriteConfig(t *testing.T) {
	cfg := &core.Config{PackageRoot: "/opt/emsdk", CachePath: "/cache", Arch: "macos_fat"}

	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, cfg))

	var got core.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, *cfg, got)
}

func TestConfigSaveCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "save", "--config", path, "--root", "/srv/emsdk", "--os", "Macos", "--arch", "macos_fat"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, Execute())
	require.Contains(t, out.String(), path)

	saved, err := core.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/emsdk", saved.PackageRoot)
	require.Equal(t, "Macos", saved.OS)
	require.Equal(t, "macos_fat", saved.Arch)
}
