package toolchain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arc-language/emsdk/pkg/platform"
	"github.com/arc-language/emsdk/pkg/toolchain"
)

// installSDK writes an empty emsdk tree with non-executable wrappers
func installSDK(tb testing.TB, suffix string) string {
	tb.Helper()

	root := tb.TempDir()
	layout := toolchain.DefaultLayout(root)
	require.NoError(tb, os.MkdirAll(layout.ToolsDir(), 0o755))
	for _, tool := range layout.Tools {
		path := filepath.Join(layout.ToolsDir(), tool.Base+suffix)
		require.NoError(tb, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))
		require.NoError(tb, os.Chmod(path, 0o644))
	}
	return root
}

func TestExecutablePath(t *testing.T) {
	r := toolchain.New(toolchain.DefaultLayout("/pkg"), nil)

	for _, target := range []platform.OS{platform.Windows, platform.Linux, platform.MacOS} {
		t.Run(string(target), func(t *testing.T) {
			for _, tool := range toolchain.DefaultTools() {
				path, err := r.ExecutablePath(tool.Name, target)
				require.NoError(t, err)

				want := filepath.Join("/pkg", "upstream", "emscripten", tool.Base)
				if target == platform.Windows {
					want += ".bat"
				}
				require.Equal(t, want, path)

				again, err := r.ExecutablePath(tool.Name, target)
				require.NoError(t, err)
				require.Equal(t, path, again)
			}
		})
	}
}

func TestUnknownTool(t *testing.T) {
	r := toolchain.New(toolchain.DefaultLayout("/pkg"), nil)

	for _, target := range []platform.OS{platform.Windows, platform.Linux, platform.MacOS} {
		_, err := r.ExecutablePath("LD", target)
		require.ErrorIs(t, err, toolchain.ErrUnknownTool)

		_, err = r.ResolveExecutablePath("LD", target)
		require.ErrorIs(t, err, toolchain.ErrUnknownTool)
	}
}

func TestResolveExecutablePath(t *testing.T) {
	t.Run("MarksExecutable", func(t *testing.T) {
		root := installSDK(t, "")
		r := toolchain.New(toolchain.DefaultLayout(root), nil)

		path, err := r.ResolveExecutablePath("CC", platform.Linux)
		require.NoError(t, err)
		require.Equal(t, filepath.Join(root, "upstream", "emscripten", "emcc"), path)

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	})

	t.Run("Missing", func(t *testing.T) {
		root := t.TempDir()
		r := toolchain.New(toolchain.DefaultLayout(root), nil)

		_, err := r.ResolveExecutablePath("CXX", platform.MacOS)
		require.ErrorIs(t, err, toolchain.ErrToolNotFound)

		// resolution must not leave a placeholder behind
		_, statErr := os.Stat(filepath.Join(root, "upstream", "emscripten", "em++"))
		require.True(t, os.IsNotExist(statErr))
	})

	t.Run("WindowsDoesNotCheckExistence", func(t *testing.T) {
		root := t.TempDir()
		r := toolchain.New(toolchain.DefaultLayout(root), nil)

		path, err := r.ResolveExecutablePath("AR", platform.Windows)
		require.NoError(t, err)
		require.Equal(t, filepath.Join(root, "upstream", "emscripten", "emar.bat"), path)
		require.NoFileExists(t, path)
	})
}

func TestEnsureExecutable(t *testing.T) {
	dir := t.TempDir()

	t.Run("AlreadyExecutable", func(t *testing.T) {
		path := filepath.Join(dir, "tool")
		require.NoError(t, os.WriteFile(path, nil, 0o755))
		require.NoError(t, os.Chmod(path, 0o755))

		require.NoError(t, toolchain.EnsureExecutable(path))
		require.NoError(t, toolchain.EnsureExecutable(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	})

	t.Run("PartiallyExecutable", func(t *testing.T) {
		path := filepath.Join(dir, "owner-only")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		require.NoError(t, os.Chmod(path, 0o700))

		require.NoError(t, toolchain.EnsureExecutable(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o711), info.Mode().Perm())
	})

	t.Run("Missing", func(t *testing.T) {
		err := toolchain.EnsureExecutable(filepath.Join(dir, "nope"))
		require.ErrorIs(t, err, toolchain.ErrToolNotFound)
	})
}

func TestEnsureFilePresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "python_selector")

	created, err := toolchain.EnsureFilePresent(path)
	require.NoError(t, err)
	require.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "\n", string(data))

	created, err = toolchain.EnsureFilePresent(path)
	require.NoError(t, err)
	require.False(t, created)

	require.NoError(t, toolchain.EnsureExecutable(path))
}
